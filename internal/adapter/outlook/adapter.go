package outlook

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/theakshaypant/nxt/internal/core"
)

// tokenCredential bridges an OAuth2 token source into the Azure SDK's
// TokenCredential interface, allowing the Microsoft Graph SDK to
// authenticate requests.
type tokenCredential struct {
	src oauth2.TokenSource
}

func (c *tokenCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	tok, err := c.src.Token()
	if err != nil {
		return azcore.AccessToken{}, fmt.Errorf("refresh outlook token (run 'nxt auth' again): %w", err)
	}
	return azcore.AccessToken{
		Token:     tok.AccessToken,
		ExpiresOn: tok.Expiry,
	}, nil
}

// OutlookAdapter reads Microsoft Outlook / Office 365 calendars
// using the official Microsoft Graph SDK.
type OutlookAdapter struct {
	client   *msgraphsdk.GraphServiceClient
	pageSize int32
}

// OAuthConfig returns the OAuth2 configuration for Microsoft identity platform.
// Used by the auth command to run the initial OAuth flow.
func OAuthConfig(clientID, clientSecret, tenantID, redirectURL string) *oauth2.Config {
	if tenantID == "" {
		tenantID = "common"
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     microsoft.AzureADEndpoint(tenantID),
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://graph.microsoft.com/Calendars.Read",
			"https://graph.microsoft.com/User.Read",
			"offline_access",
		},
	}
}

// NewOutlookAdapter creates a Graph client that authenticates through ts.
func NewOutlookAdapter(ts oauth2.TokenSource, pageSize int32) (*OutlookAdapter, error) {
	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(&tokenCredential{src: ts}, []string{
		"https://graph.microsoft.com/.default",
	})
	if err != nil {
		return nil, fmt.Errorf("create graph client: %w", err)
	}
	return &OutlookAdapter{client: client, pageSize: pageSize}, nil
}

// ListCalendars fetches all calendars the user has access to, following
// @odata.nextLink pages. Description carries the owner's address.
func (o *OutlookAdapter) ListCalendars(ctx context.Context) ([]core.Calendar, error) {
	result, err := o.client.Me().Calendars().Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}

	pageIterator, err := msgraphcore.NewPageIterator[models.Calendarable](
		result,
		o.client.GetAdapter(),
		models.CreateCalendarCollectionResponseFromDiscriminatorValue,
	)
	if err != nil {
		return nil, fmt.Errorf("create page iterator: %w", err)
	}

	var calendars []core.Calendar
	err = pageIterator.Iterate(ctx, func(cal models.Calendarable) bool {
		id := derefStr(cal.GetId())
		if id == "" {
			return true
		}
		description := ""
		if owner := cal.GetOwner(); owner != nil {
			description = derefStr(owner.GetAddress())
		}
		calendars = append(calendars, core.Calendar{
			ID:          id,
			Summary:     derefStr(cal.GetName()),
			Description: description,
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("iterate calendars: %w", err)
	}
	return calendars, nil
}
