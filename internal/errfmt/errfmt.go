// Package errfmt turns errors into the single line printed after "Error: ".
package errfmt

import (
	"errors"
	"fmt"

	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
	"golang.org/x/oauth2"
	ggoogleapi "google.golang.org/api/googleapi"

	"github.com/theakshaypant/nxt/internal/config"
)

const authHint = "Run: nxt auth --client-id <id> --client-secret <secret>"

func Format(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, config.ErrNotAuthenticated) {
		return "Not authenticated. " + authHint
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		code := rerr.ErrorCode
		if code == "" && rerr.Response != nil {
			code = rerr.Response.Status
		}
		if rerr.ErrorDescription != "" {
			return fmt.Sprintf("OAuth token request failed (%s): %s. %s", code, rerr.ErrorDescription, authHint)
		}
		return fmt.Sprintf("OAuth token request failed (%s). %s", code, authHint)
	}

	var gerr *ggoogleapi.Error
	if errors.As(err, &gerr) {
		reason := ""
		if len(gerr.Errors) > 0 && gerr.Errors[0].Reason != "" {
			reason = gerr.Errors[0].Reason
		}

		msg := fmt.Sprintf("Google API error (%d): %s", gerr.Code, gerr.Message)
		if reason != "" {
			msg = fmt.Sprintf("Google API error (%d %s): %s", gerr.Code, reason, gerr.Message)
		}
		if gerr.Code == 401 {
			msg += ". " + authHint
		}
		return msg
	}

	var oerr *odataerrors.ODataError
	if errors.As(err, &oerr) {
		code, message := "", oerr.Error()
		if main := oerr.GetErrorEscaped(); main != nil {
			if c := main.GetCode(); c != nil {
				code = *c
			}
			if m := main.GetMessage(); m != nil {
				message = *m
			}
		}

		msg := fmt.Sprintf("Microsoft Graph error (%d): %s", oerr.ResponseStatusCode, message)
		if code != "" {
			msg = fmt.Sprintf("Microsoft Graph error (%d %s): %s", oerr.ResponseStatusCode, code, message)
		}
		if oerr.ResponseStatusCode == 401 {
			msg += ". " + authHint
		}
		return msg
	}

	return err.Error()
}
