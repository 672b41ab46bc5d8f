package main

import (
	"os"

	"github.com/theakshaypant/nxt/cmd/nxt/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
