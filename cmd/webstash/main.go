// Package main provides the entry point for the webstash CLI.
package main

import (
	"os"

	"github.com/webstash/webstash/cmd/webstash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
