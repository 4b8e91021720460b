// Package main provides the xbrlgen binary, a command-line front end to the
// report factory. It renders report definitions to XBRL instance documents
// without a server or database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
