package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if msg := errorMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// errorMessage returns the line printed to stderr for err, or "" when the
// cause has already been printed
func errorMessage(err error) string {
	if errors.Is(err, errScrapeFailed) {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}
