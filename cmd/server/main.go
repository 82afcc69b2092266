// Package main implements the library-api command: the HTTP server for the
// author and book catalog, plus database migration and seeding commands.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
