// Command catalog manages the marketplace product catalog and its ratings.
package main

import (
	"fmt"
	"os"

	"bee-market/internal/cli"
)

func main() {
	if err := cli.RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
