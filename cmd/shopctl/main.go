package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/shoebot/storefront/internal/cli/commands"
	"github.com/shoebot/storefront/internal/cli/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		// Handle unknown command errors specially
		errMsg := err.Error()
		if strings.Contains(errMsg, "unknown command") {
			ui.PrintError("%s", errMsg)
			fmt.Println("\nRun 'shopctl --help' for usage.")
		}
		os.Exit(1)
	}
}
