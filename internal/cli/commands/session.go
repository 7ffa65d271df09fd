package commands

import (
	"fmt"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/cli/config"
	"github.com/shoebot/storefront/internal/cli/ui"
)

// requestError reports a failed API call. A rejected token tears down the
// session: the saved token is cleared from the config file and the user is
// told to log in again. Any other error is printed as a failure of action.
func requestError(cfg *config.Config, action string, err error) error {
	if cart.IsUnauthorized(err) {
		if clearErr := cfg.ClearSession(); clearErr != nil {
			ui.PrintWarning("failed to clear saved session: %v", clearErr)
		}
		ui.PrintError("your session has expired")
		fmt.Println("\nRun 'shopctl login' to authenticate again.")
		return fmt.Errorf("session expired")
	}
	ui.PrintError("failed to %s: %v", action, err)
	return fmt.Errorf("%s failed", action)
}
