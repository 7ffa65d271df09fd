package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/cli/types"
	"github.com/shoebot/storefront/internal/cli/ui"
)

// checkoutCmd is the checkout command
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "place an order for the cart contents",
	Long: `Place an order for the current cart contents.

Shows the cart, asks for shipping details, and submits the order. The
store empties the cart once the order is accepted.`,
	Example: `  # Check out the current cart
  $ shopctl checkout`,
	Args: cobra.NoArgs,
	RunE: runCheckout,
}

func init() {
	checkoutCmd.SilenceUsage = true
}

func runCheckout(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg, apiClient, coordinator, err := newCartSession()
	if err != nil {
		return err
	}

	snapshot, err := coordinator.Refresh(ctx)
	if err != nil {
		return requestError(cfg, "fetch cart", err)
	}

	if len(snapshot.Items) == 0 {
		ui.PrintWarning("Your cart is empty, nothing to check out")
		return nil
	}

	printCart(snapshot)
	fmt.Println()

	// Shipping form
	var shipping types.ShippingInfo
	questions := []*survey.Question{
		{
			Name:     "fullName",
			Prompt:   &survey.Input{Message: "Full name:"},
			Validate: survey.Required,
		},
		{
			Name:     "address",
			Prompt:   &survey.Input{Message: "Street address:"},
			Validate: survey.Required,
		},
		{
			Name:     "city",
			Prompt:   &survey.Input{Message: "City:"},
			Validate: survey.Required,
		},
		{
			Name:     "zipCode",
			Prompt:   &survey.Input{Message: "ZIP / postal code:"},
			Validate: survey.Required,
		},
		{
			Name:     "country",
			Prompt:   &survey.Input{Message: "Country:"},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(questions, &shipping); err != nil {
		ui.PrintError("failed to read shipping details: %v", err)
		return fmt.Errorf("input failed")
	}

	confirmed := false
	confirm := &survey.Confirm{
		Message: fmt.Sprintf("Place order for $%.2f?", snapshot.Total),
		Default: true,
	}
	if err := survey.AskOne(confirm, &confirmed); err != nil {
		ui.PrintError("failed to read confirmation: %v", err)
		return fmt.Errorf("input failed")
	}
	if !confirmed {
		ui.PrintInfo("Checkout cancelled")
		return nil
	}

	order, err := apiClient.CreateOrder(ctx, shipping)
	if err != nil {
		if cart.IsUnauthorized(err) {
			return requestError(cfg, "place order", err)
		}
		ui.PrintErrorBox("Checkout Failed", err.Error())
		return fmt.Errorf("checkout failed")
	}

	fmt.Println()
	fmt.Println(ui.RenderOrder(*order))
	ui.PrintSuccess("Order %s placed", order.ID)

	// The store cleared the cart server-side; confirm with a re-fetch
	if _, err := coordinator.Refresh(ctx); err == nil {
		printCart(coordinator.Snapshot())
	}

	return nil
}
