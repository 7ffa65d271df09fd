package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/cli/client"
	"github.com/shoebot/storefront/internal/cli/config"
	"github.com/shoebot/storefront/internal/cli/ui"
)

var (
	cartAddSize     string
	cartAddColor    string
	cartAddQuantity int
)

// cartCmd is the cart command group
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "show and manage your cart",
	Long: `Show and manage your shopping cart.

Without a subcommand, fetches the cart from the store and displays every
line item with the running total. The quantity shown is always the
server's answer; local edits are confirmed by a re-fetch.`,
	Example: `  # Show the cart
  $ shopctl cart

  # Add a product (prompts for size and color)
  $ shopctl cart add p3

  # Set a line's quantity (0 removes it)
  $ shopctl cart set b2c6... 2

  # Remove a line
  $ shopctl cart remove b2c6...

  # Empty the cart
  $ shopctl cart clear`,
	RunE: runCartShow,
}

// cartAddCmd adds a product variant to the cart
var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

// cartSetCmd sets a line's quantity
var cartSetCmd = &cobra.Command{
	Use:   "set <item-id> <quantity>",
	Short: "set a cart line's quantity",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartSet,
}

// cartRemoveCmd removes a line from the cart
var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

// cartClearCmd empties the cart
var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

func init() {
	cartAddCmd.Flags().StringVar(&cartAddSize, "size", "", "Shoe size (prompted if omitted)")
	cartAddCmd.Flags().StringVar(&cartAddColor, "color", "", "Color (prompted if omitted)")
	cartAddCmd.Flags().IntVarP(&cartAddQuantity, "quantity", "q", 1, "Quantity to add")

	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartSetCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)

	for _, c := range []*cobra.Command{cartCmd, cartAddCmd, cartSetCmd, cartRemoveCmd, cartClearCmd} {
		c.SilenceUsage = true
	}
}

// newCartSession loads config and builds the API client plus a coordinator
// around it. Every cart subcommand goes through the coordinator so the
// printed snapshot is always the post-mutation server state.
func newCartSession() (*config.Config, *client.APIClient, *cart.Coordinator, error) {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return nil, nil, nil, fmt.Errorf("config load failed")
	}

	if !cfg.IsAuthenticated() {
		ui.PrintError("not authenticated, please login first")
		fmt.Println("\nRun 'shopctl login' to authenticate.")
		return nil, nil, nil, fmt.Errorf("authentication required")
	}

	apiClient, err := client.NewAPIClient(cfg.Server, cfg.AccessToken)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, nil, nil, fmt.Errorf("client creation failed")
	}

	return cfg, apiClient, cart.NewCoordinator(apiClient, nil), nil
}

func printCart(snapshot cart.Snapshot) {
	fmt.Println()
	fmt.Println(ui.RenderCart(snapshot))
	fmt.Println(ui.RenderCartSummary(snapshot))
}

func runCartShow(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Printf("\nRun '%s --help' for usage.\n", cmd.CommandPath())
		return fmt.Errorf("invalid arguments")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, _, coordinator, err := newCartSession()
	if err != nil {
		return err
	}

	snapshot, err := coordinator.Refresh(ctx)
	if err != nil {
		return requestError(cfg, "fetch cart", err)
	}

	printCart(snapshot)
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg, apiClient, coordinator, err := newCartSession()
	if err != nil {
		return err
	}

	product, err := apiClient.GetProduct(ctx, args[0])
	if err != nil {
		return requestError(cfg, "get product", err)
	}

	// Prompt for any variant dimension not given on the command line
	size := cartAddSize
	if size == "" && len(product.Sizes) > 0 {
		prompt := &survey.Select{
			Message: fmt.Sprintf("Size for %s:", product.Name),
			Options: product.Sizes,
		}
		if err := survey.AskOne(prompt, &size); err != nil {
			ui.PrintError("failed to read size: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	color := cartAddColor
	if color == "" && len(product.Colors) > 0 {
		prompt := &survey.Select{
			Message: fmt.Sprintf("Color for %s:", product.Name),
			Options: product.Colors,
		}
		if err := survey.AskOne(prompt, &color); err != nil {
			ui.PrintError("failed to read color: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	if err := coordinator.Add(ctx, product, size, color, cartAddQuantity); err != nil {
		if cart.IsInvalidVariant(err) {
			ui.PrintError("%s is not offered in size %q / color %q", product.Name, size, color)
			return fmt.Errorf("invalid variant")
		}
		return requestError(cfg, "add to cart", err)
	}

	ui.PrintSuccess("Added %s (size %s, %s) to your cart", product.Name, size, color)
	printCart(coordinator.Snapshot())
	return nil
}

func runCartSet(cmd *cobra.Command, args []string) error {
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		ui.PrintError("invalid quantity: %s", args[1])
		return fmt.Errorf("invalid arguments")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, _, coordinator, err := newCartSession()
	if err != nil {
		return err
	}

	// Resolve line ids against the current snapshot first
	if _, err := coordinator.Refresh(ctx); err != nil {
		return requestError(cfg, "fetch cart", err)
	}

	if err := coordinator.SetQuantity(ctx, args[0], quantity); err != nil {
		return requestError(cfg, "update quantity", err)
	}

	if quantity < 1 {
		ui.PrintSuccess("Removed line %s", args[0])
	} else {
		ui.PrintSuccess("Set line %s to quantity %d", args[0], quantity)
	}
	printCart(coordinator.Snapshot())
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, _, coordinator, err := newCartSession()
	if err != nil {
		return err
	}

	if _, err := coordinator.Refresh(ctx); err != nil {
		return requestError(cfg, "fetch cart", err)
	}

	if err := coordinator.Remove(ctx, args[0]); err != nil {
		return requestError(cfg, "remove line", err)
	}

	ui.PrintSuccess("Removed line %s", args[0])
	printCart(coordinator.Snapshot())
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, _, coordinator, err := newCartSession()
	if err != nil {
		return err
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: "Empty the whole cart?",
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		ui.PrintError("failed to read confirmation: %v", err)
		return fmt.Errorf("input failed")
	}
	if !confirmed {
		ui.PrintInfo("Cart left as is")
		return nil
	}

	if err := coordinator.Clear(ctx); err != nil {
		return requestError(cfg, "clear cart", err)
	}

	ui.PrintSuccess("Cart emptied")
	return nil
}
