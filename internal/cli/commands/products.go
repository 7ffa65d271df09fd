package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shoebot/storefront/internal/catalog"
	"github.com/shoebot/storefront/internal/cli/client"
	"github.com/shoebot/storefront/internal/cli/config"
	"github.com/shoebot/storefront/internal/cli/ui"
)

var (
	productsSearch string
)

// productsCmd is the products command
var productsCmd = &cobra.Command{
	Use:   "products [id]",
	Short: "browse the shoe catalog",
	Long: `Browse the shoe catalog.

Without arguments, lists every product with its price. With a product id,
shows the full detail including available sizes and colors. Use --search
to filter by name, brand, or category.`,
	Example: `  # List the whole catalog
  $ shopctl products

  # Show one product with its variants
  $ shopctl products p3

  # Search by keyword
  $ shopctl products --search runner`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProducts,
}

func init() {
	productsCmd.Flags().StringVarP(&productsSearch, "search", "s", "", "Filter products by keyword")

	// Silence usage to avoid showing help on every error
	productsCmd.SilenceUsage = true
}

func runProducts(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	if !cfg.IsAuthenticated() {
		ui.PrintError("not authenticated, please login first")
		fmt.Println("\nRun 'shopctl login' to authenticate.")
		return fmt.Errorf("authentication required")
	}

	// Create API client
	apiClient, err := client.NewAPIClient(cfg.Server, cfg.AccessToken)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	// Detail view for a single product
	if len(args) == 1 {
		product, err := apiClient.GetProduct(ctx, args[0])
		if err != nil {
			return requestError(cfg, "get product", err)
		}
		fmt.Println()
		fmt.Println(ui.RenderProductDetail(product))
		return nil
	}

	// List or search view
	var products []catalog.Product
	if productsSearch != "" {
		products, err = apiClient.SearchProducts(ctx, productsSearch)
	} else {
		products, err = apiClient.ListProducts(ctx)
	}
	if err != nil {
		return requestError(cfg, "list products", err)
	}

	fmt.Println()
	fmt.Println(ui.RenderProductList(products))
	return nil
}
