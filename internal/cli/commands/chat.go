package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/chat"
	"github.com/shoebot/storefront/internal/cli/client"
	"github.com/shoebot/storefront/internal/cli/config"
	"github.com/shoebot/storefront/internal/cli/tui"
	"github.com/shoebot/storefront/internal/cli/ui"
)

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "chat with the shopping assistant",
	Long: `Start an interactive chat session with the shopping assistant.

The assistant can recommend shoes, add items to your cart, and remove
them again. The cart badge in the status bar updates as the conversation
changes your cart.`,
	Example: `  # Start interactive chat
  $ shopctl chat

  # Keyboard controls:
  • Enter sends the message
  • /add <n> <size> <color> adds the n-th recommended product
  • Esc or Ctrl+C exits the session`,
	RunE: runChat,
}

func init() {
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Println("\nRun 'shopctl chat' to start an interactive session.")
		return fmt.Errorf("invalid arguments")
	}

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

	apiClient, err := client.NewAPIClient(cfg.Server, cfg.AccessToken)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	coordinator := cart.NewCoordinator(apiClient, nil)
	bridge := chat.NewBridge(apiClient, coordinator, nil)

	program := tui.NewChatProgram(bridge, coordinator)
	if err := program.Run(); err != nil {
		if cart.IsUnauthorized(err) {
			return requestError(cfg, "run chat session", err)
		}
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}
