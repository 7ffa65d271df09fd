package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/shoebot/storefront/internal/cli/client"
	"github.com/shoebot/storefront/internal/cli/ui"
)

var (
	registerUsername string
)

// registerCmd is the register command
var registerCmd = &cobra.Command{
	Use:   "register [server]",
	Short: "create a new store account",
	Long: `Create a new account on the storefront API.

If server is not provided, defaults to http://localhost:8080. After
registering, run 'shopctl login' to authenticate.`,
	Example: `  # Register on the default server
  $ shopctl register

  # Register on a custom server with a username
  $ shopctl register http://shop.example.com:8080 -u alice`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username for the new account")

	registerCmd.SilenceUsage = true
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	server := "http://localhost:8080"
	if len(args) > 0 {
		server = args[0]
	}

	if registerUsername == "" {
		prompt := &survey.Input{
			Message: "Username:",
		}
		if err := survey.AskOne(prompt, &registerUsername, survey.WithValidator(survey.Required)); err != nil {
			ui.PrintError("failed to read username: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	var password string
	prompt := &survey.Password{
		Message: "Password:",
	}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.Required)); err != nil {
		ui.PrintError("failed to read password: %v", err)
		return fmt.Errorf("input failed")
	}

	apiClient, err := client.NewAPIClient(server, "")
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	ui.PrintInfo("Connecting to %s...", server)

	user, err := apiClient.Register(ctx, registerUsername, password)
	if err != nil {
		ui.PrintErrorBox("Registration Failed", err.Error())
		return fmt.Errorf("registration failed")
	}

	ui.PrintSuccess("Account %s created", user.Username)
	fmt.Println()
	ui.PrintInfo("Run 'shopctl login -u %s' to sign in.", user.Username)

	return nil
}
