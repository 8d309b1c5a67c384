package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inheritx/ixdeploy/internal/app"
	"github.com/inheritx/ixdeploy/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ixdeploy",
		Short: "Declare and deploy the InheritX contracts on Starknet",
		Long: `ixdeploy declares and deploys the InheritX Cairo contracts to a Starknet network.

Each contract is described by an entry of the contract table: its artifact, the
summary file it writes and where every constructor argument comes from. A
deploy.toml at the project root overrides or extends the built-in table.

Credentials are read from STARKNET_ACCOUNT_ADDRESS and STARKNET_PRIVATE_KEY,
optionally through a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipAppInit(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				// Outside a Scarb project paths resolve against cwd
				projectRoot, err = os.Getwd()
				if err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, err := getApp(cmd); err == nil {
				a.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (sepolia, mainnet, devnet)")
	rootCmd.PersistentFlags().String("rpc-url", "", "JSON-RPC endpoint, overrides STARKNET_RPC_URL")
	rootCmd.PersistentFlags().String("out-dir", "", "Directory deployment summaries are written to (default: current directory)")
	rootCmd.PersistentFlags().String("artifacts-dir", "", "Directory holding compiled contract classes (default: target/dev)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort a run after this long (0 disables)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Deployment Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands",
	})

	for _, c := range []*cobra.Command{NewDeployCmd(), NewComposeCmd(), NewCalldataCmd()} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewListCmd(), NewShowCmd(), NewVerifyCmd()} {
		c.GroupID = "inspect"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func skipAppInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
