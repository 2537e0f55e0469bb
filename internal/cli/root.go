package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagConfig  string
)

func newRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "konex",
		Short: "Home automation configurator",
		Long:  "konex walks a prospect through a short questionnaire, recommends a home automation bundle, produces a PDF study and passes the lead to the CRM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Show detailed log output")
	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to konex.toml (default: next to the binary, then ~/.config/konex)")

	cmd.AddCommand(newVersionCmd(version))
	cmd.AddCommand(newConfigureCmd())
	cmd.AddCommand(newQuoteCmd())
	cmd.AddCommand(newRelayCmd())

	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print konex version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "konex", version)
		},
	}
}

func Execute(version string) error {
	return newRootCmd(version).Execute()
}
