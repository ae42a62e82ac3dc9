package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/templui/goalvoice/internal/logger"
)

func Root() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "goalctl",
		Short:         "Operate the goalvoice API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			logger.Init(logger.Options{Development: verbose})
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Human readable debug logging")

	root.AddCommand(ServeCmd())
	root.AddCommand(MigrateCmd())
	root.AddCommand(ExtractCmd())
	return root
}
