package procwatch

import (
	"github.com/sjzar/procwatch/internal/procwatch"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	// windows only
	cobra.MousetrapHelpText = ""

	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "debug")
	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "config directory")
	rootCmd.PersistentPreRun = initLog
}

var ConfigPath string

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command execution failed")
	}
}

var rootCmd = &cobra.Command{
	Use:     "procwatch",
	Short:   "procwatch",
	Long:    `procwatch is a live process monitor with a terminal UI, an HTTP query endpoint and an MCP tool server.`,
	Example: `procwatch`,
	Args:    cobra.MinimumNArgs(0),
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PreRun: initTuiLog,
	Run:    Root,
}

func Root(cmd *cobra.Command, args []string) {
	m := procwatch.New()
	if err := m.Run(ConfigPath); err != nil {
		log.Err(err).Msg("failed to run procwatch")
	}
}
