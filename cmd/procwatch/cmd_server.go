package procwatch

import (
	"time"

	"github.com/sjzar/procwatch/internal/procwatch"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVarP(&serverAddr, "addr", "a", "", "server address, e.g. 127.0.0.1:4242")
	serverCmd.Flags().DurationVarP(&serverInterval, "interval", "i", 0, "poll interval, e.g. 500ms")
}

var (
	serverAddr     string
	serverInterval time.Duration
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server without terminal UI",
	Run: func(cmd *cobra.Command, args []string) {
		cmdConf := make(map[string]any)
		if cmd.Flags().Changed("addr") {
			cmdConf["http_addr"] = serverAddr
		}
		if cmd.Flags().Changed("interval") {
			cmdConf["poll_interval"] = serverInterval.String()
		}

		m := procwatch.New()
		if err := m.CommandHTTPServer(ConfigPath, cmdConf); err != nil {
			log.Err(err).Msg("failed to start server")
			return
		}
	},
}
