package cmd

import (
	"Scrubline/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Scrubline server",
	Long:  `Start the HTTP server with the timeline API and the /ws/scrub websocket endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
