package cmd

import (
	"github.com/carousell/ct-go/pkg/logger/log"
	"github.com/nguyentranbao-ct/voice-bot/internal/app"
	"github.com/nguyentranbao-ct/voice-bot/internal/server"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "voice-bot",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
		).Run()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
