package cmd

import (
	"log/slog"
	"os"

	"github.com/NobleNomadic/HomeServer/cmd/browse"
	"github.com/NobleNomadic/HomeServer/cmd/list"
	"github.com/NobleNomadic/HomeServer/cmd/play"
	"github.com/NobleNomadic/HomeServer/cmd/serve"
	"github.com/NobleNomadic/HomeServer/cmd/upload"
	"github.com/NobleNomadic/HomeServer/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "homeserver",
	Short:        "HomeServer media client",
	Long:         "Upload files to a home media server and browse or play its media",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		slog.Error("Fail to execute", "error", err)
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(upload.Cmd)
	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(play.Cmd)
	rootCmd.AddCommand(browse.Cmd)
	rootCmd.AddCommand(serve.Cmd)
}
