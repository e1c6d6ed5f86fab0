package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "spacetraveling blog front-end over Prismic",
	Long: `blog renders the spacetraveling blog from a Prismic repository.

"serve" runs the HTTP server with a revalidating page cache,
"build" exports the whole site as static files.`,
	SilenceUsage: true,
}

// Execute запускает корневую команду и завершает процесс при ошибке.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.AddCommand(serveCmd, buildCmd)
}
