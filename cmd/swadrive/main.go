// Command swadrive runs the SwaDrive marketplace API.
//
// @title                       SwaDrive API
// @version                     1.0
// @description                 Task marketplace connecting customers with helpers.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "swadrive",
		Short:        "SwaDrive task marketplace backend",
		Version:      Version,
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}
