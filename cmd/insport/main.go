package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sportsin/insport-client/internal/config"
	"github.com/sportsin/insport-client/internal/identity"
	"github.com/sportsin/insport-client/internal/sportsin"
)

var (
	apiURL      string
	profilePath string
)

var rootCmd = &cobra.Command{
	Use:   "insport",
	Short: "Play territory games from your terminal",
	Long: `A command-line client for the InSport territory game: find an
opponent at an arena, follow the lobby, play the session and submit
the final score.`,
}

func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", cfg.APIBaseURL, "The base URL of the game server")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", cfg.ProfilePath, "Path to the local profile file")
}

func newAPIClient() *sportsin.APIClient {
	return sportsin.NewClient(apiURL)
}

func profileStore() *identity.Store {
	return identity.NewStore(profilePath)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
