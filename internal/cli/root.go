// Package cli implements the gamescope command: one subcommand group per
// screen, each driving the screen against a GameScope server.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DefaultAPIURL is used when neither --api-url nor GAMESCOPE_API_URL is set.
const DefaultAPIURL = "http://localhost:8080/api/v1"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	APIURL  string
	Token   string
	Timeout time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gamescope CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "gamescope",
		Short: "GameScope - browse, review and favorite games",
		Long: `Browse the GameScope catalog, review games and keep a favorites list.

Sign in with "gamescope login", then export the printed GAMESCOPE_TOKEN.
Every flag can also be set through a GAMESCOPE_* environment variable,
e.g. GAMESCOPE_API_URL for --api-url.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.APIURL = v.GetString("api-url")
			opts.Token = v.GetString("token")
			opts.Timeout = v.GetDuration("timeout")

			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.APIURL == "" {
				return NewExitError(ExitCommandError, "no API URL: set --api-url or GAMESCOPE_API_URL")
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.String("api-url", DefaultAPIURL, "GameScope API base URL")
	flags.String("token", "", "session token printed by login")
	flags.Duration("timeout", 15*time.Second, "time limit for one command")

	v.SetEnvPrefix("GAMESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"api-url", "token", "timeout"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	// Add subcommands
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewGamesCommand(opts))
	cmd.AddCommand(NewReviewsCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
