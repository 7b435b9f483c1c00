package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/models"
	"gamescope/app/internal/screen"

	"github.com/spf13/cobra"
)

// ProfileView is the output of profile show.
type ProfileView struct {
	User    backend.User    `json:"user"`
	Reviews []models.Review `json:"reviews"`
}

// RenameView is the output of profile rename and resync.
type RenameView struct {
	User    backend.User `json:"user"`
	Updated []string     `json:"updated"`
	Stale   []string     `json:"stale,omitempty"`
	Partial bool         `json:"partial"`
}

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Your account and your reviews",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show your account and every review you wrote",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(rootOpts, cmd, func(ctx context.Context, a *app, p *screen.Profile) error {
				view := ProfileView{User: p.User(), Reviews: p.Items()}
				return a.out.Success(view, func(w io.Writer) {
					fmt.Fprintf(w, "%s <%s>\n\n", view.User.Name, view.User.Email)
					printReviews(w, view.Reviews, "You have not reviewed any game yet.")
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name>...",
		Short: "Change your display name",
		Long: `Change your display name and rewrite it on every review you wrote.

Reviews that could not be rewritten keep the old name; run
"gamescope profile resync" to retry them.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(rootOpts, cmd, func(ctx context.Context, a *app, p *screen.Profile) error {
				result, err := p.Rename(ctx, strings.Join(args, " "))
				if err != nil {
					return a.fail(err)
				}
				return printRename(a, result)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "resync",
		Short:         "Rewrite your current name on reviews that still show an old one",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(rootOpts, cmd, func(ctx context.Context, a *app, p *screen.Profile) error {
				result, err := p.Resync(ctx)
				if err != nil {
					return a.fail(err)
				}
				return printRename(a, result)
			})
		},
	})

	return cmd
}

func withProfile(opts *RootOptions, cmd *cobra.Command, fn func(context.Context, *app, *screen.Profile) error) error {
	a := newApp(opts, cmd)
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := a.signIn(ctx); err != nil {
		return err
	}

	p := screen.NewProfile(a.env, a.sess)
	defer p.Close()
	if err := p.Open(ctx); err != nil {
		return a.fail(err)
	}
	return fn(ctx, a, p)
}

// printRename reports the result. A partial fan-out still exits 0: the
// name did change, and the warning notice was already printed.
func printRename(a *app, result screen.RenameResult) error {
	view := RenameView{
		User:    result.User,
		Updated: result.Updated,
		Stale:   result.Stale,
		Partial: result.Partial(),
	}
	if view.Updated == nil {
		view.Updated = []string{}
	}
	return a.out.Success(view, func(w io.Writer) {
		fmt.Fprintf(w, "Display name is now %q\n", view.User.Name)
		fmt.Fprintf(w, "Updated %d review(s)\n", len(view.Updated))
		if view.Partial {
			fmt.Fprintln(w, "Run `gamescope profile resync` to retry the rest.")
		}
	})
}
