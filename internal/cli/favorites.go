package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/screen"

	"github.com/spf13/cobra"
)

// ToggleView is the output of favorites toggle.
type ToggleView struct {
	GameID    string   `json:"gameId"`
	Favorited bool     `json:"favorited"`
	ID        string   `json:"id,omitempty"`
	Removed   []string `json:"removed,omitempty"`
}

// NewFavoritesCommand creates the favorites command group.
func NewFavoritesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage your favorite games",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List your favorites",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavorites(rootOpts, cmd, func(ctx context.Context, a *app, s *screen.Favorites) error {
				favs := s.Items()
				return a.out.Success(favs, func(w io.Writer) {
					if len(favs) == 0 {
						fmt.Fprintln(w, "No favorites yet.")
						return
					}
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tGAME\tTITLE")
					for _, f := range favs {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, f.GameID, f.GameTitle)
					}
					_ = tw.Flush()
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "toggle <game-id>",
		Short:         "Add a game to your favorites, or remove it if it is already there",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavorites(rootOpts, cmd, func(ctx context.Context, a *app, s *screen.Favorites) error {
				return runFavoritesToggle(ctx, a, s, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "remove <favorite-id>",
		Short:         "Remove a favorite by its ID",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavorites(rootOpts, cmd, func(ctx context.Context, a *app, s *screen.Favorites) error {
				if err := s.Remove(ctx, args[0]); err != nil {
					return a.fail(err)
				}
				return a.out.Success(map[string]string{"removed": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Removed favorite %s\n", args[0])
				})
			})
		},
	})

	return cmd
}

func withFavorites(opts *RootOptions, cmd *cobra.Command, fn func(context.Context, *app, *screen.Favorites) error) error {
	a := newApp(opts, cmd)
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := a.signIn(ctx); err != nil {
		return err
	}

	s := screen.NewFavorites(a.env, a.sess)
	defer s.Close()
	if err := s.Open(ctx); err != nil {
		return a.fail(err)
	}
	return fn(ctx, a, s)
}

// runFavoritesToggle loads the game first so the favorite carries its
// title and image.
func runFavoritesToggle(ctx context.Context, a *app, s *screen.Favorites, gameID string) error {
	detail := screen.NewGameDetail(a.env, a.sess)
	defer detail.Close()
	if err := detail.Open(ctx, gameID); err != nil {
		return a.fail(err)
	}
	game, ok := detail.Game()
	if !ok {
		return a.fail(apperr.New(apperr.NotFound, "games.get", "game is unavailable"))
	}

	result, err := s.Toggle(ctx, game)
	if err != nil {
		return a.fail(err)
	}

	view := ToggleView{GameID: game.ID, Favorited: result.Favorited, ID: result.Favorite.ID, Removed: result.Removed}
	return a.out.Success(view, func(w io.Writer) {
		if result.Favorited {
			fmt.Fprintf(w, "Added %s to your favorites\n", game.Title)
			return
		}
		fmt.Fprintf(w, "Removed %s from your favorites\n", game.Title)
	})
}
