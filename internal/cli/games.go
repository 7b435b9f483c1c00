package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gamescope/app/internal/models"
	"gamescope/app/internal/screen"

	"github.com/spf13/cobra"
)

// GameView is a game with the user's favorite state.
type GameView struct {
	models.Game
	Favorited bool `json:"favorited"`
}

// NewGamesCommand creates the games command group.
func NewGamesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse the game catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List every game",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGamesList(rootOpts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "show <game-id>",
		Short:         "Show one game and whether it is a favorite",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGamesShow(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runGamesList(opts *RootOptions, cmd *cobra.Command) error {
	a := newApp(opts, cmd)
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := a.signIn(ctx); err != nil {
		return err
	}

	catalog := screen.NewCatalog(a.env, a.sess)
	defer catalog.Close()
	if err := catalog.Open(ctx); err != nil {
		return a.fail(err)
	}

	games := catalog.Items()
	a.out.VerboseLog("Loaded %d game(s)", len(games))
	return a.out.Success(games, func(w io.Writer) {
		if len(games) == 0 {
			fmt.Fprintln(w, "The catalog is empty.")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tRELEASED")
		for _, g := range games {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, g.Title, g.Category, g.ReleaseDate)
		}
		_ = tw.Flush()
	})
}

func runGamesShow(opts *RootOptions, gameID string, cmd *cobra.Command) error {
	a := newApp(opts, cmd)
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := a.signIn(ctx); err != nil {
		return err
	}

	detail := screen.NewGameDetail(a.env, a.sess)
	defer detail.Close()
	if err := detail.Open(ctx, gameID); err != nil {
		return a.fail(err)
	}

	game, _ := detail.Game()
	view := GameView{Game: game, Favorited: detail.Favorited()}
	return a.out.Success(view, func(w io.Writer) {
		printGame(w, view)
	})
}

func printGame(w io.Writer, g GameView) {
	star := ""
	if g.Favorited {
		star = " *"
	}
	fmt.Fprintf(w, "%s%s\n", g.Title, star)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range [][2]string{
		{"ID", g.ID},
		{"Category", g.Category},
		{"Platform", g.Platform},
		{"Released", g.ReleaseDate},
		{"Image", g.Image},
	} {
		if row[1] != "" {
			fmt.Fprintf(tw, "  %s:\t%s\n", row[0], row[1])
		}
	}
	_ = tw.Flush()
	if g.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", g.Summary)
	}
}
