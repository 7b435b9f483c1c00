package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gamescope/app/internal/models"
	"gamescope/app/internal/screen"

	"github.com/spf13/cobra"
)

// NewReviewsCommand creates the reviews command group. Every subcommand
// works on the reviews of one game.
func NewReviewsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write reviews of a game",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list <game-id>",
		Short:         "List the reviews of a game, newest first",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReviews(rootOpts, cmd, args[0], func(ctx context.Context, a *app, s *screen.GameReviews) error {
				reviews := s.Items()
				return a.out.Success(reviews, func(w io.Writer) {
					printReviews(w, reviews, "No reviews yet.")
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "add <game-id> <text>...",
		Short:         "Review a game",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReviews(rootOpts, cmd, args[0], func(ctx context.Context, a *app, s *screen.GameReviews) error {
				review, err := s.Create(ctx, strings.Join(args[1:], " "))
				if err != nil {
					return a.fail(err)
				}
				return a.out.Success(review, func(w io.Writer) {
					fmt.Fprintf(w, "Posted review %s\n", review.ID)
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "edit <game-id> <review-id> <text>...",
		Short:         "Change the text of your review",
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReviews(rootOpts, cmd, args[0], func(ctx context.Context, a *app, s *screen.GameReviews) error {
				review, err := s.Edit(ctx, args[1], strings.Join(args[2:], " "))
				if err != nil {
					return a.fail(err)
				}
				return a.out.Success(review, func(w io.Writer) {
					fmt.Fprintf(w, "Updated review %s\n", review.ID)
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "delete <game-id> <review-id>",
		Short:         "Delete your review",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReviews(rootOpts, cmd, args[0], func(ctx context.Context, a *app, s *screen.GameReviews) error {
				if err := s.Delete(ctx, args[1]); err != nil {
					return a.fail(err)
				}
				return a.out.Success(map[string]string{"deleted": args[1]}, func(w io.Writer) {
					fmt.Fprintf(w, "Deleted review %s\n", args[1])
				})
			})
		},
	})

	return cmd
}

// withReviews signs in and opens the reviews screen of gameID. The loaded
// list is what the ownership pre-check of edit and delete consults.
func withReviews(opts *RootOptions, cmd *cobra.Command, gameID string, fn func(context.Context, *app, *screen.GameReviews) error) error {
	a := newApp(opts, cmd)
	if strings.TrimSpace(gameID) == "" {
		return a.usage("game ID must not be empty")
	}
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := a.signIn(ctx); err != nil {
		return err
	}

	s := screen.NewGameReviews(a.env, a.sess, gameID)
	defer s.Close()
	if err := s.Open(ctx); err != nil {
		return a.fail(err)
	}
	return fn(ctx, a, s)
}

func printReviews(w io.Writer, reviews []models.Review, empty string) {
	if len(reviews) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for i, r := range reviews {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s on %s  [%s]\n", r.Timestamp, r.UserName, r.GameID, r.ID)
		fmt.Fprintf(w, "  %s\n", r.Content)
	}
}
