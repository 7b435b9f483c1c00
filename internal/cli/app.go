package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend/httpapi"
	"gamescope/app/internal/screen"
	"gamescope/app/internal/session"

	"github.com/spf13/cobra"
)

// noticeLog collects screen notices. Warnings and infos are printed as they
// arrive; errors are printed by the command that failed.
type noticeLog struct {
	mu      sync.Mutex
	out     *OutputFormatter
	notices []screen.Notice
}

func (n *noticeLog) Notify(notice screen.Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()

	if notice.Level != screen.LevelError {
		fmt.Fprintf(n.out.GetErrWriter(), "%s: %s\n", notice.Level, notice.Message)
	}
}

func (n *noticeLog) lastError() (screen.Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.notices) - 1; i >= 0; i-- {
		if n.notices[i].Level == screen.LevelError {
			return n.notices[i], true
		}
	}
	return screen.Notice{}, false
}

// app is what one command invocation works with.
type app struct {
	opts    *RootOptions
	out     *OutputFormatter
	client  *httpapi.Client
	notices *noticeLog
	env     *screen.Env
	sess    *session.Session
}

func newApp(opts *RootOptions, cmd *cobra.Command) *app {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Notices go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	logw := io.Discard
	if opts.Verbose {
		logw = out.GetErrWriter()
	}

	client := httpapi.New(opts.APIURL, nil)
	client.SetToken(opts.Token)
	notices := &noticeLog{out: out}

	return &app{
		opts:    opts,
		out:     out,
		client:  client,
		notices: notices,
		env:     screen.NewEnv(client, notices, log.New(logw, "", 0)),
	}
}

// context bounds the command by --timeout.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.opts.Timeout > 0 {
		return context.WithTimeout(ctx, a.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// signIn resolves the token to a session. Commands that act for a user
// call it before opening any screen.
func (a *app) signIn(ctx context.Context) error {
	if a.client.Token() == "" {
		return a.out.report(ExitCommandError, apperr.Unauthorized.String(),
			"not signed in: run `gamescope login` and export GAMESCOPE_TOKEN", nil)
	}

	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return a.fail(apperr.Wrap("account.get", err))
	}
	a.out.VerboseLog("Signed in as %s (%s)", user.Name, user.ID)

	a.sess = session.New(user, a.client.Token(), func() {
		fmt.Fprintln(a.out.GetErrWriter(), "Your session has expired. Sign in again with `gamescope login`.")
	})
	return nil
}

// fail reports a screen or backend error and converts it to an exit code.
// The message is the one the screen showed the user, when there is one.
func (a *app) fail(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	kind := apperr.KindOf(err)
	message := err.Error()
	if n, ok := a.notices.lastError(); ok && n.Message != "" {
		message = n.Message
	} else if kind == apperr.Unauthorized {
		message = "Your session has expired. Sign in again with `gamescope login`."
	}

	code := ExitFailure
	var ae *apperr.Error
	if errors.As(err, &ae) && (ae.Local || ae.Kind == apperr.InvalidArgument) {
		code = ExitCommandError
	}
	return a.out.report(code, kind.String(), message, err)
}

// usage reports a bad invocation the screens never saw.
func (a *app) usage(message string) error {
	return a.out.report(ExitCommandError, apperr.InvalidArgument.String(), message, nil)
}
