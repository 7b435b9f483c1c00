package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend"

	"github.com/spf13/cobra"
)

// SessionView is the output of login and register.
type SessionView struct {
	Token string       `json:"token"`
	User  backend.User `json:"user"`
}

type credentialOptions struct {
	Name          string
	Email         string
	Password      string
	PasswordStdin bool
}

func (o *credentialOptions) bind(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVar(&o.Name, "name", "", "display name")
	}
	cmd.Flags().StringVar(&o.Email, "email", "", "account email")
	cmd.Flags().StringVar(&o.Password, "password", "", "account password")
	cmd.Flags().BoolVar(&o.PasswordStdin, "password-stdin", false, "read the password from stdin")
}

// password returns the flag value or the first line of stdin.
func (o *credentialOptions) password(in io.Reader) (string, error) {
	if !o.PasswordStdin {
		return o.Password, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentialOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a session token",
		Long: `Sign in with email and password.

The token is printed, not stored. Export it for the following commands:
  export GAMESCOPE_TOKEN=$(gamescope login --email ana@example.com --password-stdin --format json | jq -r .data.token)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(rootOpts, creds, cmd)
		},
	}
	creds.bind(cmd, false)

	return cmd
}

func runLogin(opts *RootOptions, creds *credentialOptions, cmd *cobra.Command) error {
	a := newApp(opts, cmd)
	ctx, cancel := a.context(cmd)
	defer cancel()

	password, err := creds.password(cmd.InOrStdin())
	if err != nil {
		return a.usage(err.Error())
	}
	if creds.Email == "" || password == "" {
		return a.usage("--email and --password (or --password-stdin) are required")
	}

	user, err := a.client.CreateSession(ctx, creds.Email, password)
	if err != nil {
		return a.fail(apperr.Wrap("auth.login", err))
	}
	return printSession(a, user)
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentialOptions{}

	cmd := &cobra.Command{
		Use:           "register",
		Short:         "Create an account and print a session token",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(rootOpts, creds, cmd)
		},
	}
	creds.bind(cmd, true)

	return cmd
}

func runRegister(opts *RootOptions, creds *credentialOptions, cmd *cobra.Command) error {
	a := newApp(opts, cmd)
	ctx, cancel := a.context(cmd)
	defer cancel()

	password, err := creds.password(cmd.InOrStdin())
	if err != nil {
		return a.usage(err.Error())
	}
	if creds.Name == "" || creds.Email == "" || password == "" {
		return a.usage("--name, --email and --password (or --password-stdin) are required")
	}

	user, err := a.client.Register(ctx, creds.Name, creds.Email, password)
	if err != nil {
		return a.fail(apperr.Wrap("auth.register", err))
	}
	return printSession(a, user)
}

func printSession(a *app, user backend.User) error {
	view := SessionView{Token: a.client.Token(), User: user}
	return a.out.Success(view, func(w io.Writer) {
		fmt.Fprintf(w, "Signed in as %s <%s>\n", user.Name, user.Email)
		fmt.Fprintf(w, "export GAMESCOPE_TOKEN=%s\n", view.Token)
	})
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Revoke the current session token",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(rootOpts, cmd)
			ctx, cancel := a.context(cmd)
			defer cancel()

			if a.client.Token() == "" {
				return a.usage("no token to revoke")
			}
			// An already expired token is as good as revoked.
			if err := a.client.DeleteSession(ctx); err != nil && !apperr.IsUnauthorized(err) {
				return a.fail(apperr.Wrap("auth.logout", err))
			}
			return a.out.Success(map[string]bool{"signedOut": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Signed out. Unset GAMESCOPE_TOKEN.")
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the signed-in account",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(rootOpts, cmd)
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.signIn(ctx); err != nil {
				return err
			}
			user := a.sess.User()
			return a.out.Success(user, func(w io.Writer) {
				fmt.Fprintf(w, "%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
			})
		},
	}
}
