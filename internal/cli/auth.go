package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"thinktank/internal/auth"
	"thinktank/internal/screens"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := screens.NewLogin(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			err := l.Login(cmd.Context(), email, password)
			state := l.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.emit(state, func(w io.Writer) {
				fmt.Fprintf(w, "%s (user %d, role %s)\n", state.Message, state.UserID, state.Role)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var form screens.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := screens.NewRegister(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			err := r.Register(cmd.Context(), form)
			state := r.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.emit(state, func(w io.Writer) {
				fmt.Fprintf(w, "%s (user %d)\n", state.Message, state.UserID)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.FirstName, "first-name", "", "first name")
	f.StringVar(&form.LastName, "last-name", "", "last name")
	f.StringVar(&form.Email, "email", "", "account email")
	f.StringVar(&form.Password, "password", "", "account password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := screens.NewProfile(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			err := p.Logout(cmd.Context())
			state := p.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.message(state.Message)
		},
	}
}

type whoami struct {
	LoggedIn bool   `json:"loggedIn"`
	UserID   int    `json:"userId,omitempty"`
	Role     string `json:"role,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

// whoamiCmd reads the stored token claims without calling the server.
func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user and role of the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var me whoami
			if token, err := a.deps.Tokens.Token(); err == nil {
				me.LoggedIn = true
				if claims, err := auth.ParseClaims(token); err == nil {
					me.UserID, _ = claims.UserID()
					me.Role, _ = claims.Role()
				}
				me.IsAdmin = auth.IsAdminRole(me.Role)
			}
			return a.out.emit(me, func(w io.Writer) {
				if !me.LoggedIn {
					fmt.Fprintln(w, a.msgs.T("ErrNotAuthenticated", nil))
					return
				}
				fmt.Fprintf(w, "user %d, role %q, admin %t\n", me.UserID, me.Role, me.IsAdmin)
			})
		},
	}
}
