package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"thinktank/internal/models"
	"thinktank/internal/screens"
)

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and manage your account",
	}
	cmd.AddCommand(
		a.profileShowCmd(),
		a.profileStatusCmd(),
		a.profileEditCmd(),
		a.profileUploadCmd(),
		a.deleteAccountCmd(),
	)
	return cmd
}

func (a *app) profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your account and submitted ideas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := screens.NewProfile(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			if err := p.Load(cmd.Context()); err != nil {
				return fail(err, p.State().Error)
			}
			if err := p.SubmittedIdeas(cmd.Context()); err != nil {
				return fail(err, p.State().Error)
			}
			state := p.State()
			return a.out.emit(state, func(w io.Writer) {
				writeUser(w, state.User)
				fmt.Fprintln(w)
				writeIdeas(w, state.Ideas)
				fmt.Fprintln(w, a.msgs.Plural("MsgIdeaCount", len(state.Ideas)))
			})
		},
	}
}

func writeUser(w io.Writer, u *models.User) {
	if u == nil {
		return
	}
	fmt.Fprintf(w, "%s <%s>\n", u.FullName(), u.Email)
	fmt.Fprintf(w, "id %d, role %s\n", u.ID, u.Role)
	if p := u.Profile; p != nil {
		if p.Bio != nil && *p.Bio != "" {
			fmt.Fprintf(w, "bio: %s\n", *p.Bio)
		}
		if p.ProfilePicture != nil && *p.ProfilePicture != "" {
			fmt.Fprintf(w, "picture: %s\n", *p.ProfilePicture)
		}
	}
}

func (a *app) profileStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <Approved|Rejected|Pending>",
		Short: "Update your account status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := screens.NewProfile(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			err := p.UpdateStatus(cmd.Context(), args[0])
			state := p.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.message(state.Message)
		},
	}
}

// profileEditCmd loads the account first so omitted flags keep their values.
func (a *app) profileEditCmd() *cobra.Command {
	var form screens.ProfileForm
	var bio string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit your name, email or bio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := screens.NewEditProfile(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			if err := e.Load(cmd.Context()); err != nil {
				return fail(err, e.State().Error)
			}

			flags := cmd.Flags()
			if user := e.State().User; user != nil {
				if !flags.Changed("first-name") {
					form.FirstName = user.FirstName
				}
				if !flags.Changed("last-name") {
					form.LastName = user.LastName
				}
				if !flags.Changed("email") {
					form.Email = user.Email
				}
			}
			if flags.Changed("bio") {
				form.Bio = &bio
			}

			err := e.Save(cmd.Context(), form)
			state := e.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.emit(state, func(w io.Writer) {
				fmt.Fprintln(w, state.Message)
				writeUser(w, state.User)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.FirstName, "first-name", "", "first name")
	f.StringVar(&form.LastName, "last-name", "", "last name")
	f.StringVar(&form.Email, "email", "", "email")
	f.StringVar(&bio, "bio", "", "profile bio")
	return cmd
}

func (a *app) profileUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := screens.NewEditProfile(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			if err := e.Load(cmd.Context()); err != nil {
				return fail(err, e.State().Error)
			}
			err := e.UploadPicture(cmd.Context(), args[0])
			state := e.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.emit(state, func(w io.Writer) {
				fmt.Fprintln(w, state.Message)
				if state.Profile != nil && state.Profile.ProfilePicture != nil {
					fmt.Fprintln(w, *state.Profile.ProfilePicture)
				}
			})
		},
	}
}

var errNotConfirmed = errors.New("account deletion needs --yes")

func (a *app) deleteAccountCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete your account and profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fail(errNotConfirmed, "")
			}
			p := screens.NewProfile(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			err := p.DeleteAccount(cmd.Context())
			state := p.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.message(state.Message)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}
