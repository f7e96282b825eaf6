package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"thinktank/internal/models"
	"thinktank/internal/screens"
)

func (a *app) countLine(w io.Writer, ideas []models.Idea) {
	fmt.Fprintln(w, a.msgs.Plural("MsgIdeaCount", len(ideas)))
}

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "List approved ideas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := screens.NewDashboard(a.client, a.deps.Tokens, a.msgs)
			err := d.Load(cmd.Context())
			state := d.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.emit(state, func(w io.Writer) {
				if state.Notice != "" {
					fmt.Fprintln(w, state.Notice)
				}
				writeIdeas(w, state.Ideas)
				a.countLine(w, state.Ideas)
			})
		},
	}
}

func (a *app) ideasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Manage your own ideas",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "mine",
		Short: "List your ideas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := screens.NewMyIdeas(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			err := m.Load(cmd.Context())
			state := m.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.emit(state.Ideas, func(w io.Writer) {
				writeIdeas(w, state.Ideas)
				a.countLine(w, state.Ideas)
			})
		},
	}, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your ideas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := screens.NewMyIdeas(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			err := m.Delete(cmd.Context(), args[0])
			state := m.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.message(state.Message)
		},
	})
	return cmd
}

func ideaFlags(cmd *cobra.Command, form *screens.IdeaForm) {
	f := cmd.Flags()
	f.StringVar(&form.Title, "title", "", "idea title (at least 3 characters)")
	f.StringVar(&form.Description, "description", "", "idea description (at least 10 characters)")
	f.StringVar(&form.Tags, "tags", "", "comma-separated tags (each at least 2 characters)")
}

func (a *app) submitCmd() *cobra.Command {
	var form screens.IdeaForm
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := screens.NewSubmission(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			err := s.Submit(cmd.Context(), form)
			state := s.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.message(state.Message)
		},
	}
	ideaFlags(cmd, &form)
	return cmd
}

// editCmd loads the idea first so omitted flags keep their current values.
func (a *app) editCmd() *cobra.Command {
	var form screens.IdeaForm
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one of your ideas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := screens.NewEditIdea(a.client, a.deps.Tokens, a.msgs, a.deps.Actions)
			if err := e.Load(cmd.Context(), args[0]); err != nil {
				return fail(err, e.State().Error)
			}

			current := e.State().Idea
			flags := cmd.Flags()
			if !flags.Changed("title") {
				form.Title = current.Title
			}
			if !flags.Changed("description") {
				form.Description = current.Description
			}
			if !flags.Changed("tags") {
				form.Tags = strings.Join(current.Tags, ", ")
			}

			err := e.Save(cmd.Context(), args[0], form)
			state := e.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.emit(state, func(w io.Writer) {
				fmt.Fprintln(w, state.Message)
				writeIdeas(w, []models.Idea{*state.Idea})
			})
		},
	}
	ideaFlags(cmd, &form)
	return cmd
}

