package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"thinktank/internal/models"
	"thinktank/internal/screens"
)

func (a *app) reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review ideas (admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pool",
		Short: "List every idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.pool()
			err := p.LoadIdeas(cmd.Context())
			state := p.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.out.emit(state.Ideas, func(w io.Writer) {
				writeIdeas(w, state.Ideas)
				a.countLine(w, state.Ideas)
			})
		},
	}, &cobra.Command{
		Use:   "list",
		Short: "List ideas grouped by their latest feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.pool()
			err := p.LoadReviewed(cmd.Context())
			state := p.State()
			if err != nil {
				return fail(err, state.Error)
			}
			return a.printBuckets(state)
		},
	},
		a.decisionCmd("approve <id>", "Approve an idea", true),
		a.decisionCmd("reject <id>", "Reject an idea", false),
		a.commentCmd(),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete the latest feedback of an idea",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				idea, err := a.selectIdea(cmd, args[0])
				if err != nil {
					return err
				}
				p := a.pool()
				err = p.DeleteFeedback(cmd.Context(), idea)
				return a.finishReview(p, err)
			},
		},
	)

	for _, sub := range cmd.Commands() {
		run := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			return run(cmd, args)
		}
	}
	return cmd
}

var errAdminOnly = errors.New("review commands need an admin session")

// requireAdmin checks the role claim locally before any review call.
func (a *app) requireAdmin() error {
	isAdmin, err := a.admin.IsAdmin()
	if err != nil {
		return fail(err, a.msgs.T("ErrNotAuthenticated", nil))
	}
	if !isAdmin {
		return fail(errAdminOnly, a.msgs.T("ErrAdminOnly", nil))
	}
	return nil
}

func (a *app) pool() *screens.IdeaPool {
	return screens.NewIdeaPool(a.client, a.deps.Tokens, a.msgs, a.deps.Actions, a.deps.Notifier)
}

// selectIdea fetches the idea a review command acts on.
func (a *app) selectIdea(cmd *cobra.Command, id string) (models.Idea, error) {
	idea, err := a.client.Idea(cmd.Context(), id)
	if err != nil {
		return models.Idea{}, fail(err, "")
	}
	return *idea, nil
}

func (a *app) decisionCmd(use, short string, approve bool) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idea, err := a.selectIdea(cmd, args[0])
			if err != nil {
				return err
			}
			p := a.pool()
			err = p.SubmitFeedback(cmd.Context(), idea, comment, approve)
			return a.finishReview(p, err)
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "feedback comment")
	return cmd
}

func (a *app) commentCmd() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "comment <id>",
		Short: "Change the comment of the latest feedback (creates an approval if none)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idea, err := a.selectIdea(cmd, args[0])
			if err != nil {
				return err
			}
			p := a.pool()
			err = p.UpdateFeedback(cmd.Context(), idea, comment)
			return a.finishReview(p, err)
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "feedback comment")
	return cmd
}

func (a *app) finishReview(p *screens.IdeaPool, err error) error {
	state := p.State()
	if err != nil {
		return fail(err, state.Error)
	}
	return a.printBuckets(state)
}

func (a *app) printBuckets(state screens.IdeaPoolState) error {
	return a.out.emit(state, func(w io.Writer) {
		if state.Message != "" {
			fmt.Fprintln(w, state.Message)
			fmt.Fprintln(w)
		}
		writeSection(w, "Approved", state.Approved)
		writeSection(w, "Rejected", state.Rejected)
		writeSection(w, "Pending", state.Pending)
	})
}
