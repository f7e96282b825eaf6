package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"thinktank/internal/activity"
	"thinktank/internal/auth"
)

var errHistoryDisabled = errors.New("activity history needs MONGODB_URI and MONGODB_DATABASE")

// historyCmd lists the actions this client recorded for the logged-in user.
func (a *app) historyCmd() *cobra.Command {
	var limit int64
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your recent actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.deps.History == nil {
				return fail(errHistoryDisabled, "")
			}
			token, err := a.deps.Tokens.Token()
			if err != nil {
				return fail(err, a.msgs.T("ErrNotAuthenticated", nil))
			}
			userID, ok := auth.UserIDFromToken(token)
			if !ok {
				return fail(errors.New("user id missing from token"), a.msgs.T("ErrUserIDMissing", nil))
			}

			entries, err := a.deps.History.Recent(cmd.Context(), userID, limit)
			if err != nil {
				return fail(fmt.Errorf("failed to load history: %w", err), "")
			}
			if entries == nil {
				entries = []activity.Entry{}
			}
			return a.out.emit(entries, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tACTION\tDETAILS")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%v\n", e.Time.Format(time.RFC3339), e.Action, e.Details)
				}
				tw.Flush()
			})
		},
	}
	cmd.Flags().Int64Var(&limit, "limit", 20, "number of entries to show")
	return cmd
}
