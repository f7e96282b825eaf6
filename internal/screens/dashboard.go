package screens

import (
	"context"

	"thinktank/internal/auth"
	"thinktank/internal/models"
	"thinktank/internal/review"
	"thinktank/internal/tokenstore"
)

// DashboardState is the home screen state.
type DashboardState struct {
	Loading        bool
	Error          string
	Notice         string
	Ideas          []models.Idea
	UsedPublicFeed bool
	IsAdmin        bool
}

// Dashboard lists approved ideas.
type Dashboard struct {
	holder[DashboardState]
	api    review.DashboardSource
	tokens tokenstore.Store
	msgs   Messages
}

// NewDashboard creates a dashboard holder.
func NewDashboard(api review.DashboardSource, tokens tokenstore.Store, msgs Messages) *Dashboard {
	return &Dashboard{api: api, tokens: tokens, msgs: msgs}
}

// Load fetches approved ideas, falling back to the public feed when the
// session cannot list all feedback.
func (d *Dashboard) Load(ctx context.Context) error {
	d.op.Lock()
	defer d.op.Unlock()

	d.update(func(s *DashboardState) { s.Loading, s.Error, s.Notice = true, "", "" })

	role, _ := tokenstore.Role(d.tokens)
	ideas, fallback, err := review.Dashboard(ctx, d.api)
	if err != nil {
		logFailure("Dashboard", err)
		d.update(func(s *DashboardState) {
			s.Loading = false
			s.Error = d.msgs.T(msgLoadIdeas, map[string]interface{}{"Reason": describe(d.msgs, err, nil)})
		})
		return err
	}

	d.update(func(s *DashboardState) {
		*s = DashboardState{Ideas: ideas, UsedPublicFeed: fallback, IsAdmin: auth.IsAdminRole(role)}
		if fallback {
			s.Notice = d.msgs.T(msgPublicFeed, nil)
		}
	})
	return nil
}
