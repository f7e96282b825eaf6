package screens

import (
	"context"
	"errors"
	"log"

	"thinktank/internal/activity"
	"thinktank/internal/models"
	"thinktank/internal/review"
	"thinktank/internal/tokenstore"
)

// ReviewAPI is the part of the API the admin review screens use.
type ReviewAPI interface {
	AllIdeas(ctx context.Context) ([]models.Idea, error)
	FeedbackByIdea(ctx context.Context, ideaID int) ([]models.Feedback, error)
	CreateFeedback(ctx context.Context, req models.CreateFeedbackRequest) (*models.Feedback, error)
	UpdateFeedback(ctx context.Context, id int, req models.UpdateFeedbackRequest) (*models.Feedback, error)
	DeleteFeedback(ctx context.Context, id int) error
}

// IdeaPoolState is the admin review screen state.
type IdeaPoolState struct {
	Loading  bool
	Error    string
	Message  string
	Ideas    []models.Idea
	Approved []models.Idea
	Rejected []models.Idea
	Pending  []models.Idea
}

// IdeaPool lets an admin review every idea. The idea being acted on is
// always passed explicitly.
type IdeaPool struct {
	holder[IdeaPoolState]
	api      ReviewAPI
	tokens   tokenstore.Store
	msgs     Messages
	actions  activity.Logger
	notifier Notifier
}

// NewIdeaPool creates an admin review holder. notifier may be nil.
func NewIdeaPool(api ReviewAPI, tokens tokenstore.Store, msgs Messages, actions activity.Logger, notifier Notifier) *IdeaPool {
	return &IdeaPool{api: api, tokens: tokens, msgs: msgs, actions: actions, notifier: notifier}
}

var errNoFeedback = errors.New("no feedback for idea")

// LoadIdeas lists all ideas without correlating feedback.
func (p *IdeaPool) LoadIdeas(ctx context.Context) error {
	p.op.Lock()
	defer p.op.Unlock()

	p.update(func(s *IdeaPoolState) { s.Loading, s.Error, s.Message = true, "", "" })
	ideas, err := p.api.AllIdeas(ctx)
	if err != nil {
		return p.fail(err)
	}
	p.update(func(s *IdeaPoolState) { *s = IdeaPoolState{Ideas: ideas} })
	return nil
}

// LoadReviewed lists all ideas with their canonical feedback and buckets.
func (p *IdeaPool) LoadReviewed(ctx context.Context) error {
	p.op.Lock()
	defer p.op.Unlock()

	p.update(func(s *IdeaPoolState) { s.Loading, s.Error, s.Message = true, "", "" })
	return p.reload(ctx, "")
}

// reload refreshes the correlated lists and keeps message as the result
// notice. Callers hold op.
func (p *IdeaPool) reload(ctx context.Context, message string) error {
	ideas, err := p.api.AllIdeas(ctx)
	if err != nil {
		return p.fail(err)
	}
	res, err := review.Correlate(ctx, ideas, p.api)
	if err != nil {
		return p.fail(err)
	}
	p.update(func(s *IdeaPoolState) {
		*s = IdeaPoolState{
			Message:  message,
			Ideas:    res.Ideas,
			Approved: res.Approved,
			Rejected: res.Rejected,
			Pending:  res.Pending,
		}
	})
	return nil
}

// SubmitFeedback records an approve or reject decision on idea.
func (p *IdeaPool) SubmitFeedback(ctx context.Context, idea models.Idea, comment string, approved bool) error {
	p.op.Lock()
	defer p.op.Unlock()

	ideaID, err := p.begin(idea)
	if err != nil {
		return err
	}

	status := models.FeedbackRejected
	if approved {
		status = models.FeedbackApproved
	}
	if _, err := p.api.CreateFeedback(ctx, models.NewCreateFeedbackRequest(ideaID, comment, status)); err != nil {
		return p.fail(err)
	}

	p.record(ctx, activity.ActionSubmitFeedback, idea, status)
	if approved {
		p.announce(ctx, idea, comment)
	}
	return p.reload(ctx, p.msgs.T(msgFeedbackSubmitted, nil))
}

// UpdateFeedback changes the comment of the idea's canonical feedback. If
// the idea has none yet, an Approved record is created instead.
func (p *IdeaPool) UpdateFeedback(ctx context.Context, idea models.Idea, comment string) error {
	p.op.Lock()
	defer p.op.Unlock()

	ideaID, err := p.begin(idea)
	if err != nil {
		return err
	}

	current, err := p.canonical(ctx, ideaID)
	switch {
	case errors.Is(err, errNoFeedback):
		log.Printf("[IdeaPool] No feedback for idea %s, creating an approved one", idea.ID)
		req := models.NewCreateFeedbackRequest(ideaID, comment, models.FeedbackApproved)
		if _, err := p.api.CreateFeedback(ctx, req); err != nil {
			return p.fail(err)
		}
		p.record(ctx, activity.ActionSubmitFeedback, idea, models.FeedbackApproved)
		p.announce(ctx, idea, comment)
		return p.reload(ctx, p.msgs.T(msgFeedbackCreated, nil))
	case err != nil:
		return p.fail(err)
	}

	if _, err := p.api.UpdateFeedback(ctx, current.ID, models.UpdateFeedbackRequest{Comment: &comment, Status: &current.Status}); err != nil {
		return p.fail(err)
	}
	p.record(ctx, activity.ActionUpdateFeedback, idea, current.Status)
	return p.reload(ctx, p.msgs.T(msgFeedbackUpdated, nil))
}

// DeleteFeedback removes the idea's canonical feedback.
func (p *IdeaPool) DeleteFeedback(ctx context.Context, idea models.Idea) error {
	p.op.Lock()
	defer p.op.Unlock()

	ideaID, err := p.begin(idea)
	if err != nil {
		return err
	}

	current, err := p.canonical(ctx, ideaID)
	if err != nil {
		return p.fail(err)
	}
	if err := p.api.DeleteFeedback(ctx, current.ID); err != nil {
		return p.fail(err)
	}
	p.record(ctx, activity.ActionDeleteFeedback, idea, current.Status)
	return p.reload(ctx, p.msgs.T(msgFeedbackDeleted, nil))
}

// begin marks the state loading and resolves the numeric idea id.
func (p *IdeaPool) begin(idea models.Idea) (int, error) {
	id, ok := idea.NumericID()
	if !ok {
		err := errors.New("idea id is not numeric")
		p.update(func(s *IdeaPoolState) {
			s.Loading = false
			s.Message = ""
			s.Error = p.msgs.T(msgInvalidIdeaID, map[string]interface{}{"ID": idea.ID})
		})
		return 0, err
	}
	p.update(func(s *IdeaPoolState) { s.Loading, s.Error, s.Message = true, "", "" })
	return id, nil
}

func (p *IdeaPool) canonical(ctx context.Context, ideaID int) (*models.Feedback, error) {
	list, err := p.api.FeedbackByIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	current := review.CanonicalFeedback(list)
	if current == nil {
		return nil, errNoFeedback
	}
	return current, nil
}

func (p *IdeaPool) fail(err error) error {
	logFailure("IdeaPool", err)
	msg := describe(p.msgs, err, nil)
	if errors.Is(err, errNoFeedback) {
		msg = p.msgs.T(msgNoFeedbackToDelete, nil)
	}
	p.update(func(s *IdeaPoolState) {
		s.Loading = false
		s.Message = ""
		s.Error = msg
	})
	return err
}

func (p *IdeaPool) record(ctx context.Context, action string, idea models.Idea, status models.FeedbackStatus) {
	activity.Record(ctx, p.actions, userIDOrZero(p.tokens), action, map[string]interface{}{
		"idea_id": idea.ID,
		"status":  string(status),
	})
}

func (p *IdeaPool) announce(ctx context.Context, idea models.Idea, comment string) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.IdeaApproved(ctx, idea, comment); err != nil {
		log.Printf("[IdeaPool] Announcement for idea %s failed: %v", idea.ID, err)
	}
}
