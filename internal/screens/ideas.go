package screens

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"thinktank/internal/activity"
	"thinktank/internal/models"
	"thinktank/internal/tokenstore"
	"thinktank/internal/validation"
)

// IdeasAPI is the part of the API the idea screens use.
type IdeasAPI interface {
	UserIdeas(ctx context.Context) ([]models.Idea, error)
	SubmitIdea(ctx context.Context, req models.IdeaSubmissionRequest) error
	UpdateIdea(ctx context.Context, id string, req models.IdeaUpdateRequest) error
	DeleteIdea(ctx context.Context, id string) error
}

// IdeaForm holds the raw idea fields; Tags is comma separated.
type IdeaForm struct {
	Title       string
	Description string
	Tags        string
}

// Validate runs the client-side field checks.
func (f IdeaForm) Validate() error {
	return validation.ValidateIdea(f.Title, f.Description, f.Tags)
}

var deleteIdeaErrors = statusMessages{
	http.StatusForbidden: msgDeleteForbidden,
	http.StatusNotFound:  msgIdeaNotFound,
}

// MyIdeasState is the "my ideas" screen state.
type MyIdeasState struct {
	Loading bool
	Error   string
	Message string
	Ideas   []models.Idea
}

// MyIdeas lists and deletes the current user's ideas.
type MyIdeas struct {
	holder[MyIdeasState]
	api     IdeasAPI
	tokens  tokenstore.Store
	msgs    Messages
	actions activity.Logger
}

// NewMyIdeas creates a "my ideas" holder.
func NewMyIdeas(api IdeasAPI, tokens tokenstore.Store, msgs Messages, actions activity.Logger) *MyIdeas {
	return &MyIdeas{api: api, tokens: tokens, msgs: msgs, actions: actions}
}

// Load fetches the current user's ideas.
func (m *MyIdeas) Load(ctx context.Context) error {
	m.op.Lock()
	defer m.op.Unlock()

	m.update(func(s *MyIdeasState) { s.Loading, s.Error, s.Message = true, "", "" })
	ideas, err := m.api.UserIdeas(ctx)
	if err != nil {
		logFailure("MyIdeas", err)
		m.update(func(s *MyIdeasState) {
			s.Loading = false
			s.Error = m.msgs.T(msgLoadIdeas, map[string]interface{}{"Reason": describe(m.msgs, err, nil)})
		})
		return err
	}
	m.update(func(s *MyIdeasState) { *s = MyIdeasState{Ideas: ideas} })
	return nil
}

// Delete removes idea id and drops it from the local list on success.
func (m *MyIdeas) Delete(ctx context.Context, id string) error {
	m.op.Lock()
	defer m.op.Unlock()

	m.update(func(s *MyIdeasState) { s.Loading, s.Error, s.Message = true, "", "" })
	if err := m.api.DeleteIdea(ctx, id); err != nil {
		logFailure("MyIdeas", err)
		m.update(func(s *MyIdeasState) {
			s.Loading = false
			s.Error = describe(m.msgs, err, deleteIdeaErrors)
		})
		return err
	}

	activity.Record(ctx, m.actions, userIDOrZero(m.tokens), activity.ActionDeleteIdea, map[string]interface{}{"idea_id": id})
	m.update(func(s *MyIdeasState) {
		s.Loading = false
		s.Ideas = withoutIdea(s.Ideas, id)
		s.Message = m.msgs.T(msgIdeaDeleted, nil)
	})
	return nil
}

func withoutIdea(ideas []models.Idea, id string) []models.Idea {
	out := make([]models.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if idea.ID != id {
			out = append(out, idea)
		}
	}
	return out
}

// SubmissionState is the idea submission screen state.
type SubmissionState struct {
	Loading bool
	Error   string
	Message string
	Success bool
}

// Submission posts new ideas.
type Submission struct {
	holder[SubmissionState]
	api     IdeasAPI
	tokens  tokenstore.Store
	msgs    Messages
	actions activity.Logger
}

// NewSubmission creates a submission holder.
func NewSubmission(api IdeasAPI, tokens tokenstore.Store, msgs Messages, actions activity.Logger) *Submission {
	return &Submission{api: api, tokens: tokens, msgs: msgs, actions: actions}
}

var submitErrors = statusMessages{
	http.StatusForbidden:  msgSubmitForbidden,
	http.StatusBadRequest: msgInvalidIdeaData,
}

// Submit validates the form, requires a session and posts the idea.
func (sub *Submission) Submit(ctx context.Context, form IdeaForm) error {
	sub.op.Lock()
	defer sub.op.Unlock()

	if err := form.Validate(); err != nil {
		sub.update(func(s *SubmissionState) { *s = SubmissionState{Error: describe(sub.msgs, err, nil)} })
		return err
	}
	if _, err := sub.tokens.Token(); err != nil {
		if errors.Is(err, tokenstore.ErrNoToken) {
			err = ErrNotAuthenticated
		}
		sub.update(func(s *SubmissionState) { *s = SubmissionState{Error: describe(sub.msgs, err, nil)} })
		return err
	}

	sub.update(func(s *SubmissionState) { *s = SubmissionState{Loading: true} })
	req := models.IdeaSubmissionRequest{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Tags:        validation.ParseTags(form.Tags),
	}
	if err := sub.api.SubmitIdea(ctx, req); err != nil {
		logFailure("Submission", err)
		sub.update(func(s *SubmissionState) { *s = SubmissionState{Error: describe(sub.msgs, err, submitErrors)} })
		return err
	}

	activity.Record(ctx, sub.actions, userIDOrZero(sub.tokens), activity.ActionSubmitIdea, map[string]interface{}{"title": req.Title})
	sub.update(func(s *SubmissionState) {
		*s = SubmissionState{Success: true, Message: sub.msgs.T(msgIdeaSubmitted, nil)}
	})
	return nil
}

// EditIdeaState is the edit screen state.
type EditIdeaState struct {
	Loading bool
	Error   string
	Message string
	Idea    *models.Idea
	Saved   bool
}

// EditIdea loads one of the user's ideas and saves edits to it.
type EditIdea struct {
	holder[EditIdeaState]
	api     IdeasAPI
	tokens  tokenstore.Store
	msgs    Messages
	actions activity.Logger
}

// NewEditIdea creates an edit holder.
func NewEditIdea(api IdeasAPI, tokens tokenstore.Store, msgs Messages, actions activity.Logger) *EditIdea {
	return &EditIdea{api: api, tokens: tokens, msgs: msgs, actions: actions}
}

var editErrors = statusMessages{
	http.StatusForbidden: msgEditForbidden,
	http.StatusNotFound:  msgIdeaNotFound,
}

var errIdeaNotFound = errors.New("idea not found")

// Load finds idea id among the user's ideas.
func (e *EditIdea) Load(ctx context.Context, id string) error {
	e.op.Lock()
	defer e.op.Unlock()

	e.update(func(s *EditIdeaState) { *s = EditIdeaState{Loading: true} })
	ideas, err := e.api.UserIdeas(ctx)
	if err != nil {
		logFailure("EditIdea", err)
		e.update(func(s *EditIdeaState) { *s = EditIdeaState{Error: describe(e.msgs, err, editErrors)} })
		return err
	}
	for i := range ideas {
		if ideas[i].ID == id {
			idea := ideas[i]
			e.update(func(s *EditIdeaState) { *s = EditIdeaState{Idea: &idea} })
			return nil
		}
	}
	e.update(func(s *EditIdeaState) { *s = EditIdeaState{Error: e.msgs.T(msgIdeaNotFound, nil)} })
	return errIdeaNotFound
}

// Save validates form and updates idea id.
func (e *EditIdea) Save(ctx context.Context, id string, form IdeaForm) error {
	e.op.Lock()
	defer e.op.Unlock()

	if err := form.Validate(); err != nil {
		e.update(func(s *EditIdeaState) {
			s.Loading, s.Saved, s.Message = false, false, ""
			s.Error = describe(e.msgs, err, nil)
		})
		return err
	}

	e.update(func(s *EditIdeaState) { s.Loading, s.Saved, s.Error, s.Message = true, false, "", "" })
	req := models.IdeaUpdateRequest{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Tags:        validation.ParseTags(form.Tags),
	}
	if err := e.api.UpdateIdea(ctx, id, req); err != nil {
		logFailure("EditIdea", err)
		e.update(func(s *EditIdeaState) {
			s.Loading = false
			s.Error = describe(e.msgs, err, editErrors)
		})
		return err
	}

	activity.Record(ctx, e.actions, userIDOrZero(e.tokens), activity.ActionEditIdea, map[string]interface{}{"idea_id": id})
	e.update(func(s *EditIdeaState) {
		s.Loading = false
		s.Saved = true
		s.Message = e.msgs.T(msgIdeaUpdated, nil)
		if s.Idea != nil && s.Idea.ID == id {
			updated := *s.Idea
			updated.Title, updated.Description, updated.Tags = req.Title, req.Description, req.Tags
			s.Idea = &updated
		}
	})
	return nil
}
