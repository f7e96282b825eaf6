package screens

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"thinktank/internal/api"
	"thinktank/internal/apitest"
	"thinktank/internal/locales"
	"thinktank/internal/models"
	"thinktank/internal/tokenstore"
)

func TestMain(m *testing.M) {
	if err := locales.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// recordingLogger keeps every action in memory.
type recordingLogger struct {
	mu      sync.Mutex
	actions []string
	users   []int
}

func (r *recordingLogger) LogUserAction(_ context.Context, userID int, action string, _ map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	r.users = append(r.users, userID)
	return nil
}

func (r *recordingLogger) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.actions...)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) IdeaApproved(ctx context.Context, idea models.Idea, comment string) error {
	args := m.Called(ctx, idea, comment)
	return args.Error(0)
}

type fixture struct {
	backend *apitest.Backend
	client  *api.Client
	tokens  *tokenstore.MemoryStore
	msgs    *locales.Translator
	actions *recordingLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := apitest.New(t)
	tokens := tokenstore.NewMemoryStore()
	client, err := api.New(api.Options{BaseURL: backend.URL(), Tokens: tokens, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return &fixture{
		backend: backend,
		client:  client,
		tokens:  tokens,
		msgs:    locales.NewTranslator("en"),
		actions: &recordingLogger{},
	}
}

func (f *fixture) signInAs(t *testing.T, u models.User) {
	t.Helper()
	require.NoError(t, f.tokens.Save(apitest.Token(u.ID, u.Role)))
}

func numericID(t *testing.T, idea models.Idea) int {
	t.Helper()
	id, ok := idea.NumericID()
	require.True(t, ok)
	return id
}

func day(s string) time.Time {
	return models.MustParseTimestamp(s).Time
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	user := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "secret", "admin")
	l := NewLogin(f.client, f.tokens, f.msgs, f.actions)

	var seen []LoginState
	l.OnChange(func(s LoginState) { seen = append(seen, s) })

	require.NoError(t, l.Login(context.Background(), " ada@example.com ", "secret"))

	state := l.State()
	assert.True(t, state.Success)
	assert.Empty(t, state.Error)
	assert.Equal(t, user.ID, state.UserID)
	assert.Equal(t, "admin", state.Role)
	assert.True(t, state.IsAdmin)
	assert.Equal(t, "Login successful", state.Message)

	token, err := f.tokens.Token()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, []string{"login"}, f.actions.Actions())

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
}

func TestLoginErrors(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "secret", "user")
	l := NewLogin(f.client, f.tokens, f.msgs, f.actions)
	ctx := context.Background()

	assert.Error(t, l.Login(ctx, "", "secret"))
	assert.Equal(t, "Please enter both email and password", l.State().Error)
	assert.Empty(t, f.backend.Requests())

	assert.Error(t, l.Login(ctx, "ada@example.com", "wrong"))
	assert.Equal(t, "Invalid email or password", l.State().Error)
	_, err := f.tokens.Token()
	assert.ErrorIs(t, err, tokenstore.ErrNoToken)

	f.backend.FailNext("POST /auth/login", 400)
	assert.Error(t, l.Login(ctx, "ada@example.com", "secret"))
	assert.Equal(t, "Invalid login data", l.State().Error)

	f.backend.Close()
	assert.Error(t, l.Login(ctx, "ada@example.com", "secret"))
	assert.Equal(t, "Cannot reach server. Please check your connection", l.State().Error)
	assert.Empty(t, f.actions.Actions())
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	r := NewRegister(f.client, f.tokens, f.msgs, f.actions)
	ctx := context.Background()

	form := RegisterForm{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "cobol"}
	require.NoError(t, r.Register(ctx, form))

	state := r.State()
	assert.True(t, state.Success)
	assert.Equal(t, "Registration successful", state.Message)
	u, ok := f.backend.User(state.UserID)
	require.True(t, ok)
	assert.Equal(t, "user", u.Role)
	_, err := f.tokens.Token()
	assert.NoError(t, err)
	assert.Equal(t, []string{"register"}, f.actions.Actions())

	assert.Error(t, r.Register(ctx, form))
	assert.Equal(t, "Email already in use", r.State().Error)

	assert.Error(t, r.Register(ctx, RegisterForm{FirstName: "x"}))
	assert.Equal(t, "Please fill in all fields", r.State().Error)
}

func TestRegisterLoginFailure(t *testing.T) {
	f := newFixture(t)
	r := NewRegister(f.client, f.tokens, f.msgs, f.actions)

	f.backend.FailNext("POST /auth/login", 500)
	err := r.Register(context.Background(), RegisterForm{FirstName: "A", LastName: "B", Email: "ab@example.com", Password: "pw"})
	assert.Error(t, err)
	assert.Equal(t, "Registration successful but login failed", r.State().Error)
}

func TestDashboardAdminPath(t *testing.T) {
	f := newFixture(t)
	owner := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	admin := f.backend.AddUser("Grace", "Hopper", "grace@example.com", "pw", "admin")
	approved := f.backend.AddIdea(owner.ID, "Solar", "Panels on every roof", nil, models.IdeaReviewed)
	flipped := f.backend.AddIdea(owner.ID, "Trams", "Bring back the trams", nil, models.IdeaApproved)
	f.backend.AddIdea(owner.ID, "Untouched", "Nobody reviewed this", nil, models.IdeaPending)
	f.backend.AddFeedback(admin.ID, numericID(t, approved), "yes", models.FeedbackApproved, day("2024-01-01"))
	f.backend.AddFeedback(admin.ID, numericID(t, flipped), "yes", models.FeedbackApproved, day("2024-01-01"))
	f.backend.AddFeedback(admin.ID, numericID(t, flipped), "no", models.FeedbackRejected, day("2024-02-01"))
	f.signInAs(t, admin)

	d := NewDashboard(f.client, f.tokens, f.msgs)
	require.NoError(t, d.Load(context.Background()))

	state := d.State()
	assert.False(t, state.UsedPublicFeed)
	assert.True(t, state.IsAdmin)
	require.Len(t, state.Ideas, 1)
	assert.Equal(t, approved.ID, state.Ideas[0].ID)
}

func TestDashboardFallsBackToPublicFeed(t *testing.T) {
	f := newFixture(t)
	owner := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	f.backend.AddIdea(owner.ID, "Solar", "Panels on every roof", nil, models.IdeaApproved)
	f.backend.AddIdea(owner.ID, "Trams", "Bring back the trams", nil, models.IdeaPending)
	f.signInAs(t, owner)

	d := NewDashboard(f.client, f.tokens, f.msgs)
	require.NoError(t, d.Load(context.Background()))

	state := d.State()
	assert.True(t, state.UsedPublicFeed)
	assert.False(t, state.IsAdmin)
	assert.Equal(t, "Showing public ideas", state.Notice)
	require.Len(t, state.Ideas, 1)
	assert.Equal(t, "Solar", state.Ideas[0].Title)

	f.backend.FailNext("GET /ideas/public", 500)
	assert.Error(t, d.Load(context.Background()))
	assert.Contains(t, d.State().Error, "Failed to load ideas")
}

func TestIdeaPoolCanonicalFeedbackWins(t *testing.T) {
	f := newFixture(t)
	owner := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	admin := f.backend.AddUser("Grace", "Hopper", "grace@example.com", "pw", "admin")
	idea := f.backend.AddIdea(owner.ID, "Solar", "Panels on every roof", nil, models.IdeaApproved)
	pending := f.backend.AddIdea(owner.ID, "Trams", "Bring back the trams", nil, models.IdeaPending)
	f.backend.AddFeedback(admin.ID, numericID(t, idea), "ok", models.FeedbackApproved, day("2024-01-01"))
	f.backend.AddFeedback(admin.ID, numericID(t, idea), "changed my mind", models.FeedbackRejected, day("2024-02-01"))
	f.signInAs(t, admin)

	p := NewIdeaPool(f.client, f.tokens, f.msgs, f.actions, nil)
	require.NoError(t, p.LoadReviewed(context.Background()))

	state := p.State()
	assert.Empty(t, state.Approved)
	require.Len(t, state.Rejected, 1)
	assert.Equal(t, idea.ID, state.Rejected[0].ID)
	assert.Equal(t, "changed my mind", state.Rejected[0].LatestFeedback().Comment)
	require.Len(t, state.Pending, 1)
	assert.Equal(t, pending.ID, state.Pending[0].ID)
	assert.Len(t, state.Ideas, 2)

	require.NoError(t, p.LoadIdeas(context.Background()))
	assert.Len(t, p.State().Ideas, 2)
	assert.Empty(t, p.State().Rejected)
}

func TestIdeaPoolFeedbackLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	admin := f.backend.AddUser("Grace", "Hopper", "grace@example.com", "pw", "admin")
	idea := f.backend.AddIdea(owner.ID, "Solar", "Panels on every roof", nil, models.IdeaPending)
	other := f.backend.AddIdea(owner.ID, "Trams", "Bring back the trams", nil, models.IdeaPending)
	f.signInAs(t, admin)
	ctx := context.Background()

	notifier := new(MockNotifier)
	notifier.On("IdeaApproved", mock.Anything, mock.MatchedBy(func(i models.Idea) bool { return i.ID == idea.ID }), "Great").Return(nil).Once()
	p := NewIdeaPool(f.client, f.tokens, f.msgs, f.actions, notifier)

	require.NoError(t, p.SubmitFeedback(ctx, idea, "Great", true))
	state := p.State()
	assert.Equal(t, "Feedback submitted successfully", state.Message)
	require.Len(t, state.Approved, 1)
	assert.Equal(t, idea.ID, state.Approved[0].ID)
	notifier.AssertExpectations(t)

	require.NoError(t, p.SubmitFeedback(ctx, other, "Too costly", false))
	require.Len(t, p.State().Rejected, 1)

	require.NoError(t, p.UpdateFeedback(ctx, idea, "Great, funded"))
	state = p.State()
	assert.Equal(t, "Feedback updated successfully", state.Message)
	assert.Equal(t, "Great, funded", state.Approved[0].LatestFeedback().Comment)
	assert.Len(t, f.backend.Feedback(), 2)

	var patch map[string]string
	for _, req := range f.backend.Requests() {
		if req.Method == http.MethodPatch && strings.HasPrefix(req.Path, "/feedback/") {
			require.NoError(t, json.Unmarshal(req.Body, &patch))
		}
	}
	assert.Equal(t, map[string]string{"comment": "Great, funded", "status": "Approved"}, patch)

	require.NoError(t, p.DeleteFeedback(ctx, idea))
	state = p.State()
	assert.Equal(t, "Feedback deleted successfully", state.Message)
	assert.Empty(t, state.Approved)
	assert.Len(t, state.Pending, 1)

	assert.Error(t, p.DeleteFeedback(ctx, idea))
	assert.Equal(t, "No feedback found to delete", p.State().Error)

	assert.Equal(t,
		[]string{"submit_feedback", "submit_feedback", "update_feedback", "delete_feedback"},
		f.actions.Actions())
}

func TestIdeaPoolUpdateWithoutFeedbackCreatesApproved(t *testing.T) {
	f := newFixture(t)
	owner := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	admin := f.backend.AddUser("Grace", "Hopper", "grace@example.com", "pw", "admin")
	idea := f.backend.AddIdea(owner.ID, "Solar", "Panels on every roof", nil, models.IdeaPending)
	f.signInAs(t, admin)

	notifier := new(MockNotifier)
	notifier.On("IdeaApproved", mock.Anything, mock.Anything, "Nice").Return(assert.AnError)
	p := NewIdeaPool(f.client, f.tokens, f.msgs, f.actions, notifier)

	require.NoError(t, p.UpdateFeedback(context.Background(), idea, "Nice"))
	state := p.State()
	assert.Equal(t, "Feedback created successfully", state.Message)
	require.Len(t, state.Approved, 1)
	notifier.AssertExpectations(t)
}

func TestIdeaPoolErrors(t *testing.T) {
	f := newFixture(t)
	owner := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	idea := f.backend.AddIdea(owner.ID, "Solar", "Panels on every roof", nil, models.IdeaPending)
	f.signInAs(t, owner)
	p := NewIdeaPool(f.client, f.tokens, f.msgs, f.actions, nil)
	ctx := context.Background()

	assert.Error(t, p.SubmitFeedback(ctx, models.Idea{ID: "abc"}, "x", true))
	assert.Equal(t, "Idea id abc is not a number", p.State().Error)

	assert.Error(t, p.SubmitFeedback(ctx, idea, "x", true))
	assert.Contains(t, p.State().Error, "Request failed")
	assert.False(t, p.State().Loading)
}

func TestMyIdeas(t *testing.T) {
	f := newFixture(t)
	me := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	someone := f.backend.AddUser("Grace", "Hopper", "grace@example.com", "pw", "user")
	mine := f.backend.AddIdea(me.ID, "Solar", "Panels on every roof", []string{"energy"}, models.IdeaPending)
	f.backend.AddIdea(me.ID, "Trams", "Bring back the trams", nil, models.IdeaPending)
	theirs := f.backend.AddIdea(someone.ID, "Parks", "More green space", nil, models.IdeaPending)
	f.signInAs(t, me)
	ctx := context.Background()

	m := NewMyIdeas(f.client, f.tokens, f.msgs, f.actions)
	require.NoError(t, m.Load(ctx))
	require.Len(t, m.State().Ideas, 2)

	require.NoError(t, m.Delete(ctx, mine.ID))
	state := m.State()
	assert.Equal(t, "Idea deleted successfully", state.Message)
	require.Len(t, state.Ideas, 1)
	assert.Equal(t, "Trams", state.Ideas[0].Title)

	assert.Error(t, m.Delete(ctx, theirs.ID))
	assert.Equal(t, "You don't have permission to delete this idea", m.State().Error)
	assert.Len(t, m.State().Ideas, 1)

	assert.Error(t, m.Delete(ctx, "99999"))
	assert.Equal(t, "Idea not found", m.State().Error)

	require.NoError(t, f.tokens.Clear())
	assert.Error(t, m.Load(ctx))
	assert.Contains(t, m.State().Error, "Please login again")
}

func TestSubmission(t *testing.T) {
	f := newFixture(t)
	me := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	s := NewSubmission(f.client, f.tokens, f.msgs, f.actions)
	ctx := context.Background()
	form := IdeaForm{Title: "  Solar  ", Description: "Panels on every roof", Tags: "energy, roofs"}

	assert.Error(t, s.Submit(ctx, IdeaForm{Title: "ab", Description: "Panels on every roof"}))
	assert.Equal(t, "Title must be at least 3 characters long", s.State().Error)

	assert.ErrorIs(t, s.Submit(ctx, form), ErrNotAuthenticated)
	assert.Empty(t, f.backend.Requests())

	f.signInAs(t, me)
	require.NoError(t, s.Submit(ctx, form))
	assert.True(t, s.State().Success)
	assert.Equal(t, "Idea submitted successfully", s.State().Message)

	ideas := f.backend.Ideas()
	require.Len(t, ideas, 1)
	assert.Equal(t, "Solar", ideas[0].Title)
	assert.Equal(t, []string{"energy", "roofs"}, ideas[0].Tags)
	assert.Equal(t, string(models.IdeaPending), ideas[0].Status)

	f.backend.FailNext("POST /ideas", 403)
	assert.Error(t, s.Submit(ctx, form))
	assert.Equal(t, "You don't have permission to submit ideas", s.State().Error)
	assert.False(t, s.State().Success)
}

func TestEditIdea(t *testing.T) {
	f := newFixture(t)
	me := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	someone := f.backend.AddUser("Grace", "Hopper", "grace@example.com", "pw", "user")
	mine := f.backend.AddIdea(me.ID, "Solar", "Panels on every roof", nil, models.IdeaApproved)
	theirs := f.backend.AddIdea(someone.ID, "Parks", "More green space", nil, models.IdeaPending)
	f.signInAs(t, me)
	ctx := context.Background()

	e := NewEditIdea(f.client, f.tokens, f.msgs, f.actions)

	assert.Error(t, e.Load(ctx, theirs.ID))
	assert.Equal(t, "Idea not found", e.State().Error)

	require.NoError(t, e.Load(ctx, mine.ID))
	require.NotNil(t, e.State().Idea)

	require.NoError(t, e.Save(ctx, mine.ID, IdeaForm{Title: "Solar v2", Description: "Panels on every public roof", Tags: "energy"}))
	state := e.State()
	assert.True(t, state.Saved)
	assert.Equal(t, "Solar v2", state.Idea.Title)
	assert.Equal(t, "Idea updated successfully", state.Message)
	assert.Equal(t, "Solar v2", f.backend.Ideas()[0].Title)

	assert.Error(t, e.Save(ctx, mine.ID, IdeaForm{Title: "Solar", Description: "short"}))
	assert.Equal(t, "Description must be at least 10 characters long", e.State().Error)

	assert.Error(t, e.Save(ctx, theirs.ID, IdeaForm{Title: "Parks", Description: "More green space now"}))
	assert.Equal(t, "You don't have permission to edit this idea", e.State().Error)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	me := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	idea := f.backend.AddIdea(me.ID, "Solar", "Panels on every roof", nil, models.IdeaPending)
	f.signInAs(t, me)
	ctx := context.Background()

	p := NewProfile(f.client, f.tokens, f.msgs, f.actions)
	require.NoError(t, p.Load(ctx))
	require.NotNil(t, p.State().User)
	assert.Equal(t, "Ada Lovelace", p.State().User.FullName())

	require.NoError(t, p.SubmittedIdeas(ctx))
	require.Len(t, p.State().Ideas, 1)
	require.NoError(t, p.DeleteIdea(ctx, idea.ID))
	assert.Empty(t, p.State().Ideas)

	assert.Error(t, p.UpdateStatus(ctx, "Maybe"))
	assert.Equal(t, "Invalid status. Use Approved, Rejected or Pending", p.State().Error)

	require.NoError(t, p.UpdateStatus(ctx, "approved"))
	assert.Equal(t, models.UserApproved, p.State().Status)
	assert.Equal(t, "Status updated to Approved", p.State().Message)
	assert.Equal(t, models.UserApproved, f.backend.UserStatus(me.ID))

	require.NoError(t, p.Logout(ctx))
	assert.True(t, p.State().LoggedOut)
	assert.Nil(t, p.State().User)
	_, err := f.tokens.Token()
	assert.ErrorIs(t, err, tokenstore.ErrNoToken)

	assert.ErrorIs(t, p.Load(ctx), ErrNotAuthenticated)
	assert.Equal(t, "No authentication token found. Please login again.", p.State().Error)
}

func TestProfileDeleteAccount(t *testing.T) {
	f := newFixture(t)
	me := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	f.backend.AddIdea(me.ID, "Solar", "Panels on every roof", nil, models.IdeaPending)
	f.signInAs(t, me)

	p := NewProfile(f.client, f.tokens, f.msgs, f.actions)
	require.NoError(t, p.DeleteAccount(context.Background()))

	state := p.State()
	assert.True(t, state.Deleted)
	assert.True(t, state.LoggedOut)
	_, ok := f.backend.User(me.ID)
	assert.False(t, ok)
	assert.Empty(t, f.backend.Ideas())
	_, err := f.tokens.Token()
	assert.ErrorIs(t, err, tokenstore.ErrNoToken)
}

func TestProfileTokenWithoutUserID(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Save("not-a-jwt"))

	p := NewProfile(f.client, f.tokens, f.msgs, f.actions)
	assert.Error(t, p.Load(context.Background()))
	assert.Equal(t, "Could not get user ID from token", p.State().Error)
}

func TestEditProfile(t *testing.T) {
	f := newFixture(t)
	me := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	f.signInAs(t, me)
	ctx := context.Background()

	e := NewEditProfile(f.client, f.tokens, f.msgs, f.actions)
	require.NoError(t, e.Load(ctx))
	state := e.State()
	require.NotNil(t, state.Profile)
	assert.Equal(t, "Ada Lovelace", state.Profile.FullName)
	_, created := f.backend.LastRequest("POST /profiles")
	assert.True(t, created)

	bio := "First programmer"
	require.NoError(t, e.Save(ctx, ProfileForm{FirstName: "Augusta", LastName: "King", Email: "ada@example.com", Bio: &bio}))
	state = e.State()
	assert.True(t, state.Saved)
	assert.Equal(t, "User updated successfully", state.Message)
	assert.Equal(t, "Augusta King", state.User.FullName())
	require.NotNil(t, state.Profile.Bio)
	assert.Equal(t, bio, *state.Profile.Bio)

	picture := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(picture, []byte("png"), 0o600))
	require.NoError(t, e.UploadPicture(ctx, picture))
	state = e.State()
	assert.Equal(t, "Profile picture uploaded", state.Message)
	require.NotNil(t, state.Profile.ProfilePicture)
	assert.Contains(t, *state.Profile.ProfilePicture, "/uploads/")

	assert.Error(t, e.UploadPicture(ctx, filepath.Join(t.TempDir(), "missing.png")))
	assert.NotEmpty(t, e.State().Error)

	assert.Equal(t, []string{"update_profile", "upload_picture"}, f.actions.Actions())
}

func TestEditProfileReusesExistingProfile(t *testing.T) {
	f := newFixture(t)
	me := f.backend.AddUser("Ada", "Lovelace", "ada@example.com", "pw", "user")
	existing := f.backend.AddProfile(me.ID, "Analyst")
	f.signInAs(t, me)

	e := NewEditProfile(f.client, f.tokens, f.msgs, f.actions)
	require.NoError(t, e.Load(context.Background()))
	require.NotNil(t, e.State().Profile)
	assert.Equal(t, existing.ID, e.State().Profile.ID)
	_, created := f.backend.LastRequest("POST /profiles")
	assert.False(t, created)
}

func TestDescribeNetworkErrors(t *testing.T) {
	msgs := locales.NewTranslator("en")

	timeout := &api.NetworkError{Method: "GET", Path: "/ideas/user", Err: context.DeadlineExceeded}
	assert.Equal(t, "Connection timed out. Please try again", describe(msgs, timeout, nil))

	refused := &api.NetworkError{Method: "GET", Path: "/ideas/user", Err: assert.AnError}
	assert.Equal(t, "Cannot reach server. Please check your connection", describe(msgs, refused, nil))

	status := &api.StatusError{Method: "DELETE", Path: "/ideas/1", StatusCode: 404}
	assert.Equal(t, "Idea not found", describe(msgs, status, deleteIdeaErrors))
	assert.Contains(t, describe(msgs, status, nil), "Request failed")
}
