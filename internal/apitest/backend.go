// Package apitest provides an in-memory ThinkTank backend for tests.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"thinktank/internal/models"
)

var signingKey = []byte("apitest-signing-key")

// Request is a recorded inbound request.
type Request struct {
	Method      string
	Path        string
	Header      http.Header
	ContentType string
	Body        []byte
}

type account struct {
	user     models.User
	password string
	status   models.UserStatus
}

// Backend is a fake ThinkTank API served by httptest.
type Backend struct {
	mu       sync.Mutex
	server   *httptest.Server
	accounts map[int]*account
	profiles map[int]*models.Profile
	ideas    map[int]*models.Idea
	feedback map[int]*models.Feedback
	owners   map[int]int // idea id -> user id
	nextID   int
	clock    time.Time
	failNext map[string]int
	requests []Request
}

// New starts a backend and registers its shutdown with t.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		accounts: make(map[int]*account),
		profiles: make(map[int]*models.Profile),
		ideas:    make(map[int]*models.Idea),
		feedback: make(map[int]*models.Feedback),
		owners:   make(map[int]int),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		failNext: make(map[string]int),
	}
	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the base URL of the backend.
func (b *Backend) URL() string { return b.server.URL }

// Close stops the server early; later calls fail with a network error.
func (b *Backend) Close() { b.server.Close() }

// FailNext makes the next request matching route ("GET /feedback/admin/all")
// answer with status.
func (b *Backend) FailNext(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext[route] = status
}

// Requests returns the recorded requests in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the most recent request matching route, if any.
func (b *Backend) LastRequest(route string) (Request, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method+" "+reqs[i].Path == route {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// Token issues a signed bearer token for userID with the given role.
func Token(userID int, role string) string {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprint(userID),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(fmt.Sprintf("apitest: failed to sign token: %v", err))
	}
	return token
}

// AddUser creates an account and returns it.
func (b *Backend) AddUser(firstName, lastName, email, password, role string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(firstName, lastName, email, password, role)
}

func (b *Backend) addUserLocked(firstName, lastName, email, password, role string) models.User {
	if role == "" {
		role = models.DefaultRole
	}
	b.nextID++
	u := models.User{ID: b.nextID, FirstName: firstName, LastName: lastName, Email: email, Role: role}
	b.accounts[u.ID] = &account{user: u, password: password, status: models.UserPending}
	return u
}

// AddProfile attaches a profile to userID.
func (b *Backend) AddProfile(userID int, bio string) models.Profile {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accounts[userID]
	b.nextID++
	p := &models.Profile{ID: b.nextID, FullName: acc.user.FullName(), Email: acc.user.Email}
	if bio != "" {
		p.Bio = &bio
	}
	b.profiles[p.ID] = p
	acc.user.Profile = p
	return *p
}

// AddIdea stores an idea owned by userID.
func (b *Backend) AddIdea(userID int, title, description string, tags []string, status models.IdeaStatus) models.Idea {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addIdeaLocked(userID, title, description, tags, status)
}

func (b *Backend) addIdeaLocked(userID int, title, description string, tags []string, status models.IdeaStatus) models.Idea {
	if tags == nil {
		tags = []string{}
	}
	b.nextID++
	idea := &models.Idea{
		ID:          fmt.Sprint(b.nextID),
		Title:       title,
		Description: description,
		Status:      string(status),
		Tags:        tags,
		CreatedAt:   b.tick(),
	}
	b.ideas[b.nextID] = idea
	b.owners[b.nextID] = userID
	return b.ideaView(b.nextID)
}

// AddFeedback stores a feedback record with an explicit creation time.
func (b *Backend) AddFeedback(adminID, ideaID int, comment string, status models.FeedbackStatus, createdAt time.Time) models.Feedback {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	f := &models.Feedback{
		ID:        b.nextID,
		Comment:   comment,
		Status:    status,
		CreatedAt: models.NewTimestamp(createdAt),
		UpdatedAt: models.NewTimestamp(createdAt),
		Idea:      &models.Idea{ID: fmt.Sprint(ideaID)},
	}
	if acc, ok := b.accounts[adminID]; ok {
		admin := acc.user
		admin.Profile = nil
		f.Admin = &admin
	}
	b.feedback[f.ID] = f
	return b.feedbackView(f)
}

// Ideas returns a snapshot of all ideas ordered by id.
func (b *Backend) Ideas() []models.Idea {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ideasWhere(func(int) bool { return true })
}

// Feedback returns a snapshot of all feedback ordered by id.
func (b *Backend) Feedback() []models.Feedback {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.feedbackWhere(func(*models.Feedback) bool { return true })
}

// User returns the stored account, if any.
func (b *Backend) User(id int) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[id]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

// UserStatus returns the last status set through PUT /users/status.
func (b *Backend) UserStatus(id int) models.UserStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc, ok := b.accounts[id]; ok {
		return acc.status
	}
	return ""
}

func (b *Backend) tick() models.Timestamp {
	b.clock = b.clock.Add(time.Minute)
	return models.NewTimestamp(b.clock)
}

func (b *Backend) sortedIdeaIDs() []int {
	ids := make([]int, 0, len(b.ideas))
	for id := range b.ideas {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (b *Backend) ideasWhere(keep func(id int) bool) []models.Idea {
	out := []models.Idea{}
	for _, id := range b.sortedIdeaIDs() {
		if keep(id) {
			out = append(out, b.ideaView(id))
		}
	}
	return out
}

func (b *Backend) feedbackWhere(keep func(*models.Feedback) bool) []models.Feedback {
	ids := make([]int, 0, len(b.feedback))
	for id := range b.feedback {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := []models.Feedback{}
	for _, id := range ids {
		if f := b.feedback[id]; keep(f) {
			out = append(out, b.feedbackView(f))
		}
	}
	return out
}

// ideaView copies an idea with its owner attached and no feedback.
func (b *Backend) ideaView(id int) models.Idea {
	idea := *b.ideas[id]
	idea.Tags = append([]string{}, idea.Tags...)
	if acc, ok := b.accounts[b.owners[id]]; ok {
		owner := acc.user
		owner.Profile = nil
		idea.User = &owner
	}
	return idea
}

// feedbackView copies feedback with the referenced idea expanded.
func (b *Backend) feedbackView(f *models.Feedback) models.Feedback {
	out := *f
	var id int
	if _, err := fmt.Sscan(f.IdeaID(), &id); err == nil {
		if _, ok := b.ideas[id]; ok {
			idea := b.ideaView(id)
			out.Idea = &idea
		}
	}
	return out
}

func (b *Backend) findAccountByEmail(email string) *account {
	for _, acc := range b.accounts {
		if strings.EqualFold(acc.user.Email, email) {
			return acc
		}
	}
	return nil
}
