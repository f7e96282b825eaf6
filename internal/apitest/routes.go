package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"thinktank/internal/models"
)

type ctxKey struct{}

type caller struct {
	id   int
	role string
}

func (c caller) admin() bool { return strings.EqualFold(c.role, "admin") }

func (b *Backend) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(b.record)

	r.HandleFunc("/auth/login", b.login).Methods("POST")
	r.HandleFunc("/auth/register", b.register).Methods("POST")
	r.HandleFunc("/ideas/public", b.publicIdeas).Methods("GET")

	p := r.NewRoute().Subrouter()
	p.Use(b.authenticate)

	p.HandleFunc("/ideas/user", b.userIdeas).Methods("GET")
	p.HandleFunc("/ideas/admin/all", adminOnly(b.allIdeas)).Methods("GET")
	p.HandleFunc("/ideas", b.createIdea).Methods("POST")
	p.HandleFunc("/ideas/{id:[0-9]+}", b.getIdea).Methods("GET")
	p.HandleFunc("/ideas/{id:[0-9]+}", b.updateIdea).Methods("PATCH")
	p.HandleFunc("/ideas/{id:[0-9]+}", b.deleteIdea).Methods("DELETE")
	p.HandleFunc("/ideas/{id:[0-9]+}/status", adminOnly(b.setIdeaStatus)).Methods("PATCH")

	p.HandleFunc("/feedback/admin", adminOnly(b.createFeedback)).Methods("POST")
	p.HandleFunc("/feedback/admin/all", adminOnly(b.allFeedback)).Methods("GET")
	p.HandleFunc("/feedback/admin/{id:[0-9]+}", adminOnly(b.getFeedback)).Methods("GET")
	p.HandleFunc("/feedback/admin/{id:[0-9]+}", adminOnly(b.updateFeedback)).Methods("PATCH")
	p.HandleFunc("/feedback/admin/{id:[0-9]+}", adminOnly(b.deleteFeedback)).Methods("DELETE")
	p.HandleFunc("/feedback/{id:[0-9]+}", b.feedbackByIdea).Methods("GET")

	p.HandleFunc("/users/status", b.setUserStatus).Methods("PUT")
	p.HandleFunc("/users/{id:[0-9]+}", b.getUser).Methods("GET")
	p.HandleFunc("/users/{id:[0-9]+}", b.updateUser).Methods("PUT")
	p.HandleFunc("/users/{id:[0-9]+}", b.deleteUser).Methods("DELETE")

	p.HandleFunc("/profiles", b.createProfile).Methods("POST")
	p.HandleFunc("/profiles/upload", b.uploadPicture).Methods("POST")
	p.HandleFunc("/profiles/{id:[0-9]+}", b.getProfile).Methods("GET")
	p.HandleFunc("/profiles/{id:[0-9]+}", b.updateProfile).Methods("PATCH")
	p.HandleFunc("/profiles/{id:[0-9]+}", b.deleteProfile).Methods("DELETE")
	return r
}

// record logs the request and applies any queued failure for its route.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			Header:      r.Header.Clone(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		status, fail := b.failNext[route]
		delete(b.failNext, route)
		b.mu.Unlock()

		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(*jwt.Token) (interface{}, error) {
			return signingKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		sub, _ := claims.GetSubject()
		id, err := strconv.Atoi(sub)
		if err != nil {
			http.Error(w, "invalid subject", http.StatusUnauthorized)
			return
		}
		role, _ := claims["role"].(string)

		b.mu.Lock()
		_, exists := b.accounts[id]
		b.mu.Unlock()
		if !exists {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, caller{id: id, role: role})))
	})
}

func adminOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !callerFrom(r).admin() {
			http.Error(w, "admin only", http.StatusForbidden)
			return
		}
		h(w, r)
	}
}

func callerFrom(r *http.Request) caller {
	c, _ := r.Context().Value(ctxKey{}).(caller)
	return c
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return false
	}
	return true
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	acc := b.findAccountByEmail(req.Email)
	b.mu.Unlock()
	if acc == nil || acc.password != req.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{
		AccessToken: Token(acc.user.ID, acc.user.Role),
		ID:          acc.user.ID,
		Email:       acc.user.Email,
		FirstName:   acc.user.FirstName,
		LastName:    acc.user.LastName,
		Role:        acc.user.Role,
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "all fields required", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.findAccountByEmail(req.Email) != nil {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	u := b.addUserLocked(req.FirstName, req.LastName, req.Email, req.Password, req.Role)
	writeJSON(w, http.StatusCreated, models.AuthResponse{
		ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role,
	})
}

func (b *Backend) publicIdeas(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.ideasWhere(func(id int) bool {
		return b.ideas[id].Status == string(models.IdeaApproved)
	}))
}

func (b *Backend) userIdeas(w http.ResponseWriter, r *http.Request) {
	me := callerFrom(r).id
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.ideasWhere(func(id int) bool { return b.owners[id] == me }))
}

func (b *Backend) allIdeas(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.ideasWhere(func(int) bool { return true }))
}

func (b *Backend) getIdea(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.ideas[id]; !ok {
		http.Error(w, "idea not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b.ideaView(id))
}

func (b *Backend) createIdea(w http.ResponseWriter, r *http.Request) {
	var req models.IdeaSubmissionRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		http.Error(w, "title and description required", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusCreated, b.addIdeaLocked(callerFrom(r).id, req.Title, req.Description, req.Tags, models.IdeaPending))
}

// ownedIdea resolves the path idea and checks the caller may modify it.
func (b *Backend) ownedIdea(w http.ResponseWriter, r *http.Request, allowAdmin bool) (*models.Idea, int, bool) {
	id := pathID(r)
	idea, ok := b.ideas[id]
	if !ok {
		http.Error(w, "idea not found", http.StatusNotFound)
		return nil, 0, false
	}
	c := callerFrom(r)
	if b.owners[id] != c.id && !(allowAdmin && c.admin()) {
		http.Error(w, "not your idea", http.StatusForbidden)
		return nil, 0, false
	}
	return idea, id, true
}

func (b *Backend) updateIdea(w http.ResponseWriter, r *http.Request) {
	var req models.IdeaUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idea, id, ok := b.ownedIdea(w, r, false)
	if !ok {
		return
	}
	idea.Title, idea.Description = req.Title, req.Description
	if req.Tags != nil {
		idea.Tags = req.Tags
	}
	writeJSON(w, http.StatusOK, b.ideaView(id))
}

func (b *Backend) deleteIdea(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, id, ok := b.ownedIdea(w, r, true)
	if !ok {
		return
	}
	b.removeIdeaLocked(id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) removeIdeaLocked(id int) {
	delete(b.ideas, id)
	delete(b.owners, id)
	ref := fmt.Sprint(id)
	for fid, f := range b.feedback {
		if f.IdeaID() == ref {
			delete(b.feedback, fid)
		}
	}
}

func (b *Backend) setIdeaStatus(w http.ResponseWriter, r *http.Request) {
	var status string
	if !decode(w, r, &status) {
		return
	}
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	idea, ok := b.ideas[id]
	if !ok {
		http.Error(w, "idea not found", http.StatusNotFound)
		return
	}
	idea.Status = string(models.ParseIdeaStatus(status))
	writeJSON(w, http.StatusOK, b.ideaView(id))
}

func (b *Backend) createFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFeedbackRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idea, ok := b.ideas[req.IdeaID]
	if !ok {
		http.Error(w, "idea not found", http.StatusNotFound)
		return
	}
	now := b.tick()
	b.nextID++
	f := &models.Feedback{
		ID:        b.nextID,
		Comment:   req.Comment,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
		Idea:      &models.Idea{ID: idea.ID},
	}
	admin := b.accounts[callerFrom(r).id].user
	admin.Profile = nil
	f.Admin = &admin
	b.feedback[f.ID] = f
	if req.Status == models.FeedbackApproved || req.Status == models.FeedbackRejected {
		idea.Status = string(req.Status)
	}
	writeJSON(w, http.StatusCreated, b.feedbackView(f))
}

func (b *Backend) feedbackByIdea(w http.ResponseWriter, r *http.Request) {
	ref := fmt.Sprint(pathID(r))
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.feedbackWhere(func(f *models.Feedback) bool { return f.IdeaID() == ref }))
}

func (b *Backend) allFeedback(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.feedbackWhere(func(*models.Feedback) bool { return true }))
}

func (b *Backend) getFeedback(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.feedback[pathID(r)]
	if !ok {
		http.Error(w, "feedback not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b.feedbackView(f))
}

func (b *Backend) updateFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateFeedbackRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.feedback[pathID(r)]
	if !ok {
		http.Error(w, "feedback not found", http.StatusNotFound)
		return
	}
	if req.Comment != nil {
		f.Comment = *req.Comment
	}
	if req.Status != nil {
		f.Status = *req.Status
	}
	f.UpdatedAt = b.tick()
	writeJSON(w, http.StatusOK, b.feedbackView(f))
}

func (b *Backend) deleteFeedback(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := pathID(r)
	if _, ok := b.feedback[id]; !ok {
		http.Error(w, "feedback not found", http.StatusNotFound)
		return
	}
	delete(b.feedback, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) setUserStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserStatusRequest
	if !decode(w, r, &req) {
		return
	}
	status, ok := models.ParseUserStatus(string(req.Status))
	if !ok {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[callerFrom(r).id].status = status
	w.WriteHeader(http.StatusOK)
}

// selfOrAdmin resolves the path account and checks access.
func (b *Backend) selfOrAdmin(w http.ResponseWriter, r *http.Request) (*account, bool) {
	id := pathID(r)
	acc, ok := b.accounts[id]
	if !ok {
		http.Error(w, "user not found", http.StatusNotFound)
		return nil, false
	}
	if c := callerFrom(r); c.id != id && !c.admin() {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return acc, true
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.selfOrAdmin(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.selfOrAdmin(w, r)
	if !ok {
		return
	}
	if req.FirstName != "" {
		acc.user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		acc.user.LastName = req.LastName
	}
	if req.Email != "" {
		acc.user.Email = req.Email
	}
	if p := acc.user.Profile; p != nil {
		p.FullName = acc.user.FullName()
		p.Email = acc.user.Email
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.selfOrAdmin(w, r)
	if !ok {
		return
	}
	for ideaID, owner := range b.owners {
		if owner == acc.user.ID {
			b.removeIdeaLocked(ideaID)
		}
	}
	if acc.user.Profile != nil {
		delete(b.profiles, acc.user.Profile.ID)
	}
	delete(b.accounts, acc.user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) getProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.profiles[pathID(r)]
	if !ok {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) createProfile(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accounts[callerFrom(r).id]
	if acc.user.Profile != nil {
		http.Error(w, "profile exists", http.StatusConflict)
		return
	}
	b.nextID++
	p := &models.Profile{ID: b.nextID, FullName: req.FullName, Email: req.Email, Bio: req.Bio, ProfilePicture: req.ProfilePicture}
	b.profiles[p.ID] = p
	acc.user.Profile = p
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.profiles[pathID(r)]
	if !ok {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	if req.FullName != "" {
		p.FullName = req.FullName
	}
	if req.Email != "" {
		p.Email = req.Email
	}
	if req.Bio != nil {
		p.Bio = req.Bio
	}
	if req.ProfilePicture != nil {
		p.ProfilePicture = req.ProfilePicture
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) deleteProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := pathID(r)
	if _, ok := b.profiles[id]; !ok {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	delete(b.profiles, id)
	for _, acc := range b.accounts {
		if acc.user.Profile != nil && acc.user.Profile.ID == id {
			acc.user.Profile = nil
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadPicture answers with the stored URL as plain text.
func (b *Backend) uploadPicture(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url := fmt.Sprintf("%s/uploads/%s%s", b.server.URL, uuid.NewString(), filepath.Ext(header.Filename))
	b.mu.Lock()
	if p := b.accounts[callerFrom(r).id].user.Profile; p != nil {
		p.ProfilePicture = &url
	}
	b.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(url))
}
