package screens

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"thinktank/internal/activity"
	"thinktank/internal/api"
	"thinktank/internal/models"
	"thinktank/internal/tokenstore"
)

// ProfileAPI is the part of the API the profile screens use.
type ProfileAPI interface {
	User(ctx context.Context, id int) (*models.User, error)
	UpdateUser(ctx context.Context, id int, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
	UpdateUserStatus(ctx context.Context, status models.UserStatus) error
	UserIdeas(ctx context.Context) ([]models.Idea, error)
	DeleteIdea(ctx context.Context, id string) error
	Profile(ctx context.Context, id int) (*models.Profile, error)
	CreateProfile(ctx context.Context, req models.CreateProfileRequest) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id int, req models.UpdateProfileRequest) (*models.Profile, error)
	UploadProfilePicture(ctx context.Context, filename string, content io.Reader) (string, error)
}

var profileErrors = statusMessages{
	http.StatusNotFound: msgUserNotFound,
}

// ProfileState is the profile screen state.
type ProfileState struct {
	Loading   bool
	Error     string
	Message   string
	User      *models.User
	Ideas     []models.Idea
	Status    models.UserStatus
	LoggedOut bool
	Deleted   bool
}

// Profile shows the current user and manages the session and account.
type Profile struct {
	holder[ProfileState]
	api     ProfileAPI
	tokens  tokenstore.Store
	msgs    Messages
	actions activity.Logger
}

// NewProfile creates a profile holder.
func NewProfile(api ProfileAPI, tokens tokenstore.Store, msgs Messages, actions activity.Logger) *Profile {
	return &Profile{api: api, tokens: tokens, msgs: msgs, actions: actions}
}

// Load fetches the user named by the stored token.
func (p *Profile) Load(ctx context.Context) error {
	p.op.Lock()
	defer p.op.Unlock()

	p.begin()
	userID, err := currentUserID(p.tokens)
	if err != nil {
		return p.fail(err, nil)
	}
	user, err := p.api.User(ctx, userID)
	if err != nil {
		return p.fail(err, profileErrors)
	}
	p.update(func(s *ProfileState) {
		s.Loading = false
		s.User = user
	})
	return nil
}

// SubmittedIdeas fetches the user's own ideas.
func (p *Profile) SubmittedIdeas(ctx context.Context) error {
	p.op.Lock()
	defer p.op.Unlock()

	p.begin()
	ideas, err := p.api.UserIdeas(ctx)
	if err != nil {
		return p.fail(err, nil)
	}
	p.update(func(s *ProfileState) {
		s.Loading = false
		s.Ideas = ideas
	})
	return nil
}

// DeleteIdea removes one of the listed ideas.
func (p *Profile) DeleteIdea(ctx context.Context, id string) error {
	p.op.Lock()
	defer p.op.Unlock()

	p.begin()
	if err := p.api.DeleteIdea(ctx, id); err != nil {
		return p.fail(err, deleteIdeaErrors)
	}
	activity.Record(ctx, p.actions, userIDOrZero(p.tokens), activity.ActionDeleteIdea, map[string]interface{}{"idea_id": id})
	p.update(func(s *ProfileState) {
		s.Loading = false
		s.Ideas = withoutIdea(s.Ideas, id)
		s.Message = p.msgs.T(msgIdeaDeleted, nil)
	})
	return nil
}

var errInvalidStatus = errors.New("invalid user status")

// UpdateStatus pushes the account status (Approved, Rejected or Pending).
func (p *Profile) UpdateStatus(ctx context.Context, value string) error {
	p.op.Lock()
	defer p.op.Unlock()

	status, ok := models.ParseUserStatus(value)
	if !ok {
		p.update(func(s *ProfileState) {
			s.Loading, s.Message = false, ""
			s.Error = p.msgs.T(msgInvalidStatus, nil)
		})
		return fmt.Errorf("%w: %q", errInvalidStatus, value)
	}

	p.begin()
	if err := p.api.UpdateUserStatus(ctx, status); err != nil {
		return p.fail(err, nil)
	}
	activity.Record(ctx, p.actions, userIDOrZero(p.tokens), activity.ActionUpdateStatus, map[string]interface{}{"status": string(status)})
	p.update(func(s *ProfileState) {
		s.Loading = false
		s.Status = status
		s.Message = p.msgs.T(msgStatusUpdated, map[string]interface{}{"Status": string(status)})
	})
	return nil
}

// Logout clears the stored token and the screen state.
func (p *Profile) Logout(ctx context.Context) error {
	p.op.Lock()
	defer p.op.Unlock()

	userID := userIDOrZero(p.tokens)
	if err := p.tokens.Clear(); err != nil {
		return p.fail(fmt.Errorf("failed to clear token: %w", err), nil)
	}
	activity.Record(ctx, p.actions, userID, activity.ActionLogout, nil)
	p.update(func(s *ProfileState) {
		*s = ProfileState{LoggedOut: true, Message: p.msgs.T(msgLoggedOut, nil)}
	})
	return nil
}

// DeleteAccount verifies the account still exists, deletes it and clears
// the session.
func (p *Profile) DeleteAccount(ctx context.Context) error {
	p.op.Lock()
	defer p.op.Unlock()

	p.begin()
	userID, err := currentUserID(p.tokens)
	if err != nil {
		return p.fail(err, nil)
	}
	if _, err := p.api.User(ctx, userID); err != nil {
		return p.fail(fmt.Errorf("failed to verify user account: %w", err), profileErrors)
	}
	if err := p.api.DeleteUser(ctx, userID); err != nil {
		return p.fail(err, profileErrors)
	}
	activity.Record(ctx, p.actions, userID, activity.ActionDeleteAccount, nil)
	if err := p.tokens.Clear(); err != nil {
		logFailure("Profile", fmt.Errorf("account deleted but token not cleared: %w", err))
	}
	p.update(func(s *ProfileState) {
		*s = ProfileState{Deleted: true, LoggedOut: true, Message: p.msgs.T(msgAccountDeleted, nil)}
	})
	return nil
}

func (p *Profile) begin() {
	p.update(func(s *ProfileState) { s.Loading, s.Error, s.Message = true, "", "" })
}

func (p *Profile) fail(err error, byStatus statusMessages) error {
	logFailure("Profile", err)
	p.update(func(s *ProfileState) {
		s.Loading = false
		s.Error = describe(p.msgs, err, byStatus)
	})
	return err
}

// ProfileForm holds the editable account and profile fields. A nil Bio
// leaves the bio unchanged.
type ProfileForm struct {
	FirstName string
	LastName  string
	Email     string
	Bio       *string
}

// EditProfileState is the edit profile screen state.
type EditProfileState struct {
	Loading bool
	Error   string
	Message string
	User    *models.User
	Profile *models.Profile
	Saved   bool
}

// EditProfile edits the user's account fields and profile.
type EditProfile struct {
	holder[EditProfileState]
	api     ProfileAPI
	tokens  tokenstore.Store
	msgs    Messages
	actions activity.Logger
}

// NewEditProfile creates an edit profile holder.
func NewEditProfile(api ProfileAPI, tokens tokenstore.Store, msgs Messages, actions activity.Logger) *EditProfile {
	return &EditProfile{api: api, tokens: tokens, msgs: msgs, actions: actions}
}

// Load fetches the user and its profile, creating the profile when the
// user has none yet.
func (e *EditProfile) Load(ctx context.Context) error {
	e.op.Lock()
	defer e.op.Unlock()

	e.update(func(s *EditProfileState) { s.Loading, s.Error, s.Message, s.Saved = true, "", "", false })
	return e.refresh(ctx, "")
}

// refresh reloads user and profile. Callers hold op.
func (e *EditProfile) refresh(ctx context.Context, message string) error {
	userID, err := currentUserID(e.tokens)
	if err != nil {
		return e.fail(err)
	}
	user, err := e.api.User(ctx, userID)
	if err != nil {
		return e.fail(err)
	}

	profile, err := e.ensureProfile(ctx, user)
	if err != nil {
		return e.fail(err)
	}
	e.update(func(s *EditProfileState) {
		s.Loading = false
		s.User = user
		s.Profile = profile
		s.Message = message
	})
	return nil
}

func (e *EditProfile) ensureProfile(ctx context.Context, user *models.User) (*models.Profile, error) {
	if user.Profile != nil {
		profile, err := e.api.Profile(ctx, user.Profile.ID)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, api.ErrNotFound) {
			return nil, err
		}
	}
	log.Printf("[EditProfile] No profile for user %d, creating one", user.ID)
	return e.api.CreateProfile(ctx, models.CreateProfileRequest{
		FullName: strings.TrimSpace(user.FirstName + " " + user.LastName),
		Email:    user.Email,
	})
}

// Save updates the account fields, then the bio, then refreshes.
func (e *EditProfile) Save(ctx context.Context, form ProfileForm) error {
	e.op.Lock()
	defer e.op.Unlock()

	e.update(func(s *EditProfileState) { s.Loading, s.Error, s.Message, s.Saved = true, "", "", false })
	userID, err := currentUserID(e.tokens)
	if err != nil {
		return e.fail(err)
	}

	user, err := e.api.UpdateUser(ctx, userID, models.UpdateUserRequest{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
	})
	if err != nil {
		return e.fail(err)
	}

	if form.Bio != nil {
		profileID := 0
		if current := e.State().Profile; current != nil {
			profileID = current.ID
		} else if user.Profile != nil {
			profileID = user.Profile.ID
		}
		if profileID != 0 {
			if _, err := e.api.UpdateProfile(ctx, profileID, models.UpdateProfileRequest{
				FullName: user.FullName(),
				Email:    user.Email,
				Bio:      form.Bio,
			}); err != nil {
				return e.fail(err)
			}
		}
	}

	activity.Record(ctx, e.actions, userID, activity.ActionUpdateProfile, nil)
	if err := e.refresh(ctx, e.msgs.T(msgProfileUpdated, nil)); err != nil {
		return err
	}
	e.update(func(s *EditProfileState) { s.Saved = true })
	return nil
}

// UploadPicture sends the image at path as the profile picture.
func (e *EditProfile) UploadPicture(ctx context.Context, path string) error {
	e.op.Lock()
	defer e.op.Unlock()

	e.update(func(s *EditProfileState) { s.Loading, s.Error, s.Message, s.Saved = true, "", "", false })
	f, err := os.Open(path)
	if err != nil {
		return e.fail(fmt.Errorf("failed to open picture: %w", err))
	}
	defer f.Close()

	pictureURL, err := e.api.UploadProfilePicture(ctx, filepath.Base(path), f)
	if err != nil {
		return e.fail(err)
	}
	activity.Record(ctx, e.actions, userIDOrZero(e.tokens), activity.ActionUploadPicture, map[string]interface{}{"url": pictureURL})
	e.update(func(s *EditProfileState) {
		s.Loading = false
		s.Message = e.msgs.T(msgPictureUploaded, nil)
		if s.Profile != nil {
			updated := *s.Profile
			updated.ProfilePicture = &pictureURL
			s.Profile = &updated
		}
	})
	return nil
}

func (e *EditProfile) fail(err error) error {
	logFailure("EditProfile", err)
	e.update(func(s *EditProfileState) {
		s.Loading = false
		s.Error = describe(e.msgs, err, profileErrors)
	})
	return err
}
