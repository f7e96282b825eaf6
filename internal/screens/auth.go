package screens

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"thinktank/internal/activity"
	"thinktank/internal/auth"
	"thinktank/internal/models"
	"thinktank/internal/tokenstore"
	"thinktank/internal/validation"
)

// AuthAPI is the part of the API the login and register screens use.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

// LoginState is the login screen state.
type LoginState struct {
	Loading bool
	Error   string
	Message string
	Success bool
	UserID  int
	Role    string
	IsAdmin bool
}

// Login signs a user in and stores the session token.
type Login struct {
	holder[LoginState]
	api     AuthAPI
	tokens  tokenstore.Store
	msgs    Messages
	actions activity.Logger
}

// NewLogin creates a login holder.
func NewLogin(api AuthAPI, tokens tokenstore.Store, msgs Messages, actions activity.Logger) *Login {
	return &Login{api: api, tokens: tokens, msgs: msgs, actions: actions}
}

var loginErrors = statusMessages{
	http.StatusUnauthorized: msgInvalidCredentials,
	http.StatusBadRequest:   msgInvalidLoginData,
}

// Login validates the credentials, authenticates and saves the token.
func (l *Login) Login(ctx context.Context, email, password string) error {
	l.op.Lock()
	defer l.op.Unlock()

	if err := validation.ValidateLogin(email, password); err != nil {
		l.update(func(s *LoginState) { *s = LoginState{Error: describe(l.msgs, err, nil)} })
		return err
	}

	l.update(func(s *LoginState) { *s = LoginState{Loading: true} })

	session, err := signIn(ctx, l.api, l.tokens, email, password)
	if err != nil {
		logFailure("Login", err)
		l.update(func(s *LoginState) { *s = LoginState{Error: l.describeSignIn(err)} })
		return err
	}

	activity.Record(ctx, l.actions, session.userID, activity.ActionLogin, map[string]interface{}{"email": email})
	l.update(func(s *LoginState) {
		*s = LoginState{
			Success: true,
			Message: l.msgs.T(msgLoginSuccess, nil),
			UserID:  session.userID,
			Role:    session.role,
			IsAdmin: auth.IsAdminRole(session.role),
		}
	})
	return nil
}

func (l *Login) describeSignIn(err error) string {
	if errors.Is(err, errNoToken) {
		return l.msgs.T(msgNoTokenReceived, nil)
	}
	return describe(l.msgs, err, loginErrors)
}

var errNoToken = errors.New("no token in login response")

type session struct {
	userID int
	role   string
}

// signIn posts the credentials and persists the returned token. Role and
// user id come from the token claims, falling back to the response body.
func signIn(ctx context.Context, api AuthAPI, tokens tokenstore.Store, email, password string) (session, error) {
	resp, err := api.Login(ctx, models.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return session{}, err
	}
	if strings.TrimSpace(resp.AccessToken) == "" {
		return session{}, errNoToken
	}
	if err := tokens.Save(resp.AccessToken); err != nil {
		return session{}, fmt.Errorf("failed to save token: %w", err)
	}

	s := session{userID: resp.ID, role: resp.Role}
	if role, ok := auth.RoleFromToken(resp.AccessToken); ok {
		s.role = role
	}
	if id, ok := auth.UserIDFromToken(resp.AccessToken); ok {
		s.userID = id
	}
	return s, nil
}

// RegisterForm holds the registration fields.
type RegisterForm struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterState is the registration screen state.
type RegisterState struct {
	Loading bool
	Error   string
	Message string
	Success bool
	UserID  int
}

// Register creates an account and signs in with it.
type Register struct {
	holder[RegisterState]
	api     AuthAPI
	tokens  tokenstore.Store
	msgs    Messages
	actions activity.Logger
}

// NewRegister creates a register holder.
func NewRegister(api AuthAPI, tokens tokenstore.Store, msgs Messages, actions activity.Logger) *Register {
	return &Register{api: api, tokens: tokens, msgs: msgs, actions: actions}
}

var registerErrors = statusMessages{
	http.StatusConflict:   msgEmailInUse,
	http.StatusBadRequest: msgInvalidRegistrationData,
}

// Register posts the form with the default role, then logs in with the
// same credentials.
func (r *Register) Register(ctx context.Context, form RegisterForm) error {
	r.op.Lock()
	defer r.op.Unlock()

	if err := validation.ValidateRegistration(form.FirstName, form.LastName, form.Email, form.Password); err != nil {
		r.update(func(s *RegisterState) { *s = RegisterState{Error: describe(r.msgs, err, nil)} })
		return err
	}

	r.update(func(s *RegisterState) { *s = RegisterState{Loading: true} })

	resp, err := r.api.Register(ctx, models.RegisterRequest{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
		Password:  form.Password,
		Role:      models.DefaultRole,
	})
	if err != nil {
		logFailure("Register", err)
		r.update(func(s *RegisterState) { *s = RegisterState{Error: describe(r.msgs, err, registerErrors)} })
		return err
	}
	if resp.AccessToken != "" {
		if err := r.tokens.Save(resp.AccessToken); err != nil {
			logFailure("Register", err)
		}
	}

	sess, err := signIn(ctx, r.api, r.tokens, form.Email, form.Password)
	if err != nil {
		logFailure("Register", fmt.Errorf("login after registration: %w", err))
		r.update(func(s *RegisterState) { *s = RegisterState{Error: r.msgs.T(msgRegisteredLoginFailed, nil)} })
		return err
	}

	activity.Record(ctx, r.actions, sess.userID, activity.ActionRegister, map[string]interface{}{"email": form.Email})
	r.update(func(s *RegisterState) {
		*s = RegisterState{Success: true, Message: r.msgs.T(msgRegistrationSuccess, nil), UserID: sess.userID}
	})
	return nil
}
