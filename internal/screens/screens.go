// Package screens holds per-screen state and orchestrates API calls for it.
//
// Every holder serializes its own operations: an operation marks the state
// as loading, awaits the network and applies the result. State() returns a
// snapshot; OnChange registers a callback invoked after every update.
package screens

import (
	"context"
	"errors"
	"log"
	"sync"

	"thinktank/internal/api"
	"thinktank/internal/auth"
	"thinktank/internal/models"
	"thinktank/internal/tokenstore"
	"thinktank/internal/validation"
)

// ErrNotAuthenticated is returned when an operation needs a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// errUserIDMissing is returned when the stored token has no user id claim.
var errUserIDMissing = errors.New("no user id in token")

// Message IDs used by the holders.
const (
	msgInvalidCredentials      = "ErrInvalidCredentials"
	msgInvalidLoginData        = "ErrInvalidLoginData"
	msgEmailInUse              = "ErrEmailInUse"
	msgInvalidRegistrationData = "ErrInvalidRegistrationData"
	msgRegisteredLoginFailed   = "ErrRegisteredLoginFailed"
	msgNoTokenReceived         = "ErrNoTokenReceived"
	msgNetworkTimeout          = "ErrNetworkTimeout"
	msgNetworkUnreachable      = "ErrNetworkUnreachable"
	msgNotAuthenticated        = "ErrNotAuthenticated"
	msgUserIDMissing           = "ErrUserIDMissing"
	msgSubmitForbidden         = "ErrSubmitForbidden"
	msgInvalidIdeaData         = "ErrInvalidIdeaData"
	msgEditForbidden           = "ErrEditForbidden"
	msgDeleteForbidden         = "ErrDeleteForbidden"
	msgIdeaNotFound            = "ErrIdeaNotFound"
	msgNoFeedbackToDelete      = "ErrNoFeedbackToDelete"
	msgInvalidIdeaID           = "ErrInvalidIdeaID"
	msgUserNotFound            = "ErrUserNotFound"
	msgInvalidStatus           = "ErrInvalidStatus"
	msgLoadIdeas               = "ErrLoadIdeas"
	msgRequestFailed           = "ErrRequestFailed"

	msgLoginSuccess        = "MsgLoginSuccess"
	msgRegistrationSuccess = "MsgRegistrationSuccess"
	msgIdeaSubmitted       = "MsgIdeaSubmitted"
	msgIdeaUpdated         = "MsgIdeaUpdated"
	msgIdeaDeleted         = "MsgIdeaDeleted"
	msgFeedbackSubmitted   = "MsgFeedbackSubmitted"
	msgFeedbackUpdated     = "MsgFeedbackUpdated"
	msgFeedbackCreated     = "MsgFeedbackCreated"
	msgFeedbackDeleted     = "MsgFeedbackDeleted"
	msgProfileUpdated      = "MsgProfileUpdated"
	msgPictureUploaded     = "MsgPictureUploaded"
	msgStatusUpdated       = "MsgStatusUpdated"
	msgLoggedOut           = "MsgLoggedOut"
	msgAccountDeleted      = "MsgAccountDeleted"
	msgPublicFeed          = "MsgPublicFeed"
)

// Messages localizes message IDs.
type Messages interface {
	T(msgID string, data map[string]interface{}) string
}

// Notifier is told when an admin approves an idea.
type Notifier interface {
	IdeaApproved(ctx context.Context, idea models.Idea, comment string) error
}

// holder owns one screen state. op serializes operations; mu guards state.
type holder[S any] struct {
	op       sync.Mutex
	mu       sync.RWMutex
	state    S
	onChange func(S)
}

// State returns a snapshot of the current state.
func (h *holder[S]) State() S {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// OnChange registers fn to be called with every new state.
func (h *holder[S]) OnChange(fn func(S)) {
	h.mu.Lock()
	h.onChange = fn
	h.mu.Unlock()
}

func (h *holder[S]) update(fn func(*S)) {
	h.mu.Lock()
	fn(&h.state)
	snapshot, notify := h.state, h.onChange
	h.mu.Unlock()
	if notify != nil {
		notify(snapshot)
	}
}

// statusMessages maps HTTP status codes to message IDs for one operation.
type statusMessages map[int]string

// describe turns err into a localized, user-facing message.
func describe(msgs Messages, err error, byStatus statusMessages) string {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return msgs.T(verr.MessageID, nil)
	}
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return msgs.T(msgNetworkTimeout, nil)
		}
		return msgs.T(msgNetworkUnreachable, nil)
	}
	if errors.Is(err, tokenstore.ErrNoToken) || errors.Is(err, ErrNotAuthenticated) {
		return msgs.T(msgNotAuthenticated, nil)
	}
	if errors.Is(err, errUserIDMissing) {
		return msgs.T(msgUserIDMissing, nil)
	}
	if code := api.StatusCode(err); code != 0 {
		if id, ok := byStatus[code]; ok {
			return msgs.T(id, nil)
		}
	}
	return msgs.T(msgRequestFailed, map[string]interface{}{"Reason": err.Error()})
}

// currentUserID reads the user id claim of the stored token.
func currentUserID(tokens tokenstore.Store) (int, error) {
	token, err := tokens.Token()
	if err != nil {
		if errors.Is(err, tokenstore.ErrNoToken) {
			return 0, ErrNotAuthenticated
		}
		return 0, err
	}
	id, ok := auth.UserIDFromToken(token)
	if !ok {
		return 0, errUserIDMissing
	}
	return id, nil
}

// userIDOrZero is used for activity records, which tolerate unknown users.
func userIDOrZero(tokens tokenstore.Store) int {
	id, err := currentUserID(tokens)
	if err != nil {
		return 0
	}
	return id
}

func logFailure(screen string, err error) {
	log.Printf("[%s] %v", screen, err)
}
