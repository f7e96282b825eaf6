// Package activity records user operations in an optional MongoDB log.
package activity

import (
	"context"
	"log"
	"time"
)

// Actions recorded by the client.
const (
	ActionLogin          = "login"
	ActionRegister       = "register"
	ActionLogout         = "logout"
	ActionSubmitIdea     = "submit_idea"
	ActionEditIdea       = "edit_idea"
	ActionDeleteIdea     = "delete_idea"
	ActionSubmitFeedback = "submit_feedback"
	ActionUpdateFeedback = "update_feedback"
	ActionDeleteFeedback = "delete_feedback"
	ActionUpdateStatus   = "update_status"
	ActionUpdateProfile  = "update_profile"
	ActionUploadPicture  = "upload_picture"
	ActionDeleteAccount  = "delete_account"
)

// Entry is one recorded action.
type Entry struct {
	UserID  int                    `bson:"user_id" json:"userId"`
	Action  string                 `bson:"action" json:"action"`
	Details map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	Time    time.Time              `bson:"time" json:"time"`
}

// Logger records user actions.
type Logger interface {
	LogUserAction(ctx context.Context, userID int, action string, details map[string]interface{}) error
}

// NopLogger discards every action.
type NopLogger struct{}

func (NopLogger) LogUserAction(context.Context, int, string, map[string]interface{}) error {
	return nil
}

// Record logs action through l and only logs a failure, so callers never
// fail because the action log is unavailable.
func Record(ctx context.Context, l Logger, userID int, action string, details map[string]interface{}) {
	if l == nil {
		return
	}
	if err := l.LogUserAction(ctx, userID, action, details); err != nil {
		log.Printf("[Activity] Failed to record %s for user %d: %v", action, userID, err)
	}
}
