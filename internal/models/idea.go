package models

import (
	"encoding/json"
	"log"
	"strconv"
)

// IdeaStatus defines the lifecycle states of an idea. Transitions are
// decided by the server; the client only displays them.
type IdeaStatus string

const (
	IdeaPending  IdeaStatus = "Pending"
	IdeaReviewed IdeaStatus = "Reviewed"
	IdeaApproved IdeaStatus = "Approved"
	IdeaRejected IdeaStatus = "Rejected"
)

// ParseIdeaStatus maps a raw status string to an IdeaStatus.
// Unknown values fall back to IdeaPending.
func ParseIdeaStatus(value string) IdeaStatus {
	switch IdeaStatus(value) {
	case IdeaPending, IdeaReviewed, IdeaApproved, IdeaRejected:
		return IdeaStatus(value)
	default:
		log.Printf("[IdeaStatus] Unknown status value %q, defaulting to %s", value, IdeaPending)
		return IdeaPending
	}
}

// Idea is a user-submitted proposal.
type Idea struct {
	ID          string     `json:"id" bson:"id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Status      string     `json:"status" bson:"status"`
	Tags        []string   `json:"tags" bson:"tags"`
	CreatedAt   Timestamp  `json:"createdAt" bson:"created_at"`
	User        *User      `json:"user,omitempty" bson:"user,omitempty"`
	Feedback    []Feedback `json:"feedback,omitempty" bson:"feedback,omitempty"` // nil: not loaded
}

// UnmarshalJSON accepts numeric or string ids and normalizes nil tags.
func (i *Idea) UnmarshalJSON(data []byte) error {
	type plain Idea
	aux := struct {
		ID json.RawMessage `json:"id"`
		*plain
	}{plain: (*plain)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := rawID(aux.ID)
	if err != nil {
		return err
	}
	i.ID = id
	if i.Tags == nil {
		i.Tags = []string{}
	}
	return nil
}

// CurrentStatus returns the idea's own status field as an IdeaStatus.
func (i Idea) CurrentStatus() IdeaStatus {
	return ParseIdeaStatus(i.Status)
}

// NumericID returns the id as an integer, as required by the feedback
// endpoints.
func (i Idea) NumericID() (int, bool) {
	n, err := strconv.Atoi(i.ID)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LatestFeedback returns the first attached feedback record, which the
// correlator sets to the canonical one, or nil.
func (i Idea) LatestFeedback() *Feedback {
	if len(i.Feedback) == 0 {
		return nil
	}
	return &i.Feedback[0]
}

func rawID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// IdeaSubmissionRequest is the body of POST /ideas.
type IdeaSubmissionRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// IdeaUpdateRequest is the body of PATCH /ideas/{id}.
type IdeaUpdateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}
