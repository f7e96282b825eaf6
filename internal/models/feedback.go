package models

// FeedbackStatus is the decision carried by an admin feedback record.
type FeedbackStatus string

const (
	FeedbackReviewed FeedbackStatus = "Reviewed"
	FeedbackApproved FeedbackStatus = "Approved"
	FeedbackRejected FeedbackStatus = "Rejected"
)

// Feedback is an admin-authored review attached to an idea.
type Feedback struct {
	ID        int            `json:"id" bson:"id"`
	Comment   string         `json:"comment" bson:"comment"`
	Admin     *User          `json:"admin,omitempty" bson:"admin,omitempty"`
	Idea      *Idea          `json:"idea,omitempty" bson:"idea,omitempty"`
	Status    FeedbackStatus `json:"status" bson:"status"`
	CreatedAt Timestamp      `json:"createdAt" bson:"created_at"`
	UpdatedAt Timestamp      `json:"updatedAt" bson:"updated_at"`
	DeletedAt *Timestamp     `json:"deletedAt,omitempty" bson:"deleted_at,omitempty"`
}

// IdeaID returns the referenced idea id, or "" when the reference is absent.
func (f Feedback) IdeaID() string {
	if f.Idea == nil {
		return ""
	}
	return f.Idea.ID
}

// CreateFeedbackRequest is the body of POST /feedback/admin.
type CreateFeedbackRequest struct {
	IdeaID  int            `json:"ideaId"`
	Comment string         `json:"comment"`
	Status  FeedbackStatus `json:"status"`
}

// NewCreateFeedbackRequest builds a request; an empty status defaults to Reviewed.
func NewCreateFeedbackRequest(ideaID int, comment string, status FeedbackStatus) CreateFeedbackRequest {
	if status == "" {
		status = FeedbackReviewed
	}
	return CreateFeedbackRequest{IdeaID: ideaID, Comment: comment, Status: status}
}

// UpdateFeedbackRequest is the body of PATCH /feedback/admin/{id}.
type UpdateFeedbackRequest struct {
	Comment *string         `json:"comment,omitempty"`
	Status  *FeedbackStatus `json:"status,omitempty"`
}
