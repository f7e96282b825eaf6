package api

import (
	"context"
	"net/http"
	"strconv"

	"thinktank/internal/models"
)

// CreateFeedback records an admin decision on an idea.
func (c *Client) CreateFeedback(ctx context.Context, req models.CreateFeedbackRequest) (*models.Feedback, error) {
	if req.Status == "" {
		req.Status = models.FeedbackReviewed
	}
	var out models.Feedback
	err := c.do(ctx, call{method: http.MethodPost, path: "/feedback/admin", protected: true, body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FeedbackByIdea lists the feedback records referencing ideaID.
func (c *Client) FeedbackByIdea(ctx context.Context, ideaID int) ([]models.Feedback, error) {
	var out []models.Feedback
	err := c.do(ctx, call{method: http.MethodGet, path: "/feedback/" + strconv.Itoa(ideaID), protected: true, out: &out})
	return out, err
}

// AllFeedback lists every feedback record. Admin only.
func (c *Client) AllFeedback(ctx context.Context) ([]models.Feedback, error) {
	var out []models.Feedback
	err := c.do(ctx, call{method: http.MethodGet, path: "/feedback/admin/all", protected: true, out: &out})
	return out, err
}

// FeedbackByID fetches one feedback record. Admin only.
func (c *Client) FeedbackByID(ctx context.Context, id int) (*models.Feedback, error) {
	var out models.Feedback
	err := c.do(ctx, call{method: http.MethodGet, path: "/feedback/admin/" + strconv.Itoa(id), protected: true, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFeedback changes comment and/or status of a feedback record.
func (c *Client) UpdateFeedback(ctx context.Context, id int, req models.UpdateFeedbackRequest) (*models.Feedback, error) {
	var out models.Feedback
	err := c.do(ctx, call{method: http.MethodPatch, path: "/feedback/admin/" + strconv.Itoa(id), protected: true, body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFeedback removes a feedback record.
func (c *Client) DeleteFeedback(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/feedback/admin/" + strconv.Itoa(id), protected: true})
}
