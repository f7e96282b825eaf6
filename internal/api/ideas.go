package api

import (
	"context"
	"net/http"

	"thinktank/internal/models"
)

// UserIdeas lists the ideas of the current user.
func (c *Client) UserIdeas(ctx context.Context) ([]models.Idea, error) {
	var out []models.Idea
	err := c.do(ctx, call{method: http.MethodGet, path: "/ideas/user", protected: true, out: &out})
	return out, err
}

// AllIdeas lists every idea. Admin only.
func (c *Client) AllIdeas(ctx context.Context) ([]models.Idea, error) {
	var out []models.Idea
	err := c.do(ctx, call{method: http.MethodGet, path: "/ideas/admin/all", protected: true, out: &out})
	return out, err
}

// PublicIdeas lists pre-approved ideas. No authentication.
func (c *Client) PublicIdeas(ctx context.Context) ([]models.Idea, error) {
	var out []models.Idea
	err := c.do(ctx, call{method: http.MethodGet, path: "/ideas/public", out: &out})
	return out, err
}

// Idea fetches one idea.
func (c *Client) Idea(ctx context.Context, id string) (*models.Idea, error) {
	var out models.Idea
	if err := c.do(ctx, call{method: http.MethodGet, path: "/ideas/" + escape(id), protected: true, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitIdea creates an idea for the current user.
func (c *Client) SubmitIdea(ctx context.Context, req models.IdeaSubmissionRequest) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/ideas", protected: true, body: req})
}

// UpdateIdea edits title, description and tags.
func (c *Client) UpdateIdea(ctx context.Context, id string, req models.IdeaUpdateRequest) error {
	return c.do(ctx, call{method: http.MethodPatch, path: "/ideas/" + escape(id), protected: true, body: req})
}

// DeleteIdea removes an idea.
func (c *Client) DeleteIdea(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/ideas/" + escape(id), protected: true})
}

// UpdateIdeaStatus sets the status of an idea. The body is the bare JSON string.
func (c *Client) UpdateIdeaStatus(ctx context.Context, id string, status models.IdeaStatus) (*models.Idea, error) {
	var out models.Idea
	err := c.do(ctx, call{
		method:    http.MethodPatch,
		path:      "/ideas/" + escape(id) + "/status",
		protected: true,
		body:      string(status),
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
