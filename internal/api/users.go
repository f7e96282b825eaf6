package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"

	"thinktank/internal/models"
)

// User fetches a user with its embedded profile.
func (c *Client) User(ctx context.Context, id int) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users/" + strconv.Itoa(id), protected: true, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser replaces the editable account fields.
func (c *Client) UpdateUser(ctx context.Context, id int, req models.UpdateUserRequest) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, call{method: http.MethodPut, path: "/users/" + strconv.Itoa(id), protected: true, body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser deletes an account; the backend cascades to ideas and profile.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/users/" + strconv.Itoa(id), protected: true})
}

// UpdateUserStatus sets the current user's account status.
func (c *Client) UpdateUserStatus(ctx context.Context, status models.UserStatus) error {
	return c.do(ctx, call{
		method:    http.MethodPut,
		path:      "/users/status",
		protected: true,
		body:      models.UpdateUserStatusRequest{Status: status},
	})
}

// Profile fetches a profile by its own id.
func (c *Client) Profile(ctx context.Context, id int) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, call{method: http.MethodGet, path: "/profiles/" + strconv.Itoa(id), protected: true, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProfile creates the current user's profile.
func (c *Client) CreateProfile(ctx context.Context, req models.CreateProfileRequest) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, call{method: http.MethodPost, path: "/profiles", protected: true, body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile edits a profile.
func (c *Client) UpdateProfile(ctx context.Context, id int, req models.UpdateProfileRequest) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/profiles/" + strconv.Itoa(id), protected: true, body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProfile removes a profile.
func (c *Client) DeleteProfile(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/profiles/" + strconv.Itoa(id), protected: true})
}

// UploadProfilePicture sends an image as multipart field "file" and returns
// the URL the backend stored it under.
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read picture %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var pictureURL string
	err = c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/profiles/upload",
		protected:   true,
		rawBody:     &buf,
		contentType: w.FormDataContentType(),
		out:         &pictureURL,
	})
	if err != nil {
		return "", err
	}
	return pictureURL, nil
}
