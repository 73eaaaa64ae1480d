package api

import (
	"context"
	"fmt"
	"time"

	"ktrn/internal/models"
)

// CreateRequestInput carries a logged-in user's key request submission.
type CreateRequestInput struct {
	UserID        uint      `json:"user_id"`
	SiteID        uint      `json:"site_id"`
	Reason        string    `json:"reason"`
	RequestedTime time.Time `json:"requested_time"`
}

type statusUpdate struct {
	Status models.RequestStatus `json:"status"`
}

// ListAllRequests fetches every key request for the admin view.
func (c *Client) ListAllRequests(ctx context.Context) ([]models.KeyRequest, error) {
	var requests []models.KeyRequest
	err := c.get(ctx, "/requests/all", &requests)
	return requests, err
}

// ListUserRequests fetches one user's request history.
func (c *Client) ListUserRequests(ctx context.Context, userID uint) ([]models.KeyRequest, error) {
	var requests []models.KeyRequest
	err := c.get(ctx, fmt.Sprintf("/requests/user-requests/%d", userID), &requests)
	return requests, err
}

// CreateRequest submits a new key request.
func (c *Client) CreateRequest(ctx context.Context, in CreateRequestInput) error {
	return c.post(ctx, "/requests", in, nil)
}

// UpdateRequestStatus proposes a status transition for one request.
// Exactly one network call is made; the server decides.
func (c *Client) UpdateRequestStatus(ctx context.Context, id uint, status models.RequestStatus) error {
	return c.put(ctx, fmt.Sprintf("/requests/update-status/%d", id), statusUpdate{Status: status}, nil)
}

// DeleteRequest removes a request permanently.
func (c *Client) DeleteRequest(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/requests/%d", id))
}
