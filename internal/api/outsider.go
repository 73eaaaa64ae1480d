package api

import (
	"context"
	"fmt"

	"ktrn/internal/models"
)

// PublicRequestInput carries an outsider's key request submission. The
// requester identifies themselves in free text rather than by account.
type PublicRequestInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	PartnerName   string `json:"partner_name,omitempty"`
	SiteID        uint   `json:"site_id"`
	Reason        string `json:"reason"`
	RequestedTime string `json:"requested_time"`
}

// ListOutsiderRequests fetches all public submissions for admin review.
func (c *Client) ListOutsiderRequests(ctx context.Context) ([]models.OutsiderRequest, error) {
	var requests []models.OutsiderRequest
	err := c.get(ctx, "/admin/outsider-requests", &requests)
	return requests, err
}

// UpdateOutsiderStatus proposes a status transition for one public
// submission.
func (c *Client) UpdateOutsiderStatus(ctx context.Context, id uint, status models.RequestStatus) error {
	return c.put(ctx, fmt.Sprintf("/admin/outsider-requests/%d/status", id), statusUpdate{Status: status}, nil)
}

// PublicActiveSites fetches the sites currently open to public
// requests. No authentication is required.
func (c *Client) PublicActiveSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	err := c.get(ctx, "/public/active-sites", &sites)
	return sites, err
}

// CreatePublicRequest submits an outsider request and returns the
// server's confirmation message.
func (c *Client) CreatePublicRequest(ctx context.Context, in PublicRequestInput) (string, error) {
	var resp serverMessage
	if err := c.post(ctx, "/public/requests", in, &resp); err != nil {
		return "", err
	}
	return resp.text("Request submitted."), nil
}
