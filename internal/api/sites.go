package api

import (
	"context"
	"fmt"

	"ktrn/internal/models"
)

// SiteInput carries the editable site fields for create and update.
type SiteInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

// ListSites fetches all sites regardless of status.
func (c *Client) ListSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	err := c.get(ctx, "/sites", &sites)
	return sites, err
}

// CreateSite registers a new site and returns the created record.
func (c *Client) CreateSite(ctx context.Context, in SiteInput) (models.Site, error) {
	var site models.Site
	err := c.post(ctx, "/sites", in, &site)
	return site, err
}

// UpdateSite modifies a site and returns the updated record.
func (c *Client) UpdateSite(ctx context.Context, id uint, in SiteInput) (models.Site, error) {
	var site models.Site
	err := c.put(ctx, fmt.Sprintf("/sites/%d", id), in, &site)
	return site, err
}

// DeleteSite removes a site.
func (c *Client) DeleteSite(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/sites/%d", id))
}
