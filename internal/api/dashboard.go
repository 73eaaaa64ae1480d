package api

import (
	"context"

	"ktrn/internal/models"
)

// SiteCount is a per-site request tally.
type SiteCount struct {
	SiteName      string `json:"site_name"`
	TotalRequests int    `json:"total_requests"`
}

// StatusCount is a per-status request tally.
type StatusCount struct {
	Status        models.RequestStatus `json:"status"`
	TotalRequests int                  `json:"total_requests"`
}

// UserCount is a per-user request tally.
type UserCount struct {
	Username      string `json:"username"`
	TotalRequests int    `json:"total_requests"`
}

// HourCount is a per-hour-of-day request tally.
type HourCount struct {
	RequestHour   int `json:"request_hour"`
	TotalRequests int `json:"total_requests"`
}

// TrendPoint is a per-day request tally. The date stays a string; it is
// display data, never computed on.
type TrendPoint struct {
	RequestDate   string `json:"request_date"`
	TotalRequests int    `json:"total_requests"`
}

// TotalRequests fetches the all-time request count.
func (c *Client) TotalRequests(ctx context.Context) (int, error) {
	var resp struct {
		TotalRequests int `json:"total_requests"`
	}
	err := c.get(ctx, "/dashboard/total-requests", &resp)
	return resp.TotalRequests, err
}

// ApprovedRequests fetches the all-time approved count.
func (c *Client) ApprovedRequests(ctx context.Context) (int, error) {
	var resp struct {
		ApprovedRequests int `json:"approved_requests"`
	}
	err := c.get(ctx, "/dashboard/approved-requests", &resp)
	return resp.ApprovedRequests, err
}

// BestPerformingSite fetches the site with the most requests.
func (c *Client) BestPerformingSite(ctx context.Context) (SiteCount, error) {
	var resp SiteCount
	err := c.get(ctx, "/dashboard/best-performing-site", &resp)
	return resp, err
}

// MostActiveUser fetches the user with the most requests.
func (c *Client) MostActiveUser(ctx context.Context) (UserCount, error) {
	var resp UserCount
	err := c.get(ctx, "/dashboard/most-active-user", &resp)
	return resp, err
}

// RequestDistribution fetches per-site request tallies.
func (c *Client) RequestDistribution(ctx context.Context) ([]SiteCount, error) {
	var resp []SiteCount
	err := c.get(ctx, "/dashboard/request-distribution", &resp)
	return resp, err
}

// StatusBreakdown fetches per-status request tallies.
func (c *Client) StatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	var resp []StatusCount
	err := c.get(ctx, "/dashboard/status-breakdown", &resp)
	return resp, err
}

// PopularRequestTime fetches the busiest hour of day.
func (c *Client) PopularRequestTime(ctx context.Context) (HourCount, error) {
	var resp HourCount
	err := c.get(ctx, "/dashboard/popular-request-time", &resp)
	return resp, err
}

// RequestTrends fetches the per-day request series.
func (c *Client) RequestTrends(ctx context.Context) ([]TrendPoint, error) {
	var resp []TrendPoint
	err := c.get(ctx, "/dashboard/request-trends", &resp)
	return resp, err
}
