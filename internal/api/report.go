package api

import (
	"context"
	"net/url"
)

// ReportQuery narrows the admin report. Zero-valued fields are omitted
// from the query string entirely, which the server reads as "no filter".
type ReportQuery struct {
	StartDate   string
	EndDate     string
	Status      string
	UserType    string
	SiteID      string
	PartnerName string
}

func (q ReportQuery) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("startDate", q.StartDate)
	set("endDate", q.EndDate)
	set("status", q.Status)
	set("userType", q.UserType)
	set("site_id", q.SiteID)
	set("partner_name", q.PartnerName)
	return v
}

// PartnerCount is a per-partner request tally.
type PartnerCount struct {
	PartnerName   string `json:"partner_name"`
	TotalRequests int    `json:"total_requests"`
}

// reportEndpoint is the single report route. The backend serves it in
// the singular, unlike the collection routes.
const reportEndpoint = "/report"

// ReportRow is one request as it appears in the report detail table.
type ReportRow struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	SiteName      string `json:"site_name"`
	PartnerName   string `json:"partner_name"`
	Status        string `json:"status"`
	RequestedTime string `json:"requested_time"`
}

// Report is the full admin report payload.
type Report struct {
	TotalRequests       int           `json:"totalRequests"`
	ApprovedRequests    int           `json:"approvedRequests"`
	BestPerformingSite  SiteCount     `json:"bestPerformingSite"`
	BestPartner         PartnerCount  `json:"bestPartner"`
	RequestDistribution []SiteCount   `json:"requestDistribution"`
	StatusBreakdown     []StatusCount `json:"statusBreakdown"`
	UserDetails         []ReportRow   `json:"userDetails"`
}

// GetReport fetches the admin report, filtered by q.
func (c *Client) GetReport(ctx context.Context, q ReportQuery) (Report, error) {
	endpoint := reportEndpoint
	if qs := q.values().Encode(); qs != "" {
		endpoint += "?" + qs
	}
	var report Report
	err := c.get(ctx, endpoint, &report)
	return report, err
}
