package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ktrn/internal/api"
	"ktrn/internal/models"
	"ktrn/internal/testutil"
)

func TestReportServiceFetch(t *testing.T) {
	t.Parallel()

	backend := testutil.NewBackend(t)
	backend.Requests = []models.KeyRequest{
		{ID: 1, Username: "aline", SiteName: "Kigali Hub", PartnerName: "MTN", Status: models.StatusApproved, RequestDate: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)},
		{ID: 2, Username: "eric", SiteName: "Huye North", PartnerName: "Airtel", Status: models.StatusDenied, RequestDate: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)},
	}
	svc := NewReportService(adminAPI(t, backend), t.TempDir())

	report, err := svc.Fetch(context.Background(), api.ReportQuery{Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalRequests)
	require.Len(t, report.UserDetails, 1)
	assert.Equal(t, "aline", report.UserDetails[0].Username)
}

func TestReportServiceExport(t *testing.T) {
	t.Parallel()

	report := api.Report{
		TotalRequests:      3,
		ApprovedRequests:   2,
		BestPerformingSite: api.SiteCount{SiteName: "Kigali Hub", TotalRequests: 2},
		BestPartner:        api.PartnerCount{PartnerName: "MTN", TotalRequests: 2},
		RequestDistribution: []api.SiteCount{
			{SiteName: "Kigali Hub", TotalRequests: 2},
			{SiteName: "Huye North", TotalRequests: 1},
		},
		StatusBreakdown: []api.StatusCount{
			{Status: models.StatusApproved, TotalRequests: 2},
			{Status: models.StatusDenied, TotalRequests: 1},
		},
		UserDetails: []api.ReportRow{
			{Username: "aline", Email: "aline@mtn.com", SiteName: "Kigali Hub", PartnerName: "MTN", Status: "Approved", RequestedTime: "2026-02-10T09:00:00Z"},
			{Username: "eric", Email: "eric@airtel.com", SiteName: "Huye North", PartnerName: "Airtel", Status: "Denied", RequestedTime: "2026-02-11T09:00:00Z"},
		},
	}

	svc := NewReportService(nil, t.TempDir())
	path, err := svc.Export(report, time.Date(2026, 2, 15, 12, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, path, "ktrn-report-20260215-123000.xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Overview", "Requests"}, f.GetSheetList())

	total, err := f.GetCellValue("Overview", "B1")
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	bestSite, err := f.GetCellValue("Overview", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Kigali Hub", bestSite)

	header, err := f.GetCellValue("Requests", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Username", header)

	firstUser, err := f.GetCellValue("Requests", "A2")
	require.NoError(t, err)
	assert.Equal(t, "aline", firstUser)

	secondStatus, err := f.GetCellValue("Requests", "E3")
	require.NoError(t, err)
	assert.Equal(t, "Denied", secondStatus)
}
