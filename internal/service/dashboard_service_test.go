package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktrn/internal/models"
	"ktrn/internal/testutil"
)

func TestDashboardServiceFetch(t *testing.T) {
	t.Parallel()

	backend := testutil.NewBackend(t)
	backend.Requests = []models.KeyRequest{
		{ID: 1, Username: "aline", SiteName: "Kigali Hub", Status: models.StatusApproved, RequestDate: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)},
		{ID: 2, Username: "aline", SiteName: "Kigali Hub", Status: models.StatusApproved, RequestDate: time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)},
		{ID: 3, Username: "eric", SiteName: "Huye North", Status: models.StatusDenied, RequestDate: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)},
		{ID: 4, Username: "eric", SiteName: "Huye North", Status: models.StatusPending, RequestDate: time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC)},
	}
	svc := NewDashboardService(adminAPI(t, backend))

	m, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, m.TotalRequests)
	assert.Equal(t, 2, m.ApprovedRequests)
	assert.Equal(t, "Kigali Hub", m.BestSite.SiteName)
	assert.Equal(t, "aline", m.MostActiveUser.Username)
	assert.Len(t, m.Distribution, 2)
	assert.Len(t, m.StatusBreakdown, 3)
	assert.Equal(t, 9, m.PopularHour.RequestHour)
	assert.Len(t, m.Trends, 3)
	assert.InDelta(t, 50.0, m.ApprovalRate(), 0.001)
}

func TestDashboardServicePartialFailure(t *testing.T) {
	t.Parallel()

	backend := testutil.NewBackend(t)
	backend.Requests = []models.KeyRequest{
		{ID: 1, Username: "aline", SiteName: "Kigali Hub", Status: models.StatusApproved},
	}
	backend.FailWith("GET /dashboard/request-trends", http.StatusInternalServerError, "trends unavailable")
	svc := NewDashboardService(adminAPI(t, backend))

	m, err := svc.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request trends")
	// Everything that did arrive still renders.
	assert.Equal(t, 1, m.TotalRequests)
	assert.Equal(t, "Kigali Hub", m.BestSite.SiteName)
	assert.Empty(t, m.Trends)
}

func TestApprovalRateEmpty(t *testing.T) {
	t.Parallel()
	assert.Zero(t, Metrics{}.ApprovalRate())
}
