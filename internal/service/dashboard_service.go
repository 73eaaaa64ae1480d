package service

import (
	"context"
	"errors"
	"sync"

	"ktrn/internal/api"
)

// Metrics is everything the dashboard renders.
type Metrics struct {
	TotalRequests    int
	ApprovedRequests int
	BestSite         api.SiteCount
	MostActiveUser   api.UserCount
	Distribution     []api.SiteCount
	StatusBreakdown  []api.StatusCount
	PopularHour      api.HourCount
	Trends           []api.TrendPoint
}

// ApprovalRate returns approved over total as a percentage, zero when
// there are no requests yet.
func (m Metrics) ApprovalRate() float64 {
	if m.TotalRequests == 0 {
		return 0
	}
	return float64(m.ApprovedRequests) / float64(m.TotalRequests) * 100
}

// DashboardService aggregates the metric endpoints.
type DashboardService struct {
	client *api.Client
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(client *api.Client) *DashboardService {
	return &DashboardService{client: client}
}

// Fetch pulls all eight metrics concurrently. Each metric either lands
// in the result or contributes an error; partial results render with
// whatever did arrive, so both are returned together.
func (s *DashboardService) Fetch(ctx context.Context) (Metrics, error) {
	var (
		m    Metrics
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)

	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, errors.New(name+": "+err.Error()))
				mu.Unlock()
			}
		}()
	}

	fetch("total requests", func() error {
		n, err := s.client.TotalRequests(ctx)
		if err == nil {
			mu.Lock()
			m.TotalRequests = n
			mu.Unlock()
		}
		return err
	})
	fetch("approved requests", func() error {
		n, err := s.client.ApprovedRequests(ctx)
		if err == nil {
			mu.Lock()
			m.ApprovedRequests = n
			mu.Unlock()
		}
		return err
	})
	fetch("best performing site", func() error {
		best, err := s.client.BestPerformingSite(ctx)
		if err == nil {
			mu.Lock()
			m.BestSite = best
			mu.Unlock()
		}
		return err
	})
	fetch("most active user", func() error {
		user, err := s.client.MostActiveUser(ctx)
		if err == nil {
			mu.Lock()
			m.MostActiveUser = user
			mu.Unlock()
		}
		return err
	})
	fetch("request distribution", func() error {
		dist, err := s.client.RequestDistribution(ctx)
		if err == nil {
			mu.Lock()
			m.Distribution = dist
			mu.Unlock()
		}
		return err
	})
	fetch("status breakdown", func() error {
		breakdown, err := s.client.StatusBreakdown(ctx)
		if err == nil {
			mu.Lock()
			m.StatusBreakdown = breakdown
			mu.Unlock()
		}
		return err
	})
	fetch("popular request time", func() error {
		hour, err := s.client.PopularRequestTime(ctx)
		if err == nil {
			mu.Lock()
			m.PopularHour = hour
			mu.Unlock()
		}
		return err
	})
	fetch("request trends", func() error {
		trends, err := s.client.RequestTrends(ctx)
		if err == nil {
			mu.Lock()
			m.Trends = trends
			mu.Unlock()
		}
		return err
	})

	wg.Wait()
	return m, errors.Join(errs...)
}
