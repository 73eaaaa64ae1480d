package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktrn/internal/api"
	"ktrn/internal/filter"
	"ktrn/internal/models"
	"ktrn/internal/testutil"
)

type countingBackend struct {
	mu      sync.Mutex
	records []models.KeyRequest
	lists   int
	updates int
	deletes int
}

func (b *countingBackend) List(ctx context.Context) ([]models.KeyRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists++
	out := make([]models.KeyRequest, len(b.records))
	copy(out, b.records)
	return out, nil
}

func (b *countingBackend) UpdateStatus(ctx context.Context, id uint, status models.RequestStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates++
	for i := range b.records {
		if b.records[i].ID == id {
			b.records[i].Status = status
			return nil
		}
	}
	return models.NewNotFoundError("Request", id)
}

func (b *countingBackend) Delete(ctx context.Context, id uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes++
	for i, r := range b.records {
		if r.ID == id {
			b.records = append(b.records[:i], b.records[i+1:]...)
			return nil
		}
	}
	return models.NewNotFoundError("Request", id)
}

func seededBackend() *countingBackend {
	return &countingBackend{records: []models.KeyRequest{
		{ID: 1, Username: "aline", SiteName: "Kigali Hub", Status: models.StatusPending},
		{ID: 2, Username: "eric", SiteName: "Huye North", Status: models.StatusPending},
		{ID: 3, Username: "chantal", SiteName: "Kigali Hub", Status: models.StatusApproved},
	}}
}

func TestRequestServiceLoad(t *testing.T) {
	t.Parallel()

	backend := seededBackend()
	svc := NewRequestService(backend)
	require.NoError(t, svc.Load(context.Background()))

	records := svc.Records()
	require.Len(t, records, 3)

	// Returned slice is a copy; mutating it must not touch the cache.
	records[0].Status = models.StatusDenied
	assert.Equal(t, models.StatusPending, svc.Records()[0].Status)
}

func TestRequestServiceFiltered(t *testing.T) {
	t.Parallel()

	svc := NewRequestService(seededBackend())
	require.NoError(t, svc.Load(context.Background()))

	f := filter.None()
	f.Status = string(models.StatusPending)
	filtered := svc.Filtered(f, time.Now())
	require.Len(t, filtered, 2)
	for _, r := range filtered {
		assert.Equal(t, models.StatusPending, r.Status)
	}
}

func TestRequestServiceUpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("updates only the targeted record", func(t *testing.T) {
		t.Parallel()
		backend := seededBackend()
		svc := NewRequestService(backend)
		require.NoError(t, svc.Load(context.Background()))

		require.NoError(t, svc.UpdateStatus(context.Background(), 1, models.StatusApproved))

		records := svc.Records()
		assert.Equal(t, models.StatusApproved, records[0].Status)
		assert.Equal(t, models.StatusPending, records[1].Status)
		assert.Equal(t, models.StatusApproved, records[2].Status)
		assert.Equal(t, 1, backend.updates)
	})

	t.Run("unknown id never reaches the backend", func(t *testing.T) {
		t.Parallel()
		backend := seededBackend()
		svc := NewRequestService(backend)
		require.NoError(t, svc.Load(context.Background()))

		err := svc.UpdateStatus(context.Background(), 99, models.StatusApproved)
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
		assert.Zero(t, backend.updates)
	})

	t.Run("pending target is rejected locally", func(t *testing.T) {
		t.Parallel()
		backend := seededBackend()
		svc := NewRequestService(backend)
		require.NoError(t, svc.Load(context.Background()))

		err := svc.UpdateStatus(context.Background(), 3, models.StatusPending)
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
		assert.Zero(t, backend.updates)
	})

	t.Run("backward transition is allowed", func(t *testing.T) {
		t.Parallel()
		backend := seededBackend()
		svc := NewRequestService(backend)
		require.NoError(t, svc.Load(context.Background()))

		require.NoError(t, svc.UpdateStatus(context.Background(), 3, models.StatusDenied))
		assert.Equal(t, models.StatusDenied, svc.Records()[2].Status)
	})
}

func TestRequestServiceConcurrentUpdates(t *testing.T) {
	t.Parallel()

	backend := seededBackend()
	svc := NewRequestService(backend)
	require.NoError(t, svc.Load(context.Background()))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = svc.UpdateStatus(context.Background(), 1, models.StatusApproved)
	}()
	go func() {
		defer wg.Done()
		_ = svc.UpdateStatus(context.Background(), 1, models.StatusDenied)
	}()
	wg.Wait()

	// Whichever write landed last wins, but cache and backend agree and
	// the record never lands in an unknown state.
	final := svc.Records()[0].Status
	assert.Contains(t, []models.RequestStatus{models.StatusApproved, models.StatusDenied}, final)
	assert.Equal(t, final, backend.records[0].Status)
	assert.Equal(t, 2, backend.updates)
}

func TestRequestServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("removes from backend then cache", func(t *testing.T) {
		t.Parallel()
		backend := seededBackend()
		svc := NewRequestService(backend)
		require.NoError(t, svc.Load(context.Background()))

		require.NoError(t, svc.Delete(context.Background(), 2))
		assert.Len(t, svc.Records(), 2)
		assert.Len(t, backend.records, 2)
	})

	t.Run("unknown id never reaches the backend", func(t *testing.T) {
		t.Parallel()
		backend := seededBackend()
		svc := NewRequestService(backend)
		require.NoError(t, svc.Load(context.Background()))

		err := svc.Delete(context.Background(), 99)
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
		assert.Zero(t, backend.deletes)
	})
}

func TestRequestBackendsOverHTTP(t *testing.T) {
	t.Parallel()

	backend := testutil.NewBackend(t)
	backend.Requests = []models.KeyRequest{
		{ID: 1, UserID: 7, Username: "aline", SiteName: "Kigali Hub", Status: models.StatusPending},
		{ID: 2, UserID: 8, Username: "eric", SiteName: "Huye North", Status: models.StatusPending},
	}
	backend.Outsiders = []models.OutsiderRequest{
		{ID: 10, Name: "Visitor", SiteName: "Kigali Hub", Status: models.StatusPending},
	}
	sess := &models.Session{Token: testutil.Token(t, 1), Role: models.RoleAdmin, UserID: 1}
	client := api.NewClient(backend.BaseURL(), 5*time.Second, staticSession{sess: sess})

	t.Run("admin backend", func(t *testing.T) {
		svc := NewRequestService(AdminRequests(client))
		require.NoError(t, svc.Load(context.Background()))
		require.Len(t, svc.Records(), 2)

		require.NoError(t, svc.UpdateStatus(context.Background(), 1, models.StatusApproved))
		backend.Mu.Lock()
		assert.Equal(t, models.StatusApproved, backend.Requests[0].Status)
		backend.Mu.Unlock()
	})

	t.Run("outsider backend adapts to the shared record shape", func(t *testing.T) {
		svc := NewRequestService(OutsiderRequests(client))
		require.NoError(t, svc.Load(context.Background()))
		records := svc.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "Visitor", records[0].Username)

		require.NoError(t, svc.UpdateStatus(context.Background(), 10, models.StatusApproved))

		err := svc.Delete(context.Background(), 10)
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("user backend lists only own history", func(t *testing.T) {
		svc := NewRequestService(UserRequests(client, 7))
		require.NoError(t, svc.Load(context.Background()))
		records := svc.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "aline", records[0].Username)

		err := svc.UpdateStatus(context.Background(), records[0].ID, models.StatusApproved)
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})
}

type staticSession struct {
	sess *models.Session
}

func (s staticSession) Current() *models.Session { return s.sess }

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.db")
}
