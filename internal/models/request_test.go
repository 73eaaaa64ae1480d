package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	t.Parallel()

	states := []RequestStatus{StatusPending, StatusApproved, StatusDenied, StatusReturned}
	targets := []RequestStatus{StatusApproved, StatusDenied, StatusReturned}

	t.Run("any admin decision is reachable from any state", func(t *testing.T) {
		t.Parallel()
		for _, current := range states {
			for _, next := range targets {
				got, err := Transition(current, next)
				require.NoError(t, err, "transition %s -> %s", current, next)
				assert.Equal(t, next, got)
			}
		}
	})

	t.Run("pending is never a client target", func(t *testing.T) {
		t.Parallel()
		for _, current := range states {
			_, err := Transition(current, StatusPending)
			require.Error(t, err)
			assert.Equal(t, CodeValidation, ErrorCode(err))
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Transition(StatusPending, RequestStatus("Granted"))
		require.Error(t, err)
		assert.Equal(t, CodeValidation, ErrorCode(err))
	})
}

func TestParseRequestStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"Pending", "Approved", "Denied", "Returned"} {
		got, err := ParseRequestStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, RequestStatus(valid), got)
	}

	_, err := ParseRequestStatus("approved")
	assert.Error(t, err, "status values are case-sensitive on the wire")
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RoleAdmin, ParseRole("Admin"))
	assert.Equal(t, RoleTechnician, ParseRole("Technician"))
	assert.Equal(t, RoleOutsider, ParseRole("Outsider"))
	assert.Equal(t, RoleOutsider, ParseRole("User"), "legacy label for outsiders")
	assert.Equal(t, Role(""), ParseRole("SuperAdmin"))
	assert.Equal(t, Role(""), ParseRole(""))
}

func TestOutsiderRequestRecord(t *testing.T) {
	t.Parallel()

	o := OutsiderRequest{
		ID:          7,
		Name:        "Jean Bosco",
		Email:       "jean@mtn.com",
		SiteName:    "Kigali North",
		PartnerName: "MTN",
		Reason:      "tower maintenance",
		Status:      StatusPending,
	}
	r := o.Record()
	assert.Equal(t, o.ID, r.ID)
	assert.Equal(t, o.Name, r.Username)
	assert.Equal(t, o.Email, r.Email)
	assert.Equal(t, o.SiteName, r.SiteName)
	assert.Equal(t, o.PartnerName, r.PartnerName)
	assert.Equal(t, o.Status, r.Status)
}
