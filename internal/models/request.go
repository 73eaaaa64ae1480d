package models

import "time"

// RequestStatus defines lifecycle states for key requests. The backend
// owns the field; the client only ever proposes a transition.
type RequestStatus string

const (
	// StatusPending is the implicit initial state assigned by the server.
	StatusPending RequestStatus = "Pending"
	// StatusApproved indicates an admin granted the request.
	StatusApproved RequestStatus = "Approved"
	// StatusDenied indicates an admin rejected the request.
	StatusDenied RequestStatus = "Denied"
	// StatusReturned indicates the key was handed back.
	StatusReturned RequestStatus = "Returned"
)

// Valid reports whether s is one of the four known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusReturned:
		return true
	}
	return false
}

// ParseRequestStatus converts a wire value into a RequestStatus.
func ParseRequestStatus(s string) (RequestStatus, error) {
	status := RequestStatus(s)
	if !status.Valid() {
		return "", NewValidationError("Unknown request status: " + s)
	}
	return status, nil
}

// Transition validates a client-proposed status change. The backend does
// not restrict ordering, so any of Approved, Denied, or Returned may be
// requested from any current state, including moves back to an earlier
// decision. Pending is never a client-initiated target.
func Transition(current, next RequestStatus) (RequestStatus, error) {
	if !next.Valid() {
		return "", NewValidationError("Unknown request status: " + string(next))
	}
	if next == StatusPending {
		return "", NewValidationError("Pending is assigned by the server and cannot be requested")
	}
	_ = current
	return next, nil
}

// KeyRequest is one party's ask to access a physical site at a given
// time. Field names follow the backend's wire format.
type KeyRequest struct {
	ID            uint          `json:"id"`
	UserID        uint          `json:"user_id,omitempty"`
	Username      string        `json:"username"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	SiteID        uint          `json:"site_id,omitempty"`
	SiteName      string        `json:"site_name"`
	PartnerName   string        `json:"partner_name,omitempty"`
	Reason        string        `json:"reason"`
	RequestedTime time.Time     `json:"requested_time"`
	RequestDate   time.Time     `json:"request_date"`
	Status        RequestStatus `json:"status"`
}

// SubmittedAt returns the timestamp relevant for date-range filtering:
// the server-assigned submission date, falling back to the requested
// access time for rows (public submissions) that carry no request_date.
func (r KeyRequest) SubmittedAt() time.Time {
	if !r.RequestDate.IsZero() {
		return r.RequestDate
	}
	return r.RequestedTime
}

// OutsiderRequest is a public key request submitted on behalf of a
// partner organization. It differs from KeyRequest only in carrying the
// requester's free-text identity under "name".
type OutsiderRequest struct {
	ID            uint          `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	SiteID        uint          `json:"site_id,omitempty"`
	SiteName      string        `json:"site_name"`
	PartnerName   string        `json:"partner_name,omitempty"`
	Reason        string        `json:"reason"`
	RequestedTime time.Time     `json:"requested_time"`
	Status        RequestStatus `json:"status"`
}

// Record adapts an outsider request to the shared KeyRequest shape so
// both list variants flow through the same filtering and display code.
func (o OutsiderRequest) Record() KeyRequest {
	return KeyRequest{
		ID:            o.ID,
		Username:      o.Name,
		Email:         o.Email,
		Phone:         o.Phone,
		SiteID:        o.SiteID,
		SiteName:      o.SiteName,
		PartnerName:   o.PartnerName,
		Reason:        o.Reason,
		RequestedTime: o.RequestedTime,
		Status:        o.Status,
	}
}

// RequestDraft is an in-progress public request form, persisted locally
// until the submission succeeds. RequestedTime stays a string because
// the form captures it as free text before validation.
type RequestDraft struct {
	Name          string
	Email         string
	Phone         string
	PartnerName   string
	SiteID        uint
	Reason        string
	RequestedTime string
}

// Empty reports whether the draft carries no user input worth keeping.
func (d RequestDraft) Empty() bool {
	return d == RequestDraft{}
}
