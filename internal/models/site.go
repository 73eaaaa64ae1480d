package models

// SiteStatus defines operational states for a physical site.
type SiteStatus string

const (
	// SiteActive means the site accepts key requests.
	SiteActive SiteStatus = "Active"
	// SiteInactive means the site is closed.
	SiteInactive SiteStatus = "Inactive"
	// SiteUnderMaintenance means access is temporarily restricted.
	SiteUnderMaintenance SiteStatus = "Under Maintenance"
)

// Valid reports whether s is one of the known site statuses.
func (s SiteStatus) Valid() bool {
	switch s {
	case SiteActive, SiteInactive, SiteUnderMaintenance:
		return true
	}
	return false
}

// SiteStatuses lists the selectable site statuses in form order.
func SiteStatuses() []SiteStatus {
	return []SiteStatus{SiteActive, SiteInactive, SiteUnderMaintenance}
}

// Site is a physical location keys grant access to.
type Site struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Status   SiteStatus `json:"status"`
}
