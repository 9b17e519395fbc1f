package domain

import (
	"time"

	"github.com/velokitchen/VK-BookingService/pkg/types"
)

// StaffRole is a staffing role on a shift
type StaffRole string

const (
	RoleMechanic StaffRole = "mechanic"
	RoleHost     StaffRole = "host"
)

// ValidStaffRole reports whether r is a known role.
func ValidStaffRole(r StaffRole) bool {
	return r == RoleMechanic || r == RoleHost
}

// StaffMember is one signup on a shift roster
type StaffMember struct {
	UserID     int64
	Name       string
	Email      string
	SignedUpAt time.Time
}

// Shift represents a staffed time window on one calendar date
type Shift struct {
	ID        int64
	Date      time.Time // date only, time part zeroed
	StartTime types.TimeString
	EndTime   types.TimeString
	IsOpen    bool // closed shifts are invisible to booking
	Notes     *string

	// Rosters, ordered by signup time
	Mechanics []StaffMember
	Hosts     []StaffMember

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Roster returns the staff list for a role.
func (s *Shift) Roster(role StaffRole) []StaffMember {
	if role == RoleHost {
		return s.Hosts
	}
	return s.Mechanics
}

// IsSignedUp reports whether the user is on the shift's roster for the role.
func (s *Shift) IsSignedUp(userID int64, role StaffRole) bool {
	for _, m := range s.Roster(role) {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// ValidWindow reports whether the staffed window is non-empty.
func (s *Shift) ValidWindow() bool {
	return !s.StartTime.IsZero() && !s.EndTime.IsZero() && s.StartTime.IsBefore(s.EndTime)
}
