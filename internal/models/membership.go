package models

import "time"

// MembershipStatus is the closed set of states a membership row may hold.
// Any other value is rejected at the boundary.
type MembershipStatus string

const (
	StatusPending MembershipStatus = "pending"
	StatusMember  MembershipStatus = "member"
	StatusCoHost  MembershipStatus = "co-host"
	// StatusHost is a legacy status kept for old rows. It grants co-host
	// privileges but can no longer be assigned.
	StatusHost MembershipStatus = "host"
)

// Valid reports whether s is one of the known statuses.
func (s MembershipStatus) Valid() bool {
	switch s {
	case StatusPending, StatusMember, StatusCoHost, StatusHost:
		return true
	}
	return false
}

// Membership links one user to one group. At most one row exists per
// (user, group) pair; the status field drives all group authorization.
type Membership struct {
	ID        int              `db:"id" json:"id"`
	UserID    int              `db:"user_id" json:"memberId"`
	GroupID   int              `db:"group_id" json:"groupId"`
	Status    MembershipStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"-"`
	UpdatedAt time.Time        `db:"updated_at" json:"-"`
}

// Member is a membership joined with the member's public identity,
// shaped for the member-listing endpoint.
type Member struct {
	ID        int              `db:"id" json:"id"`
	FirstName string           `db:"first_name" json:"firstName"`
	LastName  string           `db:"last_name" json:"lastName"`
	Status    MembershipStatus `db:"status" json:"status"`
}
