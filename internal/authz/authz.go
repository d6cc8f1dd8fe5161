package authz

import (
	"errors"

	"meetup-service/internal/models"
)

// Role is a user's effective privilege level within one group. Levels are
// ordered; a higher role carries every permission of the roles below it.
type Role int

const (
	RoleNone Role = iota
	RolePending
	RoleMember
	RoleCoHost
	RoleOrganizer
)

var roleNames = map[Role]string{
	RoleNone:      "none",
	RolePending:   "pending",
	RoleMember:    "member",
	RoleCoHost:    "co-host",
	RoleOrganizer: "organizer",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

var (
	// ErrForbidden means the actor's role is below the required level.
	ErrForbidden = errors.New("forbidden")
	// ErrPendingTarget means a transition to pending was requested.
	// No actor may move a membership back to pending.
	ErrPendingTarget = errors.New("cannot change a membership status to pending")
	// ErrUnknownStatus means the requested target status is outside the
	// closed status set (or is the unassignable legacy host status).
	ErrUnknownStatus = errors.New("unknown membership status")
)

// RoleForStatus maps a stored membership status to its privilege level.
// The legacy host status carries co-host privileges.
func RoleForStatus(status models.MembershipStatus) Role {
	switch status {
	case models.StatusPending:
		return RolePending
	case models.StatusMember:
		return RoleMember
	case models.StatusCoHost, models.StatusHost:
		return RoleCoHost
	}
	return RoleNone
}

// EffectiveRole resolves a user's role for a group. Organizer-ship comes
// from the group row and wins over any membership row; membership is nil
// when the user has no relation to the group.
func EffectiveRole(userID int, group models.Group, membership *models.Membership) Role {
	if userID == group.OrganizerID {
		return RoleOrganizer
	}
	if membership != nil {
		return RoleForStatus(membership.Status)
	}
	return RoleNone
}

// CanAct reports whether an actor at the given role may perform an action
// requiring the given level. The organizer may do everything; other roles
// pass only requirements at or below their own level.
func CanAct(actor, required Role) bool {
	if actor == RoleOrganizer {
		return true
	}
	return required <= RoleCoHost && actor >= required
}

// ValidateTransition gates a membership status change before any write.
// It encodes the full transition table: pending is never a valid target,
// member may be granted by organizer or co-host, co-host only by the
// organizer, and stripping a co-host back to member is organizer-only.
func ValidateTransition(actor Role, current, target models.MembershipStatus) error {
	switch target {
	case models.StatusPending:
		return ErrPendingTarget
	case models.StatusMember:
		required := RoleCoHost
		if RoleForStatus(current) >= RoleCoHost {
			required = RoleOrganizer
		}
		if !CanAct(actor, required) {
			return ErrForbidden
		}
		return nil
	case models.StatusCoHost:
		if !CanAct(actor, RoleOrganizer) {
			return ErrForbidden
		}
		return nil
	}
	return ErrUnknownStatus
}

// CanDeleteMembership reports whether the actor may remove a member's row:
// the member themself, or the group organizer.
func CanDeleteMembership(actorID, memberID int, group models.Group) bool {
	return actorID == memberID || actorID == group.OrganizerID
}

// CanSeePending reports whether member listings shown to this actor may
// include pending join requests.
func CanSeePending(actor Role) bool {
	return actor >= RoleCoHost
}
