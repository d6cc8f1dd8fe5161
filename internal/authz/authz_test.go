package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"meetup-service/internal/models"
)

func TestEffectiveRoleOrganizerWinsOverMembership(t *testing.T) {
	group := models.Group{ID: 1, OrganizerID: 7}

	// organizer with no membership row
	require.Equal(t, RoleOrganizer, EffectiveRole(7, group, nil))

	// organizer-ship takes precedence over whatever the row says
	membership := models.Membership{GroupID: 1, UserID: 7, Status: models.StatusPending}
	require.Equal(t, RoleOrganizer, EffectiveRole(7, group, &membership))
}

func TestEffectiveRoleFromMembership(t *testing.T) {
	group := models.Group{ID: 1, OrganizerID: 7}

	tests := []struct {
		status models.MembershipStatus
		want   Role
	}{
		{models.StatusPending, RolePending},
		{models.StatusMember, RoleMember},
		{models.StatusCoHost, RoleCoHost},
		{models.StatusHost, RoleCoHost},
	}
	for _, tt := range tests {
		membership := models.Membership{GroupID: 1, UserID: 3, Status: tt.status}
		require.Equal(t, tt.want, EffectiveRole(3, group, &membership), "status %q", tt.status)
	}

	require.Equal(t, RoleNone, EffectiveRole(3, group, nil))
}

func TestCanAct(t *testing.T) {
	tests := []struct {
		actor    Role
		required Role
		want     bool
	}{
		{RoleOrganizer, RoleOrganizer, true},
		{RoleOrganizer, RoleCoHost, true},
		{RoleCoHost, RoleCoHost, true},
		{RoleCoHost, RoleMember, true},
		{RoleCoHost, RoleOrganizer, false},
		{RoleMember, RoleCoHost, false},
		{RolePending, RoleMember, false},
		{RoleNone, RoleMember, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CanAct(tt.actor, tt.required), "actor=%s required=%s", tt.actor, tt.required)
	}
}

func TestValidateTransitionToMember(t *testing.T) {
	// promoting a pending request needs organizer or co-host
	require.NoError(t, ValidateTransition(RoleOrganizer, models.StatusPending, models.StatusMember))
	require.NoError(t, ValidateTransition(RoleCoHost, models.StatusPending, models.StatusMember))
	require.ErrorIs(t, ValidateTransition(RoleMember, models.StatusPending, models.StatusMember), ErrForbidden)
	require.ErrorIs(t, ValidateTransition(RoleNone, models.StatusPending, models.StatusMember), ErrForbidden)

	// stripping a co-host back to member is organizer-only
	require.NoError(t, ValidateTransition(RoleOrganizer, models.StatusCoHost, models.StatusMember))
	require.ErrorIs(t, ValidateTransition(RoleCoHost, models.StatusCoHost, models.StatusMember), ErrForbidden)
}

func TestValidateTransitionToCoHost(t *testing.T) {
	require.NoError(t, ValidateTransition(RoleOrganizer, models.StatusMember, models.StatusCoHost))

	for _, actor := range []Role{RoleCoHost, RoleMember, RolePending, RoleNone} {
		require.ErrorIs(t, ValidateTransition(actor, models.StatusMember, models.StatusCoHost), ErrForbidden, "actor=%s", actor)
	}
}

func TestValidateTransitionToPendingAlwaysFails(t *testing.T) {
	for _, actor := range []Role{RoleOrganizer, RoleCoHost, RoleMember, RolePending, RoleNone} {
		for _, current := range []models.MembershipStatus{models.StatusPending, models.StatusMember, models.StatusCoHost, models.StatusHost} {
			err := ValidateTransition(actor, current, models.StatusPending)
			require.ErrorIs(t, err, ErrPendingTarget, "actor=%s current=%q", actor, current)
		}
	}
}

func TestValidateTransitionRejectsUnknownTargets(t *testing.T) {
	require.ErrorIs(t, ValidateTransition(RoleOrganizer, models.StatusMember, "owner"), ErrUnknownStatus)
	require.ErrorIs(t, ValidateTransition(RoleOrganizer, models.StatusMember, ""), ErrUnknownStatus)
	// host is legacy: readable, never assignable
	require.ErrorIs(t, ValidateTransition(RoleOrganizer, models.StatusMember, models.StatusHost), ErrUnknownStatus)
}

func TestCanDeleteMembership(t *testing.T) {
	group := models.Group{ID: 1, OrganizerID: 7}

	require.True(t, CanDeleteMembership(3, 3, group), "members may leave")
	require.True(t, CanDeleteMembership(7, 3, group), "organizer may remove anyone")
	require.False(t, CanDeleteMembership(4, 3, group), "third parties may not")
}

func TestCanSeePending(t *testing.T) {
	require.True(t, CanSeePending(RoleOrganizer))
	require.True(t, CanSeePending(RoleCoHost))
	require.False(t, CanSeePending(RoleMember))
	require.False(t, CanSeePending(RolePending))
	require.False(t, CanSeePending(RoleNone))
}
