package handlers

import (
	"context"
	"errors"

	"meetup-service/internal/authz"
	"meetup-service/internal/models"
	"meetup-service/internal/repositories"
)

// effectiveRole resolves the actor's role for a group. A missing membership
// row is not an error; it resolves to no relation. actorID 0 means the
// request carried no identity.
func effectiveRole(ctx context.Context, memberships repositories.MembershipRepository, actorID int, group models.Group) (authz.Role, error) {
	if actorID == 0 {
		return authz.RoleNone, nil
	}
	if actorID == group.OrganizerID {
		return authz.RoleOrganizer, nil
	}
	membership, err := memberships.GetMembership(ctx, group.ID, actorID)
	if errors.Is(err, repositories.ErrMembershipNotFound) {
		return authz.RoleNone, nil
	}
	if err != nil {
		return authz.RoleNone, err
	}
	return authz.EffectiveRole(actorID, group, &membership), nil
}
