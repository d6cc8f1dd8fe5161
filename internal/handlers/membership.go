package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"meetup-service/internal/authz"
	"meetup-service/internal/models"
	"meetup-service/internal/observability"
	"meetup-service/internal/repositories"
	"meetup-service/internal/telemetry"
)

// MembershipHandler manages join requests, status transitions, member
// removal and member listing for a group.
type MembershipHandler struct {
	groupRepo      repositories.GroupRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	audit          *telemetry.AuditEmitter
}

// NewMembershipHandler constructs a MembershipHandler.
func NewMembershipHandler(groupRepo repositories.GroupRepository, membershipRepo repositories.MembershipRepository, userRepo repositories.UserRepository, audit *telemetry.AuditEmitter) *MembershipHandler {
	return &MembershipHandler{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		audit:          audit,
	}
}

// RequestMembership handles POST /groups/:groupId/membership. The caller
// asks to join; a new row always starts as pending.
func (h *MembershipHandler) RequestMembership(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondNotFound(c, "Group couldn't be found")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	if userID == group.OrganizerID {
		respondBadRequest(c, "User is already a member of the group")
		return
	}

	existing, err := h.membershipRepo.GetMembership(c.Request.Context(), groupID, userID)
	if err == nil {
		if existing.Status == models.StatusPending {
			respondBadRequest(c, "Membership has already been requested")
		} else {
			respondBadRequest(c, "User is already a member of the group")
		}
		return
	}
	if !errors.Is(err, repositories.ErrMembershipNotFound) {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	membership, err := h.membershipRepo.RequestMembership(c.Request.Context(), groupID, userID)
	if errors.Is(err, repositories.ErrMembershipExists) {
		// lost a race with a concurrent request from the same user
		respondBadRequest(c, "Membership has already been requested")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	observability.IncMembershipTransition("none", string(models.StatusPending))
	h.publishMembershipEvent(c, "membership.requested", groupID, userID, string(membership.Status))
	h.emitAudit(c, "INFO", "Membership requested", groupID)
	c.JSON(http.StatusOK, gin.H{"memberId": userID, "status": membership.Status})
}

// ChangeMembershipStatus handles PUT /groups/:groupId/membership. The
// transition is validated against the current row, then applied with a
// locked re-check so a stale read is never trusted.
func (h *MembershipHandler) ChangeMembershipStatus(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	actorID := c.GetInt("userID")

	var req struct {
		MemberID int    `json:"memberId"`
		Status   string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	ctx, span := otel.Tracer("meetup-service/handlers").Start(c.Request.Context(), "membership.transition")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	group, err := h.groupRepo.GetGroup(ctx, groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondNotFound(c, "Group couldn't be found")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	if _, err := h.userRepo.GetUser(ctx, req.MemberID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			respondValidation(c, map[string]string{"memberId": "User couldn't be found"})
			return
		}
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	membership, err := h.membershipRepo.GetMembership(ctx, groupID, req.MemberID)
	if errors.Is(err, repositories.ErrMembershipNotFound) {
		respondNotFound(c, "Membership between the user and the group does not exist")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	role, err := effectiveRole(ctx, h.membershipRepo, actorID, group)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	target := models.MembershipStatus(req.Status)
	switch err := authz.ValidateTransition(role, membership.Status, target); {
	case errors.Is(err, authz.ErrPendingTarget):
		respondValidation(c, map[string]string{"status": "Cannot change a membership status to pending"})
		return
	case errors.Is(err, authz.ErrUnknownStatus):
		respondValidation(c, map[string]string{"status": "Membership status must be 'member' or 'co-host'"})
		return
	case errors.Is(err, authz.ErrForbidden):
		observability.IncAuthzDenial("membership.update")
		h.emitAudit(c, "ERROR", "membership transition denied", groupID)
		respondForbidden(c)
		return
	}

	updated, err := h.membershipRepo.UpdateStatusFrom(ctx, groupID, req.MemberID, membership.Status, target)
	if errors.Is(err, repositories.ErrMembershipNotFound) {
		respondNotFound(c, "Membership between the user and the group does not exist")
		return
	}
	if errors.Is(err, repositories.ErrStatusConflict) {
		respondBadRequest(c, "Membership was modified concurrently, please retry")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	observability.IncMembershipTransition(string(membership.Status), string(updated.Status))
	h.publishMembershipEvent(c, "membership.updated", groupID, req.MemberID, string(updated.Status))
	h.emitAudit(c, "INFO", "Membership status changed to "+string(updated.Status), groupID)
	c.JSON(http.StatusOK, gin.H{
		"id":       updated.ID,
		"groupId":  groupID,
		"memberId": req.MemberID,
		"status":   updated.Status,
	})
}

// DeleteMembership handles DELETE /groups/:groupId/membership. Only the
// member themself or the organizer may remove a membership.
func (h *MembershipHandler) DeleteMembership(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	actorID := c.GetInt("userID")

	var req struct {
		MemberID int `json:"memberId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondNotFound(c, "Group couldn't be found")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	if _, err := h.userRepo.GetUser(c.Request.Context(), req.MemberID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			respondValidation(c, map[string]string{"memberId": "User couldn't be found"})
			return
		}
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	if !authz.CanDeleteMembership(actorID, req.MemberID, group) {
		observability.IncAuthzDenial("membership.delete")
		h.emitAudit(c, "ERROR", "membership deletion denied", groupID)
		respondForbidden(c)
		return
	}

	err = h.membershipRepo.DeleteMembership(c.Request.Context(), groupID, req.MemberID)
	if errors.Is(err, repositories.ErrMembershipNotFound) {
		respondNotFound(c, "Membership does not exist for this User")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	h.publishMembershipEvent(c, "membership.deleted", groupID, req.MemberID, "")
	h.emitAudit(c, "INFO", "Membership deleted", groupID)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully deleted membership from group"})
}

// ListMembers handles GET /groups/:groupId/members. Pending join requests
// are visible only to the organizer and co-hosts.
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	actorID := c.GetInt("userID")

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondNotFound(c, "Group couldn't be found")
		return
	}
	if err != nil {
		respondServerError(c)
		return
	}

	role, err := effectiveRole(c.Request.Context(), h.membershipRepo, actorID, group)
	if err != nil {
		respondServerError(c)
		return
	}

	members, err := h.membershipRepo.ListMembers(c.Request.Context(), groupID, authz.CanSeePending(role))
	if err != nil {
		respondServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"Members": members})
}

func (h *MembershipHandler) publishMembershipEvent(c *gin.Context, name string, groupID, memberID int, status string) {
	span := trace.SpanFromContext(c.Request.Context())
	headers := observability.BuildHeaders(requestIDFromContext(c), span.SpanContext().TraceID().String())
	event := observability.EventEnvelope{
		EventType: "membership",
		EventName: name,
		Payload: observability.MembershipEvent{
			GroupID:  groupID,
			MemberID: memberID,
			ActorID:  c.GetInt("userID"),
			Status:   status,
		},
	}
	// event delivery is best effort
	_ = observability.PublishEvent(c.Request.Context(), name, event, headers)
}

func (h *MembershipHandler) emitAudit(c *gin.Context, level, text string, groupID int) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c), &groupID)
}

func parseGroupID(c *gin.Context) (int, bool) {
	groupID, err := strconv.Atoi(c.Param("groupId"))
	if err != nil {
		respondBadRequest(c, "Invalid group id")
		return 0, false
	}
	return groupID, true
}
