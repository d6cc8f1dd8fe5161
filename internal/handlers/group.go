package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meetup-service/internal/models"
	"meetup-service/internal/observability"
	"meetup-service/internal/repositories"
	"meetup-service/internal/telemetry"
)

// GroupHandler manages group CRUD and group images.
type GroupHandler struct {
	groupRepo repositories.GroupRepository
	audit     *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groupRepo repositories.GroupRepository, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{groupRepo: groupRepo, audit: audit}
}

type groupRequest struct {
	Name         string  `json:"name"`
	About        string  `json:"about"`
	Type         string  `json:"type"`
	Private      *bool   `json:"private"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PreviewImage *string `json:"previewImage"`
}

func validateGroup(req groupRequest) map[string]string {
	errs := map[string]string{}
	if req.Name == "" || len(req.Name) > 60 {
		errs["name"] = "Name must be 60 characters or less"
	}
	if len(req.About) < 30 {
		errs["about"] = "About must be 30 characters or more"
	}
	if req.Type != models.GroupTypeOnline && req.Type != models.GroupTypeInPerson {
		errs["type"] = "Type must be 'Online' or 'In person'"
	}
	if req.Private == nil {
		errs["private"] = "Private must be a boolean"
	}
	if req.City == "" {
		errs["city"] = "City is required"
	}
	if req.State == "" {
		errs["state"] = "State is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CreateGroup handles POST /groups. The caller becomes the organizer.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID := c.GetInt("userID")

	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if errs := validateGroup(req); errs != nil {
		respondValidation(c, errs)
		return
	}

	group, err := h.groupRepo.CreateGroup(c.Request.Context(), models.Group{
		OrganizerID:  userID,
		Name:         req.Name,
		About:        req.About,
		Type:         req.Type,
		Private:      *req.Private,
		City:         req.City,
		State:        req.State,
		PreviewImage: req.PreviewImage,
	})
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", nil)
		respondServerError(c)
		return
	}

	headers := observability.BuildHeaders(requestIDFromContext(c), "")
	_ = observability.PublishEvent(c.Request.Context(), "group.created", observability.EventEnvelope{
		EventType: "group",
		EventName: "group.created",
		Payload:   observability.GroupEvent{GroupID: group.ID, OrganizerID: userID},
	}, headers)

	h.emitAudit(c, "INFO", "Group created", &group.ID)
	c.JSON(http.StatusCreated, group)
}

// ListGroups handles GET /groups.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupRepo.ListGroups(c.Request.Context())
	if err != nil {
		respondServerError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Groups": groups})
}

// ListCurrentGroups handles GET /groups/current, returning the groups the
// caller organizes.
func (h *GroupHandler) ListCurrentGroups(c *gin.Context) {
	userID := c.GetInt("userID")
	groups, err := h.groupRepo.ListGroupsByOrganizer(c.Request.Context(), userID)
	if err != nil {
		respondServerError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Groups": groups})
}

// GetGroup handles GET /groups/:groupId.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	detail, err := h.groupRepo.GetGroupDetail(c.Request.Context(), groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondNotFound(c, "Group couldn't be found")
		return
	}
	if err != nil {
		respondServerError(c)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateGroup handles PUT /groups/:groupId. Organizer only.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if errs := validateGroup(req); errs != nil {
		respondValidation(c, errs)
		return
	}

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondNotFound(c, "Group couldn't be found")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", &groupID)
		respondServerError(c)
		return
	}

	if group.OrganizerID != userID {
		observability.IncAuthzDenial("group.update")
		h.emitAudit(c, "ERROR", "group update denied", &groupID)
		respondForbidden(c)
		return
	}

	group.Name = req.Name
	group.About = req.About
	group.Type = req.Type
	group.Private = *req.Private
	group.City = req.City
	group.State = req.State

	updated, err := h.groupRepo.UpdateGroup(c.Request.Context(), group)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", &groupID)
		respondServerError(c)
		return
	}

	h.emitAudit(c, "INFO", "Group updated", &groupID)
	c.JSON(http.StatusOK, updated)
}

// DeleteGroup handles DELETE /groups/:groupId. Organizer only; children
// cascade away with the group.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
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
		h.emitAudit(c, "ERROR", "internal error", &groupID)
		respondServerError(c)
		return
	}

	if group.OrganizerID != userID {
		observability.IncAuthzDenial("group.delete")
		h.emitAudit(c, "ERROR", "group deletion denied", &groupID)
		respondForbidden(c)
		return
	}

	if err := h.groupRepo.DeleteGroup(c.Request.Context(), groupID); err != nil {
		h.emitAudit(c, "ERROR", "internal error", &groupID)
		respondServerError(c)
		return
	}

	headers := observability.BuildHeaders(requestIDFromContext(c), "")
	_ = observability.PublishEvent(c.Request.Context(), "group.deleted", observability.EventEnvelope{
		EventType: "group",
		EventName: "group.deleted",
		Payload:   observability.GroupEvent{GroupID: groupID, OrganizerID: userID},
	}, headers)

	h.emitAudit(c, "INFO", "Group deleted", &groupID)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully deleted"})
}

// AddGroupImage handles POST /groups/:groupId/images. Organizer only.
func (h *GroupHandler) AddGroupImage(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	var req struct {
		URL     string `json:"url"`
		Preview bool   `json:"preview"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if req.URL == "" {
		respondValidation(c, map[string]string{"url": "Image url is required"})
		return
	}

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondNotFound(c, "Group couldn't be found")
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", &groupID)
		respondServerError(c)
		return
	}

	if group.OrganizerID != userID {
		observability.IncAuthzDenial("group.image")
		respondForbidden(c)
		return
	}

	image, err := h.groupRepo.AddImage(c.Request.Context(), groupID, req.URL, req.Preview)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", &groupID)
		respondServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": image.ID, "url": image.URL, "preview": image.Preview})
}

func (h *GroupHandler) emitAudit(c *gin.Context, level, text string, groupID *int) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c), groupID)
}
