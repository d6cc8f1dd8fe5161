package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meetup-service/internal/authz"
	"meetup-service/internal/models"
	"meetup-service/internal/observability"
	"meetup-service/internal/repositories"
	"meetup-service/internal/telemetry"
)

// EventHandler manages a group's events.
type EventHandler struct {
	groupRepo      repositories.GroupRepository
	membershipRepo repositories.MembershipRepository
	eventRepo      repositories.EventRepository
	venueRepo      repositories.VenueRepository
	audit          *telemetry.AuditEmitter
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(groupRepo repositories.GroupRepository, membershipRepo repositories.MembershipRepository, eventRepo repositories.EventRepository, venueRepo repositories.VenueRepository, audit *telemetry.AuditEmitter) *EventHandler {
	return &EventHandler{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		eventRepo:      eventRepo,
		venueRepo:      venueRepo,
		audit:          audit,
	}
}

type eventRequest struct {
	VenueID      *int      `json:"venueId"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Capacity     *int      `json:"capacity"`
	Price        *int      `json:"price"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	PreviewImage string    `json:"previewImage"`
}

func validateEvent(req eventRequest, now time.Time) map[string]string {
	errs := map[string]string{}
	if len(req.Name) < 5 {
		errs["name"] = "Name must be at least 5 characters"
	}
	if req.Type != models.GroupTypeOnline && req.Type != models.GroupTypeInPerson {
		errs["type"] = "Type must be 'Online' or 'In person'"
	}
	if req.Price == nil || *req.Price < 0 {
		errs["price"] = "Price is invalid"
	}
	if req.Description == "" {
		errs["description"] = "Description is required"
	}
	if !req.StartDate.After(now) {
		errs["startDate"] = "Start date must be in the future"
	}
	if req.EndDate.Before(req.StartDate) {
		errs["endDate"] = "End date is less than Start date"
	}
	if req.PreviewImage == "" {
		errs["previewImage"] = "Please set an image for event"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ListGroupEvents handles GET /groups/:groupId/events.
func (h *EventHandler) ListGroupEvents(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondNotFound(c, "Group couldn't be found")
		return
	}
	if err != nil {
		respondServerError(c)
		return
	}

	events, err := h.eventRepo.ListGroupEvents(c.Request.Context(), groupID)
	if err != nil {
		respondServerError(c)
		return
	}

	groupBrief := &models.GroupBrief{ID: group.ID, Name: group.Name, City: group.City, State: group.State}
	venueBriefs := map[int]*models.VenueBrief{}
	for i := range events {
		events[i].Group = groupBrief
		if events[i].VenueID == nil {
			continue
		}
		venueID := *events[i].VenueID
		brief, ok := venueBriefs[venueID]
		if !ok {
			venue, err := h.venueRepo.GetVenue(c.Request.Context(), venueID)
			if err != nil {
				continue
			}
			brief = &models.VenueBrief{ID: venue.ID, City: venue.City, State: venue.State}
			venueBriefs[venueID] = brief
		}
		events[i].Venue = brief
	}

	c.JSON(http.StatusOK, gin.H{"Events": events})
}

// CreateEvent handles POST /groups/:groupId/events. Organizer and co-hosts
// only.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if errs := validateEvent(req, time.Now()); errs != nil {
		respondValidation(c, errs)
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

	role, err := effectiveRole(c.Request.Context(), h.membershipRepo, userID, group)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}
	if !authz.CanAct(role, authz.RoleCoHost) {
		observability.IncAuthzDenial("event.create")
		h.emitAudit(c, "ERROR", "event creation denied", groupID)
		respondForbidden(c)
		return
	}

	if req.VenueID != nil {
		venue, err := h.venueRepo.GetVenue(c.Request.Context(), *req.VenueID)
		if errors.Is(err, repositories.ErrVenueNotFound) || (err == nil && venue.GroupID != groupID) {
			respondValidation(c, map[string]string{"venueId": "Venue couldn't be found"})
			return
		}
		if err != nil {
			h.emitAudit(c, "ERROR", "internal error", groupID)
			respondServerError(c)
			return
		}
	}

	event, err := h.eventRepo.CreateEvent(c.Request.Context(), models.Event{
		GroupID:      groupID,
		VenueID:      req.VenueID,
		Name:         req.Name,
		Type:         req.Type,
		Capacity:     req.Capacity,
		Price:        *req.Price,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		PreviewImage: req.PreviewImage,
	})
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	h.emitAudit(c, "INFO", "Event created", groupID)
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) emitAudit(c *gin.Context, level, text string, groupID int) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c), &groupID)
}
