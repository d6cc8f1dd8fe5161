package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meetup-service/internal/authz"
	"meetup-service/internal/models"
	"meetup-service/internal/observability"
	"meetup-service/internal/repositories"
	"meetup-service/internal/telemetry"
)

// VenueHandler manages a group's venues.
type VenueHandler struct {
	groupRepo      repositories.GroupRepository
	membershipRepo repositories.MembershipRepository
	venueRepo      repositories.VenueRepository
	audit          *telemetry.AuditEmitter
}

// NewVenueHandler constructs a VenueHandler.
func NewVenueHandler(groupRepo repositories.GroupRepository, membershipRepo repositories.MembershipRepository, venueRepo repositories.VenueRepository, audit *telemetry.AuditEmitter) *VenueHandler {
	return &VenueHandler{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		venueRepo:      venueRepo,
		audit:          audit,
	}
}

type venueRequest struct {
	Address string   `json:"address"`
	City    string   `json:"city"`
	State   string   `json:"state"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

func validateVenue(req venueRequest) map[string]string {
	errs := map[string]string{}
	if req.Address == "" {
		errs["address"] = "Street address is required"
	}
	if req.City == "" {
		errs["city"] = "City is required"
	}
	if req.State == "" {
		errs["state"] = "State is required"
	}
	if req.Lat == nil || *req.Lat < -90 || *req.Lat > 90 {
		errs["lat"] = "Latitude is not valid"
	}
	if req.Lng == nil || *req.Lng < -180 || *req.Lng > 180 {
		errs["lng"] = "Longitude is not valid"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ListVenues handles GET /groups/:groupId/venues. Organizer and co-hosts
// only.
func (h *VenueHandler) ListVenues(c *gin.Context) {
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
		respondServerError(c)
		return
	}

	role, err := effectiveRole(c.Request.Context(), h.membershipRepo, userID, group)
	if err != nil {
		respondServerError(c)
		return
	}
	if !authz.CanAct(role, authz.RoleCoHost) {
		observability.IncAuthzDenial("venue.list")
		respondForbidden(c)
		return
	}

	venues, err := h.venueRepo.ListVenues(c.Request.Context(), groupID)
	if err != nil {
		respondServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"Venues": venues})
}

// CreateVenue handles POST /groups/:groupId/venues. Organizer and co-hosts
// only.
func (h *VenueHandler) CreateVenue(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	var req venueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if errs := validateVenue(req); errs != nil {
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
		observability.IncAuthzDenial("venue.create")
		h.emitAudit(c, "ERROR", "venue creation denied", groupID)
		respondForbidden(c)
		return
	}

	venue, err := h.venueRepo.CreateVenue(c.Request.Context(), models.Venue{
		GroupID: groupID,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Lat:     *req.Lat,
		Lng:     *req.Lng,
	})
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error", groupID)
		respondServerError(c)
		return
	}

	h.emitAudit(c, "INFO", "Venue created", groupID)
	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandler) emitAudit(c *gin.Context, level, text string, groupID int) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c), &groupID)
}
