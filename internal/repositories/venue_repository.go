package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"meetup-service/internal/models"
)

var ErrVenueNotFound = errors.New("venue not found")

// VenueRepository abstracts venue persistence.
type VenueRepository interface {
	CreateVenue(ctx context.Context, venue models.Venue) (models.Venue, error)
	GetVenue(ctx context.Context, venueID int) (models.Venue, error)
	ListVenues(ctx context.Context, groupID int) ([]models.Venue, error)
}

// VenueRepo is a sqlx implementation of VenueRepository.
type VenueRepo struct {
	db *sqlx.DB
}

// NewVenueRepo constructs a VenueRepo.
func NewVenueRepo(db *sqlx.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, group_id, address, city, state, lat, lng`

// CreateVenue inserts a venue for venue.GroupID.
func (r *VenueRepo) CreateVenue(ctx context.Context, venue models.Venue) (models.Venue, error) {
	var created models.Venue
	err := r.db.GetContext(ctx, &created,
		`INSERT INTO venues (group_id, address, city, state, lat, lng)
         VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+venueColumns,
		venue.GroupID, venue.Address, venue.City, venue.State, venue.Lat, venue.Lng)
	return created, err
}

// GetVenue fetches a single venue.
func (r *VenueRepo) GetVenue(ctx context.Context, venueID int) (models.Venue, error) {
	var venue models.Venue
	err := r.db.GetContext(ctx, &venue, `SELECT `+venueColumns+` FROM venues WHERE id=$1`, venueID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Venue{}, ErrVenueNotFound
	}
	return venue, err
}

// ListVenues returns a group's venues.
func (r *VenueRepo) ListVenues(ctx context.Context, groupID int) ([]models.Venue, error) {
	venues := []models.Venue{}
	err := r.db.SelectContext(ctx, &venues,
		`SELECT `+venueColumns+` FROM venues WHERE group_id=$1 ORDER BY id`, groupID)
	return venues, err
}
