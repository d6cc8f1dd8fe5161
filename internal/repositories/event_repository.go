package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"meetup-service/internal/models"
)

// EventRepository abstracts event persistence.
type EventRepository interface {
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	ListGroupEvents(ctx context.Context, groupID int) ([]models.EventSummary, error)
}

// EventRepo is a sqlx implementation of EventRepository.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `id, group_id, venue_id, name, type, capacity, price, description, start_date, end_date, preview_image, created_at, updated_at`

// CreateEvent inserts an event for event.GroupID.
func (r *EventRepo) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	var created models.Event
	err := r.db.GetContext(ctx, &created,
		`INSERT INTO events (group_id, venue_id, name, type, capacity, price, description, start_date, end_date, preview_image)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING `+eventColumns,
		event.GroupID, event.VenueID, event.Name, event.Type, event.Capacity, event.Price,
		event.Description, event.StartDate, event.EndDate, event.PreviewImage)
	return created, err
}

// ListGroupEvents returns a group's events with attendance counts. Capacity
// is left out of listings.
func (r *EventRepo) ListGroupEvents(ctx context.Context, groupID int) ([]models.EventSummary, error) {
	events := []models.EventSummary{}
	err := r.db.SelectContext(ctx, &events,
		`SELECT e.id, e.group_id, e.venue_id, e.name, e.type, e.price, e.description,
                e.start_date, e.end_date, e.preview_image,
                (SELECT COUNT(*) FROM attendances a WHERE a.event_id = e.id) AS num_attending
         FROM events e WHERE e.group_id=$1 ORDER BY e.start_date`, groupID)
	return events, err
}
