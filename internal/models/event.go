package models

import "time"

// Event belongs to exactly one group and optionally references one of the
// group's venues.
type Event struct {
	ID           int       `db:"id" json:"id"`
	GroupID      int       `db:"group_id" json:"groupId"`
	VenueID      *int      `db:"venue_id" json:"venueId"`
	Name         string    `db:"name" json:"name"`
	Type         string    `db:"type" json:"type"`
	Capacity     *int      `db:"capacity" json:"capacity,omitempty"`
	Price        int       `db:"price" json:"price"`
	Description  string    `db:"description" json:"description"`
	StartDate    time.Time `db:"start_date" json:"startDate"`
	EndDate      time.Time `db:"end_date" json:"endDate"`
	PreviewImage string    `db:"preview_image" json:"previewImage"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// EventSummary is an event row augmented with its attendance count and
// the group/venue summaries the listing endpoint embeds.
type EventSummary struct {
	Event
	NumAttending int         `db:"num_attending" json:"numAttending"`
	Group        *GroupBrief `json:"Group,omitempty"`
	Venue        *VenueBrief `json:"Venue,omitempty"`
}

// GroupBrief is the abbreviated group shape embedded in event listings.
type GroupBrief struct {
	ID    int    `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	City  string `db:"city" json:"city"`
	State string `db:"state" json:"state"`
}

// VenueBrief is the abbreviated venue shape embedded in event listings.
type VenueBrief struct {
	ID    int    `db:"id" json:"id"`
	City  string `db:"city" json:"city"`
	State string `db:"state" json:"state"`
}
