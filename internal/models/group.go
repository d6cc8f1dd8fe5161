package models

import "time"

// GroupType is the meeting format of a group or event.
const (
	GroupTypeOnline   = "Online"
	GroupTypeInPerson = "In person"
)

// Group is owned by exactly one user, its organizer. Venues, events, images
// and memberships are children of the group and are removed with it.
type Group struct {
	ID           int       `db:"id" json:"id"`
	OrganizerID  int       `db:"organizer_id" json:"organizerId"`
	Name         string    `db:"name" json:"name"`
	About        string    `db:"about" json:"about"`
	Type         string    `db:"type" json:"type"`
	Private      bool      `db:"private" json:"private"`
	City         string    `db:"city" json:"city"`
	State        string    `db:"state" json:"state"`
	PreviewImage *string   `db:"preview_image" json:"previewImage,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// GroupSummary is a group row augmented with its member count.
type GroupSummary struct {
	Group
	NumMembers int `db:"num_members" json:"numMembers"`
}

// GroupDetail is the full single-group response.
type GroupDetail struct {
	Group
	NumMembers int          `json:"numMembers"`
	Organizer  *User        `json:"Organizer,omitempty"`
	Images     []GroupImage `json:"GroupImages"`
	Venues     []Venue      `json:"Venues"`
}

// GroupImage belongs to exactly one group.
type GroupImage struct {
	ID      int    `db:"id" json:"id"`
	GroupID int    `db:"group_id" json:"-"`
	URL     string `db:"url" json:"url"`
	Preview bool   `db:"preview" json:"preview"`
}
