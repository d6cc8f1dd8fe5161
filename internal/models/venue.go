package models

// Venue is a meeting place belonging to exactly one group.
type Venue struct {
	ID      int     `db:"id" json:"id"`
	GroupID int     `db:"group_id" json:"groupId"`
	Address string  `db:"address" json:"address"`
	City    string  `db:"city" json:"city"`
	State   string  `db:"state" json:"state"`
	Lat     float64 `db:"lat" json:"lat"`
	Lng     float64 `db:"lng" json:"lng"`
}
