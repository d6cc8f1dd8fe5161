package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"meetup-service/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository abstracts group persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group models.Group) (models.Group, error)
	ListGroups(ctx context.Context) ([]models.GroupSummary, error)
	ListGroupsByOrganizer(ctx context.Context, organizerID int) ([]models.GroupSummary, error)
	GetGroup(ctx context.Context, groupID int) (models.Group, error)
	GetGroupDetail(ctx context.Context, groupID int) (models.GroupDetail, error)
	UpdateGroup(ctx context.Context, group models.Group) (models.Group, error)
	DeleteGroup(ctx context.Context, groupID int) error
	AddImage(ctx context.Context, groupID int, url string, preview bool) (models.GroupImage, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

const groupColumns = `id, organizer_id, name, about, type, private, city, state, preview_image, created_at, updated_at`

// memberCount counts approved memberships; pending requests are not members.
const memberCount = `(SELECT COUNT(*) FROM memberships m WHERE m.group_id = g.id AND m.status <> 'pending') AS num_members`

// CreateGroup inserts a group owned by group.OrganizerID.
func (r *GroupRepo) CreateGroup(ctx context.Context, group models.Group) (models.Group, error) {
	var created models.Group
	err := r.db.GetContext(ctx, &created,
		`INSERT INTO groups (organizer_id, name, about, type, private, city, state, preview_image)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+groupColumns,
		group.OrganizerID, group.Name, group.About, group.Type, group.Private, group.City, group.State, group.PreviewImage)
	return created, err
}

// ListGroups returns all groups with their member counts.
func (r *GroupRepo) ListGroups(ctx context.Context) ([]models.GroupSummary, error) {
	var groups []models.GroupSummary
	err := r.db.SelectContext(ctx, &groups,
		`SELECT g.id, g.organizer_id, g.name, g.about, g.type, g.private, g.city, g.state, g.preview_image, g.created_at, g.updated_at, `+memberCount+`
         FROM groups g ORDER BY g.created_at DESC`)
	return groups, err
}

// ListGroupsByOrganizer returns the groups a user organizes.
func (r *GroupRepo) ListGroupsByOrganizer(ctx context.Context, organizerID int) ([]models.GroupSummary, error) {
	var groups []models.GroupSummary
	err := r.db.SelectContext(ctx, &groups,
		`SELECT g.id, g.organizer_id, g.name, g.about, g.type, g.private, g.city, g.state, g.preview_image, g.created_at, g.updated_at, `+memberCount+`
         FROM groups g WHERE g.organizer_id=$1 ORDER BY g.created_at DESC`, organizerID)
	return groups, err
}

// GetGroup fetches a single group row.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT `+groupColumns+` FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// GetGroupDetail fetches a group with its organizer, images, venues and
// member count.
func (r *GroupRepo) GetGroupDetail(ctx context.Context, groupID int) (models.GroupDetail, error) {
	group, err := r.GetGroup(ctx, groupID)
	if err != nil {
		return models.GroupDetail{}, err
	}

	detail := models.GroupDetail{Group: group, Images: []models.GroupImage{}, Venues: []models.Venue{}}

	if err := r.db.GetContext(ctx, &detail.NumMembers,
		`SELECT COUNT(*) FROM memberships WHERE group_id=$1 AND status <> 'pending'`, groupID); err != nil {
		return models.GroupDetail{}, err
	}

	var organizer models.User
	if err := r.db.GetContext(ctx, &organizer,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, group.OrganizerID); err == nil {
		detail.Organizer = &organizer
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.GroupDetail{}, err
	}

	if err := r.db.SelectContext(ctx, &detail.Images,
		`SELECT id, group_id, url, preview FROM group_images WHERE group_id=$1 ORDER BY id`, groupID); err != nil {
		return models.GroupDetail{}, err
	}

	if err := r.db.SelectContext(ctx, &detail.Venues,
		`SELECT id, group_id, address, city, state, lat, lng FROM venues WHERE group_id=$1 ORDER BY id`, groupID); err != nil {
		return models.GroupDetail{}, err
	}

	return detail, nil
}

// UpdateGroup persists the mutable group fields.
func (r *GroupRepo) UpdateGroup(ctx context.Context, group models.Group) (models.Group, error) {
	var updated models.Group
	err := r.db.GetContext(ctx, &updated,
		`UPDATE groups SET name=$1, about=$2, type=$3, private=$4, city=$5, state=$6, updated_at=NOW()
         WHERE id=$7 RETURNING `+groupColumns,
		group.Name, group.About, group.Type, group.Private, group.City, group.State, group.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return updated, err
}

// DeleteGroup removes a group; venues, events, images and memberships
// cascade at the schema level.
func (r *GroupRepo) DeleteGroup(ctx context.Context, groupID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id=$1`, groupID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// AddImage attaches an image to a group.
func (r *GroupRepo) AddImage(ctx context.Context, groupID int, url string, preview bool) (models.GroupImage, error) {
	var image models.GroupImage
	err := r.db.GetContext(ctx, &image,
		`INSERT INTO group_images (group_id, url, preview) VALUES ($1, $2, $3)
         RETURNING id, group_id, url, preview`, groupID, url, preview)
	return image, err
}
