package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"meetup-service/internal/models"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMembershipExists   = errors.New("membership already exists")
	// ErrStatusConflict means the row's status no longer matched the status
	// the caller validated against; the write was not applied.
	ErrStatusConflict = errors.New("membership status changed concurrently")
)

// MembershipRepository abstracts membership persistence. Status changes go
// through UpdateStatusFrom, which re-checks the current status under a row
// lock so a decision made on a stale read is never applied.
type MembershipRepository interface {
	GetMembership(ctx context.Context, groupID, userID int) (models.Membership, error)
	RequestMembership(ctx context.Context, groupID, userID int) (models.Membership, error)
	UpdateStatusFrom(ctx context.Context, groupID, userID int, from, to models.MembershipStatus) (models.Membership, error)
	DeleteMembership(ctx context.Context, groupID, userID int) error
	ListMembers(ctx context.Context, groupID int, includePending bool) ([]models.Member, error)
}

// MembershipRepo is a sqlx implementation of MembershipRepository.
type MembershipRepo struct {
	db *sqlx.DB
}

// NewMembershipRepo constructs a MembershipRepo.
func NewMembershipRepo(db *sqlx.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

const membershipColumns = `id, group_id, user_id, status, created_at, updated_at`

// GetMembership fetches the unique row for a (group, user) pair.
func (r *MembershipRepo) GetMembership(ctx context.Context, groupID, userID int) (models.Membership, error) {
	var membership models.Membership
	err := r.db.GetContext(ctx, &membership,
		`SELECT `+membershipColumns+` FROM memberships WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Membership{}, ErrMembershipNotFound
	}
	return membership, err
}

// RequestMembership creates a pending membership. The UNIQUE(group_id,
// user_id) constraint makes concurrent duplicate requests lose; the loser
// gets ErrMembershipExists.
func (r *MembershipRepo) RequestMembership(ctx context.Context, groupID, userID int) (models.Membership, error) {
	var membership models.Membership
	err := r.db.GetContext(ctx, &membership,
		`INSERT INTO memberships (group_id, user_id, status) VALUES ($1, $2, 'pending')
         RETURNING `+membershipColumns, groupID, userID)
	if isUniqueViolation(err) {
		return models.Membership{}, ErrMembershipExists
	}
	return membership, err
}

// UpdateStatusFrom moves a membership from one status to another. The row is
// re-read under FOR UPDATE inside a transaction; if its status is no longer
// `from`, nothing is written and ErrStatusConflict is returned.
func (r *MembershipRepo) UpdateStatusFrom(ctx context.Context, groupID, userID int, from, to models.MembershipStatus) (models.Membership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Membership{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var membership models.Membership
	err = tx.GetContext(ctx, &membership,
		`SELECT `+membershipColumns+` FROM memberships WHERE group_id=$1 AND user_id=$2 FOR UPDATE`, groupID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrMembershipNotFound
		return models.Membership{}, err
	}
	if err != nil {
		return models.Membership{}, err
	}

	if membership.Status != from {
		err = ErrStatusConflict
		return models.Membership{}, err
	}

	err = tx.GetContext(ctx, &membership,
		`UPDATE memberships SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING `+membershipColumns,
		to, membership.ID)
	if err != nil {
		return models.Membership{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Membership{}, err
	}
	return membership, nil
}

// DeleteMembership removes the row for a (group, user) pair.
func (r *MembershipRepo) DeleteMembership(ctx context.Context, groupID, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// ListMembers returns a group's members joined with their identities.
// Pending rows are included only when includePending is set.
func (r *MembershipRepo) ListMembers(ctx context.Context, groupID int, includePending bool) ([]models.Member, error) {
	query := `SELECT u.id, u.first_name, u.last_name, m.status
              FROM memberships m INNER JOIN users u ON u.id = m.user_id
              WHERE m.group_id=$1`
	if !includePending {
		query += ` AND m.status <> 'pending'`
	}
	query += ` ORDER BY u.id`

	members := []models.Member{}
	err := r.db.SelectContext(ctx, &members, query, groupID)
	return members, err
}
