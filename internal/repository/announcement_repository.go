package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// AnnouncementFilter captures listing parameters.
type AnnouncementFilter struct {
	Category       *string
	Priority       *domain.IssuePriority
	TargetAudience *domain.AnnouncementAudience
	Limit          int
	Offset         int
}

// AnnouncementRepository defines persistence access for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *domain.Announcement) error
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	ListWithFilter(ctx context.Context, filter AnnouncementFilter) ([]domain.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository returns a Postgres-backed implementation.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

const announcementColumns = `id, title, body, category, priority, target_audience, created_by, created_at, updated_at`

func (r *announcementRepository) Create(ctx context.Context, announcement *domain.Announcement) error {
	const query = `
        INSERT INTO announcements (title, body, category, priority, target_audience, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		announcement.Title,
		announcement.Body,
		announcement.Category,
		announcement.Priority,
		announcement.TargetAudience,
		announcement.CreatedBy,
	).Scan(&announcement.ID, &announcement.CreatedAt, &announcement.UpdatedAt)
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	var a domain.Announcement
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id=$1`
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Body, &a.Category, &a.Priority, &a.TargetAudience,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) ListWithFilter(ctx context.Context, filter AnnouncementFilter) ([]domain.Announcement, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.TargetAudience != nil {
		// Announcements addressed to everyone are always included.
		args = append(args, *filter.TargetAudience)
		clauses = append(clauses, fmt.Sprintf("target_audience IN ('all', $%d)", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM announcements WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		announcementColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Body, &a.Category, &a.Priority, &a.TargetAudience,
			&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
