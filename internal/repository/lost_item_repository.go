package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// ErrClaimConflict signals a claim attempted on an item that is no longer in
// the reported state. The conditional update makes the check race-free.
var ErrClaimConflict = fmt.Errorf("item not claimable")

// ItemFilter captures lost-and-found listing parameters.
type ItemFilter struct {
	ItemType    *domain.ItemType
	Category    *domain.ItemCategory
	Statuses    []domain.ItemStatus
	ReportedBy  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	// StaffView includes staff-only records alongside public ones.
	StaffView bool
	Limit     int
	Offset    int
}

// LostItemRepository encapsulates lost-and-found persistence.
type LostItemRepository interface {
	Create(ctx context.Context, item *domain.LostItem) error
	GetByID(ctx context.Context, id string) (*domain.LostItem, error)
	ListWithFilter(ctx context.Context, filter ItemFilter) ([]domain.LostItem, error)
	FindCandidates(ctx context.Context, item *domain.LostItem, limit int) ([]domain.LostItem, error)
	SetPotentialMatches(ctx context.Context, id string, matches []domain.PotentialMatch) error
	Claim(ctx context.Context, id, userID, description string, at time.Time) (*domain.LostItem, error)
	Resolve(ctx context.Context, id string) (*domain.LostItem, error)
	Unclaim(ctx context.Context, id string) (*domain.LostItem, error)
	Count(ctx context.Context, from, to *time.Time) (int64, error)
}

type lostItemRepository struct {
	pool *pgxpool.Pool
}

// NewLostItemRepository instantiates repository.
func NewLostItemRepository(pool *pgxpool.Pool) LostItemRepository {
	return &lostItemRepository{pool: pool}
}

const lostItemColumns = `id, item_name, description, item_type, category, location,
	last_seen_at, color, size, brand, identifying_features, estimated_value, images,
	status, claimed_by, claimed_at, claim_description, reported_by, contact_phone,
	contact_email, visibility, potential_matches, created_at, updated_at, expires_at`

func (r *lostItemRepository) Create(ctx context.Context, item *domain.LostItem) error {
	location, err := json.Marshal(item.Location)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO lost_items (item_name, description, item_type, category, location,
            last_seen_at, color, size, brand, identifying_features, estimated_value, images,
            status, reported_by, contact_phone, contact_email, visibility, expires_at)
        VALUES ($1,$2,$3,$4,$5::jsonb,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.ItemName,
		item.Description,
		item.ItemType,
		item.Category,
		string(location),
		item.LastSeenAt,
		item.Color,
		item.Size,
		item.Brand,
		item.IdentifyingFeatures,
		item.EstimatedValue,
		item.Images,
		item.Status,
		item.ReportedBy,
		item.ContactPhone,
		item.ContactEmail,
		item.Visibility,
		item.ExpiresAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *lostItemRepository) GetByID(ctx context.Context, id string) (*domain.LostItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM lost_items WHERE id=$1`, lostItemColumns)
	return r.fetchSingle(ctx, query, id)
}

// FindCandidates returns reported items of the opposite type in the same
// category, excluding the item itself. Ordering is created_at DESC with id as
// tie-break so results are deterministic.
func (r *lostItemRepository) FindCandidates(ctx context.Context, item *domain.LostItem, limit int) ([]domain.LostItem, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM lost_items
        WHERE id <> $1
          AND item_type = $2
          AND category = $3
          AND status = 'reported'
          AND visibility IN ('public', 'staff-only')
        ORDER BY created_at DESC, id DESC
        LIMIT $4`, lostItemColumns)
	rows, err := r.pool.Query(ctx, query, item.ID, item.ItemType.Opposite(), item.Category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLostItems(rows)
}

func (r *lostItemRepository) SetPotentialMatches(ctx context.Context, id string, matches []domain.PotentialMatch) error {
	encoded, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	const query = `UPDATE lost_items SET potential_matches=$2::jsonb, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id, string(encoded))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Claim conditionally transitions reported -> claimed. Returns
// ErrClaimConflict when the item exists but is not in the reported state.
func (r *lostItemRepository) Claim(ctx context.Context, id, userID, description string, at time.Time) (*domain.LostItem, error) {
	query := fmt.Sprintf(`
        UPDATE lost_items SET
            status = 'claimed',
            claimed_by = $2,
            claimed_at = $3,
            claim_description = $4,
            updated_at = NOW()
        WHERE id=$1 AND status = 'reported'
        RETURNING %s`, lostItemColumns)
	item, err := r.fetchSingle(ctx, query, id, userID, at, description)
	if err == pgx.ErrNoRows {
		// Distinguish missing record from a status conflict.
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, ErrClaimConflict
		}
		return nil, pgx.ErrNoRows
	}
	return item, err
}

func (r *lostItemRepository) Resolve(ctx context.Context, id string) (*domain.LostItem, error) {
	query := fmt.Sprintf(`
        UPDATE lost_items SET status = 'resolved', updated_at = NOW()
        WHERE id=$1
        RETURNING %s`, lostItemColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *lostItemRepository) Unclaim(ctx context.Context, id string) (*domain.LostItem, error) {
	query := fmt.Sprintf(`
        UPDATE lost_items SET
            status = 'unclaimed',
            claimed_by = NULL,
            claimed_at = NULL,
            claim_description = '',
            updated_at = NOW()
        WHERE id=$1
        RETURNING %s`, lostItemColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *lostItemRepository) ListWithFilter(ctx context.Context, filter ItemFilter) ([]domain.LostItem, error) {
	clauses := []string{}
	args := []any{}

	if filter.ReportedBy != nil {
		args = append(args, *filter.ReportedBy)
		clauses = append(clauses, fmt.Sprintf("reported_by=$%d", len(args)))
	} else if filter.StaffView {
		clauses = append(clauses, "visibility IN ('public', 'staff-only')")
	} else {
		clauses = append(clauses, "visibility = 'public'")
	}
	if filter.ItemType != nil {
		args = append(args, *filter.ItemType)
		clauses = append(clauses, fmt.Sprintf("item_type=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM lost_items WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		lostItemColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLostItems(rows)
}

func (r *lostItemRepository) Count(ctx context.Context, from, to *time.Time) (int64, error) {
	clauses, args := dateRangeClauses(from, to)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM lost_items WHERE %s`, clauses)
	var count int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *lostItemRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.LostItem, error) {
	return scanLostItem(r.pool.QueryRow(ctx, query, args...))
}

func scanLostItem(row rowScanner) (*domain.LostItem, error) {
	var item domain.LostItem
	var locationJSON, matchesJSON []byte
	var claimDescription *string
	if err := row.Scan(
		&item.ID,
		&item.ItemName,
		&item.Description,
		&item.ItemType,
		&item.Category,
		&locationJSON,
		&item.LastSeenAt,
		&item.Color,
		&item.Size,
		&item.Brand,
		&item.IdentifyingFeatures,
		&item.EstimatedValue,
		&item.Images,
		&item.Status,
		&item.ClaimedBy,
		&item.ClaimedAt,
		&claimDescription,
		&item.ReportedBy,
		&item.ContactPhone,
		&item.ContactEmail,
		&item.Visibility,
		&matchesJSON,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.ExpiresAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(locationJSON, &item.Location); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(matchesJSON, &item.PotentialMatches); err != nil {
		return nil, err
	}
	if claimDescription != nil {
		item.ClaimDescription = *claimDescription
	}
	return &item, nil
}

func scanLostItems(rows pgx.Rows) ([]domain.LostItem, error) {
	var result []domain.LostItem
	for rows.Next() {
		item, err := scanLostItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}
