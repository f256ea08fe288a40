package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/life-bridge/internal/domain"
)

// PickupFilter narrows pickup listings.
type PickupFilter struct {
	DonorID   *string
	RequestID *string
	Status    *domain.PickupStatus
}

// PickupRepository encapsulates pickup persistence.
type PickupRepository interface {
	Create(ctx context.Context, pickup *domain.Pickup) error
	Update(ctx context.Context, pickup *domain.Pickup) error
	GetByID(ctx context.Context, id string) (*domain.Pickup, error)
	List(ctx context.Context, filter PickupFilter) ([]domain.Pickup, error)
	CountByStatus(ctx context.Context) (map[domain.PickupStatus]int, error)
}

type pickupRepository struct {
	pool *pgxpool.Pool
}

// NewPickupRepository instantiates repository.
func NewPickupRepository(pool *pgxpool.Pool) PickupRepository {
	return &pickupRepository{pool: pool}
}

const pickupColumns = `id, donor_id, request_id, pickup_date, pickup_time, location, status, created_at, updated_at`

func (r *pickupRepository) Create(ctx context.Context, pickup *domain.Pickup) error {
	const query = `
        INSERT INTO pickups (donor_id, request_id, pickup_date, pickup_time, location, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		pickup.DonorID,
		pickup.RequestID,
		pickup.Date,
		pickup.Time,
		pickup.Location,
		pickup.Status,
	).Scan(&pickup.ID, &pickup.CreatedAt, &pickup.UpdatedAt)
}

func (r *pickupRepository) Update(ctx context.Context, pickup *domain.Pickup) error {
	const query = `
        UPDATE pickups SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, pickup.Status, pickup.ID).Scan(&pickup.UpdatedAt)
}

func (r *pickupRepository) GetByID(ctx context.Context, id string) (*domain.Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickups WHERE id=$1`
	return scanPickup(r.pool.QueryRow(ctx, query, id))
}

func (r *pickupRepository) List(ctx context.Context, filter PickupFilter) ([]domain.Pickup, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.DonorID != nil {
		args = append(args, *filter.DonorID)
		clauses = append(clauses, fmt.Sprintf("donor_id=$%d", len(args)))
	}
	if filter.RequestID != nil {
		args = append(args, *filter.RequestID)
		clauses = append(clauses, fmt.Sprintf("request_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM pickups WHERE %s ORDER BY created_at DESC`,
		pickupColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Pickup
	for rows.Next() {
		pickup, err := scanPickup(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *pickup)
	}
	return result, rows.Err()
}

func (r *pickupRepository) CountByStatus(ctx context.Context) (map[domain.PickupStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM pickups GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.PickupStatus]int, len(domain.PickupStatuses))
	for rows.Next() {
		var (
			status domain.PickupStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanPickup(row pgx.Row) (*domain.Pickup, error) {
	var pickup domain.Pickup
	if err := row.Scan(
		&pickup.ID,
		&pickup.DonorID,
		&pickup.RequestID,
		&pickup.Date,
		&pickup.Time,
		&pickup.Location,
		&pickup.Status,
		&pickup.CreatedAt,
		&pickup.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &pickup, nil
}
