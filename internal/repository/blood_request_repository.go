package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/life-bridge/internal/domain"
)

// BloodRequestFilter narrows request listings.
type BloodRequestFilter struct {
	BloodGroup              *domain.BloodGroup
	RequestedBy             *string
	ExcludeCompletedPickups bool
}

// BloodRequestRepository encapsulates blood request persistence.
type BloodRequestRepository interface {
	Create(ctx context.Context, request *domain.BloodRequest) error
	GetByID(ctx context.Context, id string) (*domain.BloodRequest, error)
	List(ctx context.Context, filter BloodRequestFilter) ([]domain.BloodRequest, error)
	Count(ctx context.Context) (int, error)
}

type bloodRequestRepository struct {
	pool *pgxpool.Pool
}

// NewBloodRequestRepository instantiates repository.
func NewBloodRequestRepository(pool *pgxpool.Pool) BloodRequestRepository {
	return &bloodRequestRepository{pool: pool}
}

func (r *bloodRequestRepository) Create(ctx context.Context, request *domain.BloodRequest) error {
	const query = `
        INSERT INTO blood_requests (blood_group, units, location, requested_by)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		request.BloodGroup,
		request.Units,
		request.Location,
		request.RequestedBy,
	).Scan(&request.ID, &request.CreatedAt)
}

func (r *bloodRequestRepository) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	const query = `
        SELECT id, blood_group, units, location, requested_by, created_at
        FROM blood_requests WHERE id=$1`
	return scanBloodRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *bloodRequestRepository) List(ctx context.Context, filter BloodRequestFilter) ([]domain.BloodRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.BloodGroup != nil {
		args = append(args, *filter.BloodGroup)
		clauses = append(clauses, fmt.Sprintf("br.blood_group=$%d", len(args)))
	}
	if filter.RequestedBy != nil {
		args = append(args, *filter.RequestedBy)
		clauses = append(clauses, fmt.Sprintf("br.requested_by=$%d", len(args)))
	}
	if filter.ExcludeCompletedPickups {
		args = append(args, domain.PickupStatusCompleted)
		clauses = append(clauses, fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM pickups p WHERE p.request_id=br.id AND p.status=$%d)", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT br.id, br.blood_group, br.units, br.location, br.requested_by, br.created_at
        FROM blood_requests br WHERE %s ORDER BY br.created_at DESC`, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BloodRequest
	for rows.Next() {
		request, err := scanBloodRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *request)
	}
	return result, rows.Err()
}

func (r *bloodRequestRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blood_requests`).Scan(&count)
	return count, err
}

func scanBloodRequest(row pgx.Row) (*domain.BloodRequest, error) {
	var request domain.BloodRequest
	if err := row.Scan(
		&request.ID,
		&request.BloodGroup,
		&request.Units,
		&request.Location,
		&request.RequestedBy,
		&request.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}
