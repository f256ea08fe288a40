package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/life-bridge/internal/domain"
)

// DonationFilter narrows donation listings.
type DonationFilter struct {
	DonorID *string
}

// DonationRepository encapsulates donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	Update(ctx context.Context, donation *domain.Donation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Donation, error)
	List(ctx context.Context, filter DonationFilter) ([]domain.Donation, error)
	// CreateForPickup inserts donation unless a donation already exists for
	// the same donor at the same available date and time, or for the same
	// pickup. It reports whether a row was written.
	CreateForPickup(ctx context.Context, donation *domain.Donation) (bool, error)
	CountByStatus(ctx context.Context) (map[domain.DonationStatus]int, error)
}

type donationRepository struct {
	pool *pgxpool.Pool
}

// NewDonationRepository instantiates repository.
func NewDonationRepository(pool *pgxpool.Pool) DonationRepository {
	return &donationRepository{pool: pool}
}

const donationColumns = `id, blood_group, units, location, available_date, available_time,
               donor_id, status, recipient_id, pickup_id, created_at, updated_at`

func (r *donationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	const query = `
        INSERT INTO donations (blood_group, units, location, available_date, available_time,
                               donor_id, status, recipient_id, pickup_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		donation.BloodGroup,
		donation.Units,
		donation.Location,
		donation.AvailableDate,
		donation.AvailableTime,
		donation.DonorID,
		donation.Status,
		donation.RecipientID,
		donation.PickupID,
	).Scan(&donation.ID, &donation.CreatedAt, &donation.UpdatedAt)
}

func (r *donationRepository) CreateForPickup(ctx context.Context, donation *domain.Donation) (bool, error) {
	const query = `
        INSERT INTO donations (blood_group, units, location, available_date, available_time,
                               donor_id, status, recipient_id, pickup_id)
        SELECT $1::text, $2::int, $3::text, $4::text, $5::text, $6::uuid, $7::text, $8::uuid, $9::uuid
        WHERE NOT EXISTS (
            SELECT 1 FROM donations
            WHERE donor_id=$6::uuid AND available_date=$4::text AND available_time=$5::text
        )
        ON CONFLICT (pickup_id) DO NOTHING
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		donation.BloodGroup,
		donation.Units,
		donation.Location,
		donation.AvailableDate,
		donation.AvailableTime,
		donation.DonorID,
		donation.Status,
		donation.RecipientID,
		donation.PickupID,
	).Scan(&donation.ID, &donation.CreatedAt, &donation.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *donationRepository) Update(ctx context.Context, donation *domain.Donation) error {
	const query = `
        UPDATE donations SET status=$1, recipient_id=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		donation.Status,
		donation.RecipientID,
		donation.ID,
	).Scan(&donation.UpdatedAt)
}

func (r *donationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM donations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *donationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id=$1`
	return scanDonation(r.pool.QueryRow(ctx, query, id))
}

func (r *donationRepository) List(ctx context.Context, filter DonationFilter) ([]domain.Donation, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.DonorID != nil {
		args = append(args, *filter.DonorID)
		clauses = append(clauses, fmt.Sprintf("donor_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM donations WHERE %s ORDER BY created_at DESC`,
		donationColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *donation)
	}
	return result, rows.Err()
}

func (r *donationRepository) CountByStatus(ctx context.Context) (map[domain.DonationStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM donations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.DonationStatus]int, len(domain.DonationStatuses))
	for rows.Next() {
		var (
			status domain.DonationStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var donation domain.Donation
	if err := row.Scan(
		&donation.ID,
		&donation.BloodGroup,
		&donation.Units,
		&donation.Location,
		&donation.AvailableDate,
		&donation.AvailableTime,
		&donation.DonorID,
		&donation.Status,
		&donation.RecipientID,
		&donation.PickupID,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &donation, nil
}
