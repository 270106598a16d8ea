package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	models "socialnet/model"
	"socialnet/pkg/apierror"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error)
	GetByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*models.Profile, error)
	Update(ctx context.Context, ownerID uuid.UUID, input *models.UpdateProfileInput) (*models.Profile, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id, owner, first_name, last_name, bio, dob, location,
	created_at, updated_at`

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, owner, first_name, last_name, bio, dob, location,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Owner, profile.FirstName, profile.LastName,
		profile.Bio, profile.DOB, profile.Location,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apierror.Conflict("profile already exists for this user")
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner = $1`

	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, query, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NotFound("user profile does not exist")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*models.Profile, error) {
	if len(ownerIDs) == 0 {
		return []*models.Profile{}, nil
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner = ANY($1)`

	var profiles []*models.Profile
	err := r.db.SelectContext(ctx, &profiles, query, pq.Array(ownerIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles by owners: %w", err)
	}
	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, ownerID uuid.UUID, input *models.UpdateProfileInput) (*models.Profile, error) {
	query := "UPDATE profiles SET updated_at = NOW()"
	args := []interface{}{}
	argCount := 1

	if input.FirstName != nil {
		query += fmt.Sprintf(", first_name = $%d", argCount)
		args = append(args, *input.FirstName)
		argCount++
	}

	if input.LastName != nil {
		query += fmt.Sprintf(", last_name = $%d", argCount)
		args = append(args, *input.LastName)
		argCount++
	}

	if input.Bio != nil {
		query += fmt.Sprintf(", bio = $%d", argCount)
		args = append(args, *input.Bio)
		argCount++
	}

	if input.DOB != nil {
		query += fmt.Sprintf(", dob = $%d", argCount)
		args = append(args, *input.DOB)
		argCount++
	}

	if input.Location != nil {
		query += fmt.Sprintf(", location = $%d", argCount)
		args = append(args, *input.Location)
		argCount++
	}

	query += fmt.Sprintf(" WHERE owner = $%d RETURNING ", argCount) + profileColumns
	args = append(args, ownerID)

	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NotFound("user profile does not exist")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &profile, nil
}
