package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type profileRepository struct {
	q *db.Queries
}

func NewProfile(pool *pgxpool.Pool) port.ProfileRepository {
	return &profileRepository{
		q: db.New(pool),
	}
}

func (r *profileRepository) GetProfile(ctx context.Context, ownerID string) (domain.Profile, bool, error) {
	if ownerID == "" {
		return domain.Profile{}, false, errors.New("ownerID is empty")
	}

	row, err := r.q.GetProfile(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, false, nil
		}
		return domain.Profile{}, false, fmt.Errorf("q.GetProfile: %w", err)
	}

	return mapDBProfileToDomain(row), true, nil
}

func (r *profileRepository) UpsertProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	profile = profile.Trimmed()
	if profile.OwnerID == "" {
		return domain.Profile{}, errors.New("ownerID is empty")
	}

	row, err := r.q.UpsertProfile(ctx, db.UpsertProfileParams{
		OwnerID: profile.OwnerID,
		Name:    profile.Name,
		Phone:   profile.Phone,
		Address: profile.Address,
		Email:   profile.Email,
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("q.UpsertProfile: %w", err)
	}

	return mapDBProfileToDomain(row), nil
}

func mapDBProfileToDomain(row db.Profile) domain.Profile {
	return domain.Profile{
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Phone:     row.Phone,
		Address:   row.Address,
		Email:     row.Email,
		UpdatedAt: row.UpdatedAt,
	}
}
