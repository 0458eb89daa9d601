package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type ProfileRepository interface {
	// GetProfile reports found=false with a nil error when the user never saved a profile.
	GetProfile(ctx context.Context, ownerID string) (domain.Profile, bool, error)

	// UpsertProfile overwrites name, phone and address. An empty email keeps the stored one.
	UpsertProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error)
}
