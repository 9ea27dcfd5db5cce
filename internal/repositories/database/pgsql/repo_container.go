package pgsql

import (
	portsrepo "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		SubscriptionRepo: newPgxSubscriptionRepository(dbPool),
	}
}
