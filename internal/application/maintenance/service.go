package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-commerce-api/internal/domain"
)

type ProductStore interface {
	ListSoftDeleted(ctx context.Context) ([]domain.Product, error)
	HardDelete(ctx context.Context, productID string) error
}

// Service runs the periodic cleanup work. Invoked both by the hourly ticker in
// the API process and by the cron-secret maintenance endpoint.
type Service interface {
	// PurgeExpired hard-deletes every soft-deleted product whose purge
	// timestamp is at or before ref. Returns the number of rows removed.
	PurgeExpired(ctx context.Context, ref time.Time) (int, error)
}

type service struct {
	products ProductStore
}

type ServiceDeps struct {
	Products ProductStore
}

func NewService(deps ServiceDeps) Service {
	return &service{products: deps.Products}
}

func (s *service) PurgeExpired(ctx context.Context, ref time.Time) (int, error) {
	candidates, err := s.products.ListSoftDeleted(ctx)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, p := range candidates {
		if p.DeletedAt == nil || p.DeletedAt.After(ref) {
			continue
		}
		if err := s.products.HardDelete(ctx, p.ProductID); err != nil {
			// Keep sweeping; a failed row is retried on the next run.
			slog.Warn("failed to purge product", "product_id", p.ProductID, "err", err)
			continue
		}
		purged++
	}
	return purged, nil
}
