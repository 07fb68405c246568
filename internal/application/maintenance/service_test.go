package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-commerce-api/internal/domain"
)

type fakeProductStore struct {
	softDeleted []domain.Product
	purged      []string
}

func (f *fakeProductStore) ListSoftDeleted(_ context.Context) ([]domain.Product, error) {
	return f.softDeleted, nil
}

func (f *fakeProductStore) HardDelete(_ context.Context, productID string) error {
	f.purged = append(f.purged, productID)
	return nil
}

func ts(t time.Time) *time.Time { return &t }

func TestPurgeExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeProductStore{softDeleted: []domain.Product{
		{ProductID: "p-past", IsDeleted: true, DeletedAt: ts(now.Add(-time.Hour))},
		{ProductID: "p-exact", IsDeleted: true, DeletedAt: ts(now)},
		{ProductID: "p-future", IsDeleted: true, DeletedAt: ts(now.Add(time.Hour))},
		{ProductID: "p-no-ts", IsDeleted: true},
	}}
	svc := NewService(ServiceDeps{Products: store})

	purged, err := svc.PurgeExpired(context.Background(), now)
	require.NoError(t, err)

	// Only rows whose purge timestamp has arrived go; a row still inside its
	// retention window survives, as does one with no timestamp at all.
	assert.Equal(t, 2, purged)
	assert.ElementsMatch(t, []string{"p-past", "p-exact"}, store.purged)
}

func TestPurgeExpiredEmpty(t *testing.T) {
	store := &fakeProductStore{}
	svc := NewService(ServiceDeps{Products: store})

	purged, err := svc.PurgeExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, purged)
	assert.Empty(t, store.purged)
}
