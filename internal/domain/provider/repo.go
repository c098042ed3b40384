package provider

import (
	"context"
	"errors"

	"github.com/doctorwapp/provider-api/internal/platform/search"
)

var (
	// ErrNotFound is returned when no provider has the requested NPI.
	ErrNotFound = errors.New("provider not found")
	// ErrQueryTimeout is returned when a complex search exceeds its time budget.
	ErrQueryTimeout = errors.New("provider search timed out")
)

// Repository reads provider records. Implementations never write.
type Repository interface {
	// Search returns one page of providers matching pred ordered by
	// provider name, plus the total number of matches.
	Search(ctx context.Context, pred *search.Query, limit, offset int) ([]*Provider, int, error)
	GetByNPI(ctx context.Context, npi string) (*ProviderDetail, error)
	ListFilterValues(ctx context.Context) (*FilterValues, error)
}
