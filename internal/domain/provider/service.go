package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doctorwapp/provider-api/pkg/pagination"
)

// DefaultComplexTimeout bounds complex Medicare searches when no budget is configured.
const DefaultComplexTimeout = 10 * time.Second

// SearchPage is one page of search matches.
type SearchPage struct {
	Providers []*Provider
	Total     int
	Page      pagination.Params
}

type Service struct {
	repo           Repository
	complexTimeout time.Duration
}

func NewService(repo Repository, complexTimeout time.Duration) *Service {
	if complexTimeout <= 0 {
		complexTimeout = DefaultComplexTimeout
	}
	return &Service{repo: repo, complexTimeout: complexTimeout}
}

// Search translates params and runs the search. Complex searches fail with
// ErrQueryTimeout once the time budget is spent; simple ones are unbounded.
func (s *Service) Search(ctx context.Context, params SearchParams) (*SearchPage, error) {
	q := Translate(params)

	var (
		providers []*Provider
		total     int
		err       error
	)
	if q.Complex {
		providers, total, err = s.searchBounded(ctx, q)
	} else {
		providers, total, err = s.repo.Search(ctx, q.Predicate, q.Page.Limit, q.Page.Offset())
	}
	if err != nil {
		return nil, err
	}
	return &SearchPage{Providers: providers, Total: total, Page: q.Page}, nil
}

type searchResult struct {
	providers []*Provider
	total     int
	err       error
}

// searchBounded races the repository call against the complex-query timer.
// When the timer wins the result is abandoned; the query itself is only
// cancelled through its context.
func (s *Service) searchBounded(ctx context.Context, q Query) ([]*Provider, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.complexTimeout)
	defer cancel()

	done := make(chan searchResult, 1)
	go func() {
		providers, total, err := s.repo.Search(ctx, q.Predicate, q.Page.Limit, q.Page.Offset())
		done <- searchResult{providers: providers, total: total, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, 0, fmt.Errorf("%w: %v", ErrQueryTimeout, r.err)
		}
		return r.providers, r.total, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, 0, fmt.Errorf("%w after %s", ErrQueryTimeout, s.complexTimeout)
		}
		return nil, 0, ctx.Err()
	}
}

func (s *Service) GetByNPI(ctx context.Context, npi string) (*ProviderDetail, error) {
	return s.repo.GetByNPI(ctx, npi)
}

func (s *Service) ListFilterValues(ctx context.Context) (*FilterValues, error) {
	return s.repo.ListFilterValues(ctx)
}
