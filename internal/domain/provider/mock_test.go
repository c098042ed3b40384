package provider

import (
	"context"
	"sync"

	"github.com/doctorwapp/provider-api/internal/platform/search"
)

type mockRepo struct {
	mu        sync.Mutex
	providers []*Provider
	total     int
	details   map[string]*ProviderDetail
	filters   *FilterValues
	err       error
	// block, when set, makes Search wait until it is closed, ignoring ctx.
	block chan struct{}

	lastPred   *search.Query
	lastLimit  int
	lastOffset int
}

func newMockRepo() *mockRepo {
	return &mockRepo{details: make(map[string]*ProviderDetail)}
}

func (m *mockRepo) Search(_ context.Context, pred *search.Query, limit, offset int) ([]*Provider, int, error) {
	m.mu.Lock()
	m.lastPred, m.lastLimit, m.lastOffset = pred, limit, offset
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.err != nil {
		return nil, 0, m.err
	}
	end := limit
	if end > len(m.providers) {
		end = len(m.providers)
	}
	return m.providers[:end], m.total, nil
}

func (m *mockRepo) GetByNPI(_ context.Context, npi string) (*ProviderDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.details[npi]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) ListFilterValues(context.Context) (*FilterValues, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.filters == nil {
		return &FilterValues{States: []string{}, Specialties: []string{}}, nil
	}
	return m.filters, nil
}

func sp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }
func ip(i int) *int { return &i }
func i64p(i int64) *int64 { return &i }
