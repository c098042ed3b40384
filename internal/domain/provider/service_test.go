package provider

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestService_SearchPassesPagination(t *testing.T) {
	repo := newMockRepo()
	repo.providers = []*Provider{{NPI: "1"}, {NPI: "2"}, {NPI: "3"}, {NPI: "4"}, {NPI: "5"}, {NPI: "6"}}
	repo.total = 12
	svc := NewService(repo, time.Second)

	page, err := svc.Search(context.Background(), SearchParams{State: "CA", Limit: 5, Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 5 || repo.lastOffset != 5 {
		t.Errorf("expected take 5 skip 5, got %d/%d", repo.lastLimit, repo.lastOffset)
	}
	if len(page.Providers) > page.Page.Limit {
		t.Errorf("got %d providers for limit %d", len(page.Providers), page.Page.Limit)
	}
	if page.Total != 12 || page.Page.Page != 2 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestService_ComplexSearchTimesOut(t *testing.T) {
	repo := newMockRepo()
	repo.block = make(chan struct{})
	t.Cleanup(func() { close(repo.block) })
	svc := NewService(repo, 20*time.Millisecond)

	start := time.Now()
	_, err := svc.Search(context.Background(), SearchParams{HasMedicare: true, MinServiceCount: fp(10)})
	if !errors.Is(err, ErrQueryTimeout) {
		t.Fatalf("expected ErrQueryTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took too long: %s", elapsed)
	}
}

func TestService_ComplexSearchWithinBudget(t *testing.T) {
	repo := newMockRepo()
	repo.providers = []*Provider{{NPI: "1234567890"}}
	repo.total = 1
	svc := NewService(repo, time.Second)

	page, err := svc.Search(context.Background(), SearchParams{HCPCSCode: "99213"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("expected 1 match, got %d", page.Total)
	}
}

func TestService_SimpleSearchNotBounded(t *testing.T) {
	repo := newMockRepo()
	repo.block = make(chan struct{})
	svc := NewService(repo, 10*time.Millisecond)

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(repo.block)
	}()

	if _, err := svc.Search(context.Background(), SearchParams{State: "TX"}); err != nil {
		t.Fatalf("simple search must not time out, got %v", err)
	}
}

func TestService_StorageErrorIsNotTimeout(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("connection reset")
	svc := NewService(repo, time.Second)

	_, err := svc.Search(context.Background(), SearchParams{HasMedicare: true})
	if err == nil || errors.Is(err, ErrQueryTimeout) {
		t.Fatalf("expected plain storage error, got %v", err)
	}
}

func TestService_CallerCancellation(t *testing.T) {
	repo := newMockRepo()
	repo.block = make(chan struct{})
	t.Cleanup(func() { close(repo.block) })
	svc := NewService(repo, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, SearchParams{HasMedicare: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewService_DefaultTimeout(t *testing.T) {
	svc := NewService(newMockRepo(), 0)
	if svc.complexTimeout != DefaultComplexTimeout {
		t.Errorf("expected %s, got %s", DefaultComplexTimeout, svc.complexTimeout)
	}
}
