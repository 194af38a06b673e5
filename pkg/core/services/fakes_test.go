package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
)

// fakeRepo is an in-memory LinkRepository.
type fakeRepo struct {
	mu      sync.Mutex
	links   map[string]*domain.Link
	deleted map[string]bool

	// createErr, when set, is returned by Create instead of inserting.
	createErr   error
	recordErr   error
	existsCalls int
	createCalls int
	clickCalls  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		links:   make(map[string]*domain.Link),
		deleted: make(map[string]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, link *domain.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.links[link.Code]; ok {
		return domain.ErrConflict
	}
	stored := *link
	f.links[link.Code] = &stored
	return nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (*domain.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, ok := f.links[code]
	if !ok || f.deleted[code] {
		return nil, domain.ErrNotFound
	}
	copied := *link
	return &copied, nil
}

func (f *fakeRepo) Exists(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	_, ok := f.links[code]
	return ok, nil
}

func (f *fakeRepo) List(_ context.Context) ([]domain.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Link
	for code, link := range f.links {
		if !f.deleted[code] {
			out = append(out, *link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.links[code]; ok {
		f.deleted[code] = true
	}
	return nil
}

func (f *fakeRepo) RecordClick(_ context.Context, code string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clickCalls++
	if f.recordErr != nil {
		return f.recordErr
	}
	link, ok := f.links[code]
	if !ok || f.deleted[code] {
		return domain.ErrNotFound
	}
	link.TotalClicks++
	if link.LastClickedAt == nil || link.LastClickedAt.Before(at) {
		t := at
		link.LastClickedAt = &t
	}
	return nil
}

func (f *fakeRepo) Dump(ctx context.Context) ([]domain.Link, error) {
	return f.List(ctx)
}

func (f *fakeRepo) Restore(ctx context.Context, link *domain.Link) error {
	return f.Create(ctx, link)
}

// seqGenerator hands out codes in order, repeating the last one.
type seqGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (g *seqGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	if i >= len(g.codes) {
		i = len(g.codes) - 1
	}
	g.calls++
	return g.codes[i]
}
