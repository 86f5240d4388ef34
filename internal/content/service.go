package content

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Service wraps content block business rules with a read-through cache.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs a new Service.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Get returns one block by slug, preferring the cache.
func (s *Service) Get(ctx context.Context, slug string) (*Block, error) {
	return s.cache.Fetch(ctx, slug, func(ctx context.Context) (*Block, error) {
		return s.repo.FindBySlug(ctx, slug)
	})
}

// List returns all blocks, bypassing the cache; it is a dashboard operation.
func (s *Service) List(ctx context.Context) ([]Block, error) {
	return s.repo.List(ctx)
}

// Create inserts a new block. An empty title is derived from the slug.
func (s *Service) Create(ctx context.Context, slug, title, body string) (*Block, error) {
	if title == "" {
		title = TitleFromSlug(slug)
	}
	block, err := s.repo.Create(ctx, slug, title, body)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, slug)
	return block, nil
}

// Update rewrites an existing block and invalidates its cache entry.
func (s *Service) Update(ctx context.Context, slug, title, body string) (*Block, error) {
	if title == "" {
		title = TitleFromSlug(slug)
	}
	block, err := s.repo.Update(ctx, slug, title, body)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, slug)
	return block, nil
}

// Delete removes a block and invalidates its cache entry.
func (s *Service) Delete(ctx context.Context, slug string) error {
	if err := s.repo.Delete(ctx, slug); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, slug)
	return nil
}

// TitleFromSlug derives a display title from a slug, e.g.
// "about-the-team" becomes "About The Team".
func TitleFromSlug(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}
