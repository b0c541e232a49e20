// Package homepage serves the admin-configurable list of homepage sections.
package homepage

import (
	"context"
	"log/slog"
	"time"

	"github.com/vape-shop-api/internal/domain"
)

const DefaultCacheTTL = 5 * time.Minute

type Service interface {
	// List returns every known block ordered by position, filling in
	// defaults for sections that were never saved.
	List(ctx context.Context) ([]domain.HomeBlock, error)
	// Update reorders blocks by their order in req. Sections missing from
	// req keep their relative order after the listed ones.
	Update(ctx context.Context, req domain.UpdateHomeBlocksRequest) ([]domain.HomeBlock, error)
}

type blockStore interface {
	List(ctx context.Context) ([]domain.HomeBlock, error)
	SaveAll(ctx context.Context, blocks []domain.HomeBlock) error
}

type blockCache interface {
	GetBlocks(ctx context.Context) ([]domain.HomeBlock, bool, error)
	SetBlocks(ctx context.Context, blocks []domain.HomeBlock, ttl time.Duration) error
	InvalidateBlocks(ctx context.Context) error
}

type service struct {
	store blockStore
	cache blockCache
	ttl   time.Duration
	now   func() time.Time
}

type ServiceDeps struct {
	BlockRepo blockStore
	Cache     blockCache
	CacheTTL  time.Duration
	Now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{store: deps.BlockRepo, cache: deps.Cache, ttl: deps.CacheTTL, now: deps.Now}
	if s.ttl <= 0 {
		s.ttl = DefaultCacheTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) List(ctx context.Context) ([]domain.HomeBlock, error) {
	if s.cache != nil {
		blocks, ok, err := s.cache.GetBlocks(ctx)
		if err != nil {
			slog.Warn("homepage cache read failed", "error", err)
		} else if ok {
			return blocks, nil
		}
	}
	stored, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	blocks := withDefaults(stored)
	if s.cache != nil {
		if err := s.cache.SetBlocks(ctx, blocks, s.ttl); err != nil {
			slog.Warn("homepage cache write failed", "error", err)
		}
	}
	return blocks, nil
}

func (s *service) Update(ctx context.Context, req domain.UpdateHomeBlocksRequest) ([]domain.HomeBlock, error) {
	current, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	current = withDefaults(current)
	byKey := make(map[string]domain.HomeBlock, len(current))
	for _, b := range current {
		byKey[b.Key] = b
	}

	now := s.now().UTC()
	out := make([]domain.HomeBlock, 0, len(current))
	seen := make(map[string]bool, len(req.Blocks))
	for _, in := range req.Blocks {
		if seen[in.Key] {
			continue
		}
		seen[in.Key] = true
		b := byKey[in.Key]
		b.Key = in.Key
		b.Title = in.Title
		b.Enabled = in.Enabled
		b.UpdatedAt = now
		out = append(out, b)
	}
	for _, b := range current {
		if !seen[b.Key] {
			out = append(out, b)
		}
	}
	for i := range out {
		out[i].Position = i
	}

	if err := s.store.SaveAll(ctx, out); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateBlocks(ctx); err != nil {
			slog.Warn("homepage cache invalidate failed", "error", err)
		}
	}
	return out, nil
}

// withDefaults appends an enabled block for every known key absent from
// stored, after the stored ones, and drops keys no longer recognized.
func withDefaults(stored []domain.HomeBlock) []domain.HomeBlock {
	known := make(map[string]bool, len(domain.HomeBlockKeys))
	for _, k := range domain.HomeBlockKeys {
		known[k] = true
	}
	out := make([]domain.HomeBlock, 0, len(domain.HomeBlockKeys))
	have := make(map[string]bool, len(stored))
	for _, b := range stored {
		if known[b.Key] && !have[b.Key] {
			have[b.Key] = true
			out = append(out, b)
		}
	}
	for _, k := range domain.HomeBlockKeys {
		if !have[k] {
			out = append(out, domain.HomeBlock{Key: k, Enabled: true, Position: len(out)})
		}
	}
	return out
}
