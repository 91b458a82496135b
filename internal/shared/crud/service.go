package crud

import (
	"context"
	"time"

	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/pkg/cache"
	"clubsite-backend/pkg/logger"

	"github.com/google/uuid"
)

const defaultPublicTTL = 5 * time.Minute

// Service runs the editor flow for one resource kind.
type Service[T Record, D Draft, P Patch] struct {
	kind  string
	repo  Repository[T, D, P]
	media MediaDiscarder

	cache     cache.Cache
	publicTTL time.Duration
	isPublic  func(T, time.Time) bool
	now       func() time.Time
}

type Option[T Record, D Draft, P Patch] func(*Service[T, D, P])

// WithCache enables the read-through cache for PublicList.
func WithCache[T Record, D Draft, P Patch](c cache.Cache, ttl time.Duration) Option[T, D, P] {
	return func(s *Service[T, D, P]) {
		s.cache = c
		if ttl > 0 {
			s.publicTTL = ttl
		}
	}
}

// WithPublicFilter hides records (drafts, future posts) from PublicList.
func WithPublicFilter[T Record, D Draft, P Patch](fn func(T, time.Time) bool) Option[T, D, P] {
	return func(s *Service[T, D, P]) {
		s.isPublic = fn
	}
}

func WithClock[T Record, D Draft, P Patch](now func() time.Time) Option[T, D, P] {
	return func(s *Service[T, D, P]) {
		s.now = now
	}
}

func NewService[T Record, D Draft, P Patch](kind string, repo Repository[T, D, P], media MediaDiscarder, opts ...Option[T, D, P]) *Service[T, D, P] {
	s := &Service[T, D, P]{
		kind:      kind,
		repo:      repo,
		media:     media,
		publicTTL: defaultPublicTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service[T, D, P]) Kind() string {
	return s.kind
}

// List returns the whole collection, filtered in memory by q.
func (s *Service[T, D, P]) List(ctx context.Context, ac auth.Context, q string) ([]T, error) {
	if err := ac.Require(); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(items, q), nil
}

func (s *Service[T, D, P]) Get(ctx context.Context, ac auth.Context, id uuid.UUID) (T, error) {
	if err := ac.Require(); err != nil {
		var zero T
		return zero, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service[T, D, P]) Create(ctx context.Context, ac auth.Context, d D) (T, error) {
	var zero T
	if err := ac.Require(); err != nil {
		return zero, err
	}

	d = normalize(d)
	if err := d.Validate(); err != nil {
		return zero, err
	}

	created, err := s.repo.Create(ctx, d)
	if err != nil {
		return zero, err
	}

	s.invalidate(ctx)
	logger.Info("Record created", map[string]interface{}{
		"kind":  s.kind,
		"id":    created.RecordID().String(),
		"admin": ac.Email,
	})
	return created, nil
}

// Update applies p and discards any asset the record stopped referencing.
func (s *Service[T, D, P]) Update(ctx context.Context, ac auth.Context, p P) (T, error) {
	var zero T
	if err := ac.Require(); err != nil {
		return zero, err
	}

	p = normalize(p)
	if err := p.Validate(); err != nil {
		return zero, err
	}

	before, err := s.repo.GetByID(ctx, p.TargetID())
	if err != nil {
		return zero, err
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return zero, err
	}

	s.invalidate(ctx)
	for _, ref := range Released(before.MediaRefs(), updated.MediaRefs()) {
		s.media.Discard(ctx, ref, s.owner(updated.RecordID()))
	}
	return updated, nil
}

// Delete removes the record first, then its assets. Asset failures never
// fail the request; the discarder logs and retries them.
func (s *Service[T, D, P]) Delete(ctx context.Context, ac auth.Context, id uuid.UUID) error {
	if err := ac.Require(); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	for _, ref := range existing.MediaRefs() {
		if ref.Empty() {
			continue
		}
		s.media.Discard(ctx, ref, s.owner(id))
	}

	logger.Info("Record deleted", map[string]interface{}{
		"kind":  s.kind,
		"id":    id.String(),
		"admin": ac.Email,
	})
	return nil
}

// PublicList serves unauthenticated readers from the cache when possible.
func (s *Service[T, D, P]) PublicList(ctx context.Context) ([]T, error) {
	key := s.cacheKey()
	if s.cache != nil {
		var cached []T
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("Public cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		} else if found {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	now := s.now()
	for _, item := range items {
		if s.isPublic == nil || s.isPublic(item, now) {
			out = append(out, item)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.publicTTL); err != nil {
			logger.Warn("Public cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return out, nil
}

// Invalidate drops the public cache; used by nested editors (gallery images).
func (s *Service[T, D, P]) Invalidate(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *Service[T, D, P]) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		logger.Warn("Public cache invalidation failed", map[string]interface{}{"kind": s.kind, "error": err.Error()})
	}
}

func (s *Service[T, D, P]) cacheKey() string {
	return "public:" + s.kind
}

func (s *Service[T, D, P]) owner(id uuid.UUID) string {
	return s.kind + ":" + id.String()
}

// Released returns the refs in before that after no longer holds.
func Released(before, after []MediaRef) []MediaRef {
	kept := make(map[MediaRef]struct{}, len(after))
	for _, ref := range after {
		kept[ref] = struct{}{}
	}

	var out []MediaRef
	for _, ref := range before {
		if ref.Empty() {
			continue
		}
		if _, ok := kept[ref]; !ok {
			out = append(out, ref)
		}
	}
	return out
}

func normalize[V any](v V) V {
	if n, ok := any(v).(interface{ Normalized() V }); ok {
		return n.Normalized()
	}
	return v
}
