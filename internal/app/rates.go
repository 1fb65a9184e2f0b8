package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rateadmin/internal/domain"
)

// RatesService fetches vendor availability, flattens it and ranks it. Each
// fetch is stamped with a per-entity monotonic sequence number; a result that
// is no longer the latest for its entity comes back as ErrStale, so a slow
// superseded request can never clobber fresher rows in the panel.
type RatesService struct {
	client   domain.RateClient
	cache    domain.Cache
	cacheTTL time.Duration

	mu  sync.Mutex
	seq map[string]uint64
}

func NewRatesService(c domain.RateClient, cache domain.Cache, ttl time.Duration) *RatesService {
	return &RatesService{client: c, cache: cache, cacheTTL: ttl, seq: map[string]uint64{}}
}

func (s *RatesService) begin(entityKey string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[entityKey]++
	return s.seq[entityKey]
}

func (s *RatesService) isLatest(entityKey string, n uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[entityKey] == n
}

// RatePlans returns the ranked rate-plan rows for one entity and stay.
func (s *RatesService) RatePlans(ctx context.Context, id domain.EntityID, q domain.StayQuery) ([]domain.RatePlanRow, error) {
	if id.IsZero() {
		return nil, domain.ErrBadEntity
	}
	key := "rates:" + id.Key()
	n := s.begin(key)

	resp, err := s.fetch(ctx, "avail:"+id.Key()+":"+q.Key(), func(ctx context.Context) (map[string]any, error) {
		return s.client.HotelRates(ctx, id.SabreID, q)
	})
	if err != nil {
		return nil, err
	}
	if !s.isLatest(key, n) {
		return nil, domain.ErrStale
	}
	return SortRatePlanRows(ExtractRatePlanRows(resp)), nil
}

// RoomOffers returns the one-representative-offer-per-room rows.
func (s *RatesService) RoomOffers(ctx context.Context, id domain.EntityID, q domain.StayQuery) ([]domain.RoomOfferRow, error) {
	if id.IsZero() {
		return nil, domain.ErrBadEntity
	}
	key := "offers:" + id.Key()
	n := s.begin(key)

	resp, err := s.fetch(ctx, "content:"+id.Key()+":"+q.Key(), func(ctx context.Context) (map[string]any, error) {
		return s.client.RoomContent(ctx, id.SabreID, q)
	})
	if err != nil {
		return nil, err
	}
	if !s.isLatest(key, n) {
		return nil, domain.ErrStale
	}
	return ExtractRoomOfferRows(resp), nil
}

// fetch serves the raw vendor tree from cache when possible.
func (s *RatesService) fetch(ctx context.Context, cacheKey string, call func(context.Context) (map[string]any, error)) (map[string]any, error) {
	if s.cache != nil {
		var cached map[string]any
		if ok, _ := s.cache.Get(ctx, cacheKey, &cached); ok {
			return cached, nil
		}
	}
	resp, err := call(ctx)
	if err != nil {
		return nil, fmt.Errorf("vendor fetch: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, resp, int(s.cacheTTL.Seconds()))
	}
	return resp, nil
}
