package domain

import "context"

type HotelRepository interface {
	// Write paths
	UpsertHotel(ctx context.Context, h Hotel) error
	UpdateSEO(ctx context.Context, sabreID string, seo SEOFields) error

	// Read paths
	GetHotel(ctx context.Context, sabreID string) (Hotel, error)
	ListHotels(ctx context.Context, limit int) ([]Hotel, error)

	PlanCodeStore
}

// PlanCodeStore persists the selected rate-plan codes for one hotel entity.
// Read returns an empty slice (not an error) when nothing has been saved yet.
type PlanCodeStore interface {
	ReadPlanCodes(ctx context.Context, id EntityID) ([]string, error)
	WritePlanCodes(ctx context.Context, id EntityID, codes []string) error
}

// RateClient fetches the two vendor trees. Both come back untyped: the vendor
// payload has no fixed schema beyond a handful of documented paths, so the
// extractors walk it defensively instead of decoding into structs.
type RateClient interface {
	HotelRates(ctx context.Context, hotelID string, q StayQuery) (map[string]any, error)
	RoomContent(ctx context.Context, hotelID string, q StayQuery) (map[string]any, error)
}

// SEOClient generates SEO text for a hotel from its name, description and
// review excerpts.
type SEOClient interface {
	Generate(ctx context.Context, req SEORequest) (SEOFields, error)
}

type SEORequest struct {
	HotelName   string
	Description string
	ReviewText  string
}

// AnalyticsClient reads the dashboard metrics summary for one hotel.
type AnalyticsClient interface {
	HotelSummary(ctx context.Context, sabreID string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
