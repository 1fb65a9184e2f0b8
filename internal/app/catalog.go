package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"rateadmin/internal/domain"
)

// CatalogService is the CRUD/import/SEO side of the console: plain glue over
// the keyed store and the two text/metrics APIs.
type CatalogService struct {
	repo      domain.HotelRepository
	seo       domain.SEOClient
	analytics domain.AnalyticsClient
	cache     domain.Cache
	cacheTTL  time.Duration
}

func NewCatalogService(r domain.HotelRepository, s domain.SEOClient, a domain.AnalyticsClient, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, seo: s, analytics: a, cache: c, cacheTTL: ttl}
}

func (s *CatalogService) GetHotel(ctx context.Context, sabreID string) (domain.Hotel, error) {
	key := "hotel:" + sabreID
	if s.cache != nil {
		var h domain.Hotel
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, sabreID)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

func (s *CatalogService) ListHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	return s.repo.ListHotels(ctx, limit)
}

func (s *CatalogService) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	if strings.TrimSpace(h.SabreID) == "" {
		return fmt.Errorf("sabre id is required")
	}
	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, "hotel:"+h.SabreID)
	}
	return nil
}

// GenerateSEO calls the text-generation API with the hotel's own content and
// persists the result onto the record.
func (s *CatalogService) GenerateSEO(ctx context.Context, sabreID, reviewText string) (domain.SEOFields, error) {
	h, err := s.repo.GetHotel(ctx, sabreID)
	if err != nil {
		return domain.SEOFields{}, err
	}
	req := domain.SEORequest{ReviewText: reviewText}
	if h.Name != nil {
		req.HotelName = *h.Name
	}
	if h.Description != nil {
		req.Description = *h.Description
	}
	fields, err := s.seo.Generate(ctx, req)
	if err != nil {
		return domain.SEOFields{}, fmt.Errorf("generate seo for %s: %w", sabreID, err)
	}
	if err := s.repo.UpdateSEO(ctx, sabreID, fields); err != nil {
		return domain.SEOFields{}, fmt.Errorf("persist seo for %s: %w", sabreID, err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, "hotel:"+sabreID)
	}
	return fields, nil
}

func (s *CatalogService) HotelAnalytics(ctx context.Context, sabreID string) (map[string]any, error) {
	return s.analytics.HotelSummary(ctx, sabreID)
}

/********** CSV import **********/

// csv columns, by header name
var csvColumns = []string{"sabre_id", "paragon_id", "name", "city", "country", "stars", "description"}

// ParseCatalogCSV reads a hotel catalog CSV into records. The first row must
// be a header containing at least sabre_id; unknown columns are ignored and
// rows without a sabre_id are reported back, not silently dropped.
func ParseCatalogCSV(r io.Reader) ([]domain.Hotel, []error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("read csv header: %w", err)}
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["sabre_id"]; !ok {
		return nil, []error{fmt.Errorf("csv header is missing sabre_id")}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		out  []domain.Hotel
		errs []error
		line = 1
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		h := domain.Hotel{SabreID: field(rec, "sabre_id")}
		if h.SabreID == "" {
			errs = append(errs, fmt.Errorf("line %d: empty sabre_id", line))
			continue
		}
		h.ParagonID = optStr(field(rec, "paragon_id"))
		h.Name = optStr(field(rec, "name"))
		h.City = optStr(field(rec, "city"))
		h.Country = optStr(field(rec, "country"))
		h.Description = optStr(field(rec, "description"))
		if s := field(rec, "stars"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				h.Stars = &n
			} else {
				errs = append(errs, fmt.Errorf("line %d: bad stars %q", line, s))
			}
		}
		out = append(out, h)
	}
	return out, errs
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
