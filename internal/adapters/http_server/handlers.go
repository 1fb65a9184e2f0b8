// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"rateadmin/internal/adapters/sabre"
	"rateadmin/internal/app"
	"rateadmin/internal/domain"
)

type Handlers struct {
	Catalog *app.CatalogService
	Rates   *app.RatesService
	Store   domain.PlanCodeStore

	BookingBaseURL string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Post("/", h.upsertHotel)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getHotel)
			r.Put("/", h.upsertHotel)
			r.Get("/rates", h.listRates)
			r.Get("/offers", h.listOffers)
			r.Get("/plan-codes", h.getPlanCodes)
			r.Put("/plan-codes", h.savePlanCodes)
			r.Get("/deeplink", h.deeplink)
			r.Post("/seo", h.generateSEO)
			r.Get("/analytics", h.analytics)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

/********** hotel CRUD **********/

type hotelDTO struct {
	SabreID     string  `json:"sabreId"`
	ParagonID   *string `json:"paragonId,omitempty"`
	Name        *string `json:"name,omitempty"`
	City        *string `json:"city,omitempty"`
	Country     *string `json:"country,omitempty"`
	Stars       *int    `json:"stars,omitempty"`
	Description *string `json:"description,omitempty"`

	SEOTitle       *string `json:"seoTitle,omitempty"`
	SEODescription *string `json:"seoDescription,omitempty"`
	SEOKeywords    *string `json:"seoKeywords,omitempty"`
}

func toDTO(h domain.Hotel) hotelDTO {
	return hotelDTO{
		SabreID: h.SabreID, ParagonID: h.ParagonID, Name: h.Name,
		City: h.City, Country: h.Country, Stars: h.Stars, Description: h.Description,
		SEOTitle: h.SEO.Title, SEODescription: h.SEO.Description, SEOKeywords: h.SEO.Keywords,
	}
}

func fromDTO(d hotelDTO) domain.Hotel {
	return domain.Hotel{
		SabreID: d.SabreID, ParagonID: d.ParagonID, Name: d.Name,
		City: d.City, Country: d.Country, Stars: d.Stars, Description: d.Description,
		SEO: domain.SEOFields{Title: d.SEOTitle, Description: d.SEODescription, Keywords: d.SEOKeywords},
	}
}

type rateRowDTO struct {
	RateKey         string   `json:"rateKey"`
	RoomType        string   `json:"roomType,omitempty"`
	RoomName        string   `json:"roomName,omitempty"`
	Description     string   `json:"description,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	AmountAfterTax  *float64 `json:"amountAfterTax,omitempty"`
	AmountBeforeTax *float64 `json:"amountBeforeTax,omitempty"`
	Taxes           *float64 `json:"taxes,omitempty"`
	Fees            *float64 `json:"fees,omitempty"`
	Refundable      string   `json:"refundable,omitempty"`
	CancelOffset    string   `json:"cancelOffset,omitempty"`
}

func toRateRows(rows []domain.RatePlanRow) []rateRowDTO {
	out := make([]rateRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, rateRowDTO{
			RateKey: r.RateKey, RoomType: r.RoomType, RoomName: r.RoomName,
			Description: r.Description, Currency: r.Currency,
			AmountAfterTax: r.AmountAfterTax, AmountBeforeTax: r.AmountBeforeTax,
			Taxes: r.Taxes, Fees: r.Fees,
			Refundable: r.Refundable, CancelOffset: r.CancelOffset,
		})
	}
	return out
}

type offerRowDTO struct {
	RoomViewDescription string   `json:"roomViewDescription,omitempty"`
	BedTypeDescription  string   `json:"bedTypeDescription,omitempty"`
	RatePlanName        string   `json:"ratePlanName,omitempty"`
	RatePlanCode        string   `json:"ratePlanCode,omitempty"`
	RateKey             string   `json:"rateKey,omitempty"`
	ProductCode         string   `json:"productCode,omitempty"`
	AmountAfterTax      *float64 `json:"amountAfterTax,omitempty"`
	AverageNightlyRate  *float64 `json:"averageNightlyRate,omitempty"`
	CurrencyCode        string   `json:"currencyCode,omitempty"`
	RoomName            string   `json:"roomName,omitempty"`
	RoomText            string   `json:"roomText,omitempty"`
}

func toOfferRows(rows []domain.RoomOfferRow) []offerRowDTO {
	out := make([]offerRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, offerRowDTO{
			RoomViewDescription: r.RoomViewDescription, BedTypeDescription: r.BedTypeDescription,
			RatePlanName: r.RatePlanName, RatePlanCode: r.RatePlanCode,
			RateKey: r.RateKey, ProductCode: r.ProductCode,
			AmountAfterTax: r.AmountAfterTax, AverageNightlyRate: r.AverageNightlyRate,
			CurrencyCode: r.CurrencyCode, RoomName: r.RoomName, RoomText: r.RoomText,
		})
	}
	return out
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Catalog.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}

	etag, body := calcETagAndBody(toDTO(hotel))
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 500 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
			return
		}
		limit = l
	}
	hotels, err := h.Catalog.ListHotels(r.Context(), limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "list hotels failed")
		return
	}
	out := make([]hotelDTO, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, toDTO(ht))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) upsertHotel(w http.ResponseWriter, r *http.Request) {
	var d hotelDTO
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		d.SabreID = id
	}
	if err := h.Catalog.UpsertHotel(r.Context(), fromDTO(d)); err != nil {
		writeProblem(w, http.StatusBadRequest, "Upsert failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

/********** rates & offers **********/

// parseStay reads checkIn/checkOut/adults/children/currency query params.
func parseStay(r *http.Request) (domain.StayQuery, error) {
	qs := r.URL.Query()
	var q domain.StayQuery
	var err error
	if q.CheckIn, err = time.Parse(domain.DateLayout, qs.Get("checkIn")); err != nil {
		return q, errors.New("checkIn must be YYYY-MM-DD")
	}
	if q.CheckOut, err = time.Parse(domain.DateLayout, qs.Get("checkOut")); err != nil {
		return q, errors.New("checkOut must be YYYY-MM-DD")
	}
	q.Adults = 2
	if s := qs.Get("adults"); s != "" {
		if q.Adults, err = strconv.Atoi(s); err != nil {
			return q, errors.New("adults must be an integer")
		}
	}
	if s := qs.Get("children"); s != "" {
		if q.Children, err = strconv.Atoi(s); err != nil {
			return q, errors.New("children must be an integer")
		}
	}
	q.CurrencyCode = qs.Get("currency")
	return q, q.Validate()
}

// entity loads the hotel record behind {id} so callers get the full
// (sabre, paragon) entity id, not a bare string key.
func (h *Handlers) entity(r *http.Request) (domain.EntityID, error) {
	hotel, err := h.Catalog.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return domain.EntityID{}, err
	}
	return hotel.Entity(), nil
}

func (h *Handlers) listRates(w http.ResponseWriter, r *http.Request) {
	id, err := h.entity(r)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	q, err := parseStay(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid stay", err.Error())
		return
	}
	rows, err := h.Rates.RatePlans(r.Context(), id, q)
	if err != nil {
		writeRateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toRateRows(rows)})
}

func (h *Handlers) listOffers(w http.ResponseWriter, r *http.Request) {
	id, err := h.entity(r)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	q, err := parseStay(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid stay", err.Error())
		return
	}
	rows, err := h.Rates.RoomOffers(r.Context(), id, q)
	if err != nil {
		writeRateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toOfferRows(rows)})
}

func writeRateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrStale):
		writeProblem(w, http.StatusConflict, "Superseded", "a newer request for this hotel is in flight")
	case errors.Is(err, sabre.ErrBadPayload):
		writeProblem(w, http.StatusBadGateway, "Unexpected response format", "the rate API did not return JSON")
	case errors.Is(err, sabre.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "no availability for this hotel")
	default:
		writeProblem(w, http.StatusBadGateway, "Vendor error", err.Error())
	}
}

/********** selection **********/

type planCodesDTO struct {
	PlanCodes []string `json:"planCodes"`
	Persisted []string `json:"persisted,omitempty"`
}

func (h *Handlers) getPlanCodes(w http.ResponseWriter, r *http.Request) {
	id, err := h.entity(r)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	rec := app.NewReconciler(h.Store)
	if err := rec.Open(r.Context(), id); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "read plan codes failed")
		return
	}
	writeJSON(w, http.StatusOK, planCodesDTO{PlanCodes: rec.Working(), Persisted: rec.Baseline()})
}

func (h *Handlers) savePlanCodes(w http.ResponseWriter, r *http.Request) {
	id, err := h.entity(r)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	var body planCodesDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	rec := app.NewReconciler(h.Store)
	if err := rec.Open(r.Context(), id); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "read plan codes failed")
		return
	}
	rec.ReplaceAll(body.PlanCodes)
	if err := rec.Save(r.Context()); err != nil {
		// Nothing was applied; the working set is intact on the client.
		writeProblem(w, http.StatusBadGateway, "Save failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, planCodesDTO{PlanCodes: rec.Working(), Persisted: rec.Baseline()})
}

/********** deep link **********/

func (h *Handlers) deeplink(w http.ResponseWriter, r *http.Request) {
	id, err := h.entity(r)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	q, err := parseStay(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid stay", err.Error())
		return
	}
	code := r.URL.Query().Get("ratePlanCode")
	if code == "" {
		writeProblem(w, http.StatusBadRequest, "Missing ratePlanCode", "a deep link requires a rate plan code")
		return
	}
	u := app.ComposeBookingURL(h.BookingBaseURL, id.SabreID, code, q, r.URL.Query().Get("roomCode"))
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}

/********** seo & analytics **********/

func (h *Handlers) generateSEO(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReviewText string `json:"reviewText"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body) // reviewText is optional
	}
	fields, err := h.Catalog.GenerateSEO(r.Context(), chi.URLParam(r, "id"), body.ReviewText)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
			return
		}
		writeProblem(w, http.StatusBadGateway, "Generation failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"seoTitle":       fields.Title,
		"seoDescription": fields.Description,
		"seoKeywords":    fields.Keywords,
	})
}

func (h *Handlers) analytics(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.HotelAnalytics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "Analytics unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}
