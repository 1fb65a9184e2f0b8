package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rateadmin/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.SabreID,
		valStr(h.ParagonID),
		valStr(h.Name),
		valStr(h.City),
		valStr(h.Country),
		valInt(h.Stars),
		valStr(h.Description),
	)
	return err
}

func (r *Repo) UpdateSEO(ctx context.Context, sabreID string, seo domain.SEOFields) error {
	res, err := r.db.ExecContext(ctx, updateSEOSQL,
		valStr(seo.Title), valStr(seo.Description), valStr(seo.Keywords), sabreID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL also reports 0 when nothing changed; re-check existence.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM hotels WHERE sabre_id = ?`, sabreID).Scan(&one); err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, sabreID string) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx, getHotelSQL, sabreID)
	h, err := scanHotel(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) ListHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listHotelsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanHotel(scan func(...any) error) (domain.Hotel, error) {
	var (
		h                                 domain.Hotel
		paragon, name, city, country      sql.NullString
		desc, seoTitle, seoDesc, seoWords sql.NullString
		stars                             sql.NullInt64
	)
	if err := scan(&h.SabreID, &paragon, &name, &city, &country, &stars, &desc,
		&seoTitle, &seoDesc, &seoWords); err != nil {
		return domain.Hotel{}, err
	}
	h.ParagonID = nullStr(paragon)
	h.Name = nullStr(name)
	h.City = nullStr(city)
	h.Country = nullStr(country)
	h.Description = nullStr(desc)
	h.SEO = domain.SEOFields{
		Title:       nullStr(seoTitle),
		Description: nullStr(seoDesc),
		Keywords:    nullStr(seoWords),
	}
	if stars.Valid {
		s := int(stars.Int64)
		h.Stars = &s
	}
	return h, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// ReadPlanCodes returns the persisted selection for one entity. No row yet
// means no selection, not an error.
func (r *Repo) ReadPlanCodes(ctx context.Context, id domain.EntityID) ([]string, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, getPlanCodesSQL, id.SabreID, id.ParagonID).Scan(&raw)
	if err == sql.ErrNoRows {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var codes []string
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, fmt.Errorf("decode plan codes for %s: %w", id, err)
	}
	return codes, nil
}

func (r *Repo) WritePlanCodes(ctx context.Context, id domain.EntityID, codes []string) error {
	if codes == nil {
		codes = []string{}
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertPlanCodesSQL, id.SabreID, id.ParagonID, string(raw))
	return err
}
