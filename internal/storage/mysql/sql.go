package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (sabre_id, paragon_id, name, city, country, stars, description)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  paragon_id  = VALUES(paragon_id),
  name        = VALUES(name),
  city        = VALUES(city),
  country     = VALUES(country),
  stars       = VALUES(stars),
  description = VALUES(description),
  updated_at  = CURRENT_TIMESTAMP
`

// SEO columns are written separately so a catalog upsert never clobbers
// previously generated text.
const updateSEOSQL = `
UPDATE hotels
SET seo_title       = ?,
    seo_description = ?,
    seo_keywords    = ?,
    updated_at      = CURRENT_TIMESTAMP
WHERE sabre_id = ?
`

const getHotelSQL = `
SELECT sabre_id, paragon_id, name, city, country, stars, description,
       seo_title, seo_description, seo_keywords
FROM hotels
WHERE sabre_id = ?
`

const listHotelsSQL = `
SELECT sabre_id, paragon_id, name, city, country, stars, description,
       seo_title, seo_description, seo_keywords
FROM hotels
ORDER BY sabre_id
LIMIT ?
`

// Selected rate-plan codes, one JSON array per (sabre_id, paragon_id).
// paragon_id defaults to the empty string so entities without one still key cleanly.
const upsertPlanCodesSQL = `
INSERT INTO hotel_plan_codes (sabre_id, paragon_id, codes)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  codes      = VALUES(codes),
  updated_at = CURRENT_TIMESTAMP
`

const getPlanCodesSQL = `
SELECT codes
FROM hotel_plan_codes
WHERE sabre_id = ? AND paragon_id = ?
`
