package domain

// Hotel is one catalog record as stored. Pointer fields are nullable columns.
type Hotel struct {
	SabreID     string
	ParagonID   *string
	Name        *string
	City        *string
	Country     *string
	Stars       *int
	Description *string
	SEO         SEOFields
}

// SEOFields is the generated SEO text persisted onto a hotel record.
type SEOFields struct {
	Title       *string
	Description *string
	Keywords    *string
}

// Entity returns the EntityID for this record.
func (h Hotel) Entity() EntityID {
	id := EntityID{SabreID: h.SabreID}
	if h.ParagonID != nil {
		id.ParagonID = *h.ParagonID
	}
	return id
}
