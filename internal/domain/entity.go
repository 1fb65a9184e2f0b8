package domain

import (
	"errors"
	"net/url"
	"strings"
)

// EntityID addresses one hotel in the catalog. The vendor id (Sabre) and the
// internal catalog id (Paragon) are kept as separate fields; never join them
// with a delimiter to build a key, because either part may be empty or contain
// the delimiter itself.
type EntityID struct {
	SabreID   string
	ParagonID string
}

func (e EntityID) IsZero() bool { return e.SabreID == "" && e.ParagonID == "" }

// Key returns a collision-free string form for cache keys. Each part is
// percent-escaped before joining, so "a-b"+"c" and "a"+"b-c" stay distinct.
func (e EntityID) Key() string {
	return url.QueryEscape(e.SabreID) + "/" + url.QueryEscape(e.ParagonID)
}

func (e EntityID) String() string {
	return strings.TrimSuffix(e.Key(), "/")
}

var (
	ErrNotFound  = errors.New("not found")
	ErrBadEntity = errors.New("entity id is empty")

	// ErrStale marks a fetch result superseded by a newer request for the
	// same entity; callers drop the result instead of displaying it.
	ErrStale = errors.New("superseded by a newer request")
)
