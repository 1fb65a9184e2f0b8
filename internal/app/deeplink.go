package app

import (
	"net/url"
	"strconv"
	"strings"

	"rateadmin/internal/domain"
)

// ComposeBookingURL builds the shareable deep link for one chosen offer.
// Parameters are written in a fixed order (sabreId, roomCode when present,
// ratePlanCode, checkIn, checkOut, adults, children) so identical inputs
// always yield byte-identical output; url.Values would re-sort them. An empty
// ratePlanCode is a caller error and yields "" — no link exists without one.
func ComposeBookingURL(baseURL, sabreID, ratePlanCode string, q domain.StayQuery, roomCode string) string {
	if ratePlanCode == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}

	var b strings.Builder
	b.WriteString(baseURL)
	b.WriteString(sep)
	writeParam(&b, "sabreId", sabreID, true)
	if roomCode != "" {
		writeParam(&b, "roomCode", roomCode, false)
	}
	writeParam(&b, "ratePlanCode", ratePlanCode, false)
	writeParam(&b, "checkIn", q.CheckIn.Format(domain.DateLayout), false)
	writeParam(&b, "checkOut", q.CheckOut.Format(domain.DateLayout), false)
	writeParam(&b, "adults", strconv.Itoa(q.Adults), false)
	writeParam(&b, "children", strconv.Itoa(q.Children), false)
	return b.String()
}

func writeParam(b *strings.Builder, key, val string, first bool) {
	if !first {
		b.WriteByte('&')
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(val))
}
