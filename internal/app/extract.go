package app

import (
	"math"
	"strconv"
	"strings"

	"rateadmin/internal/domain"
)

/********** path registries (single source of truth) **********/

// Availability tree (XML-derived JSON: every collection node may be a single
// object or an array, never assume either).
var (
	rateRoomsPath     = []string{"GetHotelDetailsRS", "HotelDetailsInfo", "HotelRateInfo", "Rooms", "Room"}
	ratePlansPath     = []string{"RatePlans", "RatePlan"}
	cancelPenaltyPath = []string{"ConvertedRateInfo", "CancelPenalties", "CancelPenalty"}
)

// Room content tree (second vendor endpoint, camelCase keys).
var (
	offerRoomsPath = []string{"hotelContent", "roomTypes", "roomType"}
	offerPlansPath = []string{"ratePlans", "ratePlan"}
)

/********** deep path resolution **********/

// getAtPath walks keys in order over untyped JSON. At each step the current
// value must be an object holding that key, otherwise nil comes back
// immediately. It never panics and never unwraps arrays; whether a resolved
// value is one node or a list of nodes differs per path segment, so that
// decision stays with the caller via normalizeToList.
func getAtPath(node any, keys ...string) any {
	cur := node
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[k]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// normalizeToList collapses the vendor's single-or-array ambiguity at one
// boundary: nil becomes an empty list, a list stays as is, anything else is
// wrapped. Apply it once per ambiguous resolve, not scattered through the
// extraction logic.
func normalizeToList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

/********** coercion helpers **********/

// strAt returns the string at path, or "" for anything that is not a string.
func strAt(node any, keys ...string) string {
	if s, ok := getAtPath(node, keys...).(string); ok {
		return s
	}
	return ""
}

// numAt parses the value at path as a number. Missing, non-numeric, or
// non-finite values yield nil — never 0, so "free" and "unpriced" stay apart.
func numAt(node any, keys ...string) *float64 {
	switch v := getAtPath(node, keys...).(type) {
	case float64:
		return finite(v)
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return finite(f)
		}
	}
	return nil
}

// finite rejects NaN and infinities, which ParseFloat accepts.
func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// scalarString renders a scalar payload value for display: strings pass
// through, booleans and numbers are formatted, everything else is "".
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

// firstText handles description fields that are either a list of strings or a
// single string: first element if a list, the scalar itself otherwise.
func firstText(v any) string {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		return scalarString(list[0])
	}
	return scalarString(v)
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

/********** rate plan extractor **********/

// ExtractRatePlanRows flattens the availability tree into one row per
// (room, rate plan) pair, in document order. Structural absence is not an
// error: a response without rooms yields no rows, and a room without a
// resolvable rate-plan list is skipped. The vendor payload varies per hotel,
// so failing hard here would make every partially populated response
// unusable.
func ExtractRatePlanRows(resp map[string]any) []domain.RatePlanRow {
	rooms := normalizeToList(getAtPath(resp, rateRoomsPath...))
	var out []domain.RatePlanRow
	for _, rn := range rooms {
		room, ok := rn.(map[string]any)
		if !ok {
			continue
		}

		roomName := strAt(room, "RoomDescription", "Name")
		roomType := strAt(room, "RoomType")
		if roomType == "" {
			roomType = roomName
		}
		desc := firstText(getAtPath(room, "RoomDescription", "Text"))

		plansNode := getAtPath(room, ratePlansPath...)
		if plansNode == nil {
			// No plan list at all: skipped, not treated as "zero offers".
			continue
		}
		for _, pn := range normalizeToList(plansNode) {
			plan, ok := pn.(map[string]any)
			if !ok {
				continue
			}
			row := domain.RatePlanRow{
				RateKey:         strAt(plan, "RateKey"),
				RoomType:        roomType,
				RoomName:        roomName,
				Description:     desc,
				Currency:        strAt(plan, "ConvertedRateInfo", "CurrencyCode"),
				AmountAfterTax:  numAt(plan, "ConvertedRateInfo", "AmountAfterTax"),
				AmountBeforeTax: numAt(plan, "ConvertedRateInfo", "AmountBeforeTax"),
				Taxes:           numAt(plan, "ConvertedRateInfo", "Taxes", "Amount"),
				Fees:            numAt(plan, "ConvertedRateInfo", "Fees", "Amount"),
			}
			if pens := normalizeToList(getAtPath(plan, cancelPenaltyPath...)); len(pens) > 0 {
				if pen, ok := pens[0].(map[string]any); ok {
					row.Refundable = scalarString(getAtPath(pen, "Refundable"))
					row.CancelOffset = joinNonEmpty(
						scalarString(getAtPath(pen, "OffsetUnitMultiplier")),
						scalarString(getAtPath(pen, "OffsetTimeUnit")),
						scalarString(getAtPath(pen, "OffsetDropTime")),
					)
				}
			}
			out = append(out, row)
		}
	}
	return out
}

/********** room offer extractor **********/

// ExtractRoomOfferRows flattens the room content tree into one row per room.
// This view summarizes one representative offer per room, so only the first
// rate plan under each room is read; rooms without a plan list are skipped.
func ExtractRoomOfferRows(resp map[string]any) []domain.RoomOfferRow {
	rooms := normalizeToList(getAtPath(resp, offerRoomsPath...))
	var out []domain.RoomOfferRow
	for _, rn := range rooms {
		room, ok := rn.(map[string]any)
		if !ok {
			continue
		}

		plansNode := getAtPath(room, offerPlansPath...)
		if plansNode == nil {
			continue
		}
		plans := normalizeToList(plansNode)
		if len(plans) == 0 {
			continue
		}
		plan, ok := plans[0].(map[string]any)
		if !ok {
			continue
		}

		row := domain.RoomOfferRow{
			RoomViewDescription: strAt(room, "roomViewDescription"),
			BedTypeDescription:  bedTypeDescription(room),
			RatePlanName:        strAt(plan, "ratePlanName"),
			RatePlanCode:        strAt(plan, "ratePlanCode"),
			RateKey:             strAt(plan, "rateKey"),
			ProductCode:         strAt(plan, "productCode"),
			AmountAfterTax:      numAt(plan, "convertedRateInfo", "amountAfterTax"),
			AverageNightlyRate:  numAt(plan, "convertedRateInfo", "averageNightlyRate"),
			CurrencyCode:        strAt(plan, "convertedRateInfo", "currencyCode"),
			RoomName:            strAt(room, "roomName"),
			RoomText:            firstText(getAtPath(room, "roomDescription", "text")),
		}
		out = append(out, row)
	}
	return out
}

// bedTypeDescription digs bedTypeOptions.bedTypes[0].bedType[0].description,
// where both bedTypes and bedType are single-or-array.
func bedTypeDescription(room map[string]any) string {
	bts := normalizeToList(getAtPath(room, "bedTypeOptions", "bedTypes"))
	if len(bts) == 0 {
		return ""
	}
	inner := normalizeToList(getAtPath(bts[0], "bedType"))
	if len(inner) == 0 {
		return ""
	}
	return strAt(inner[0], "description")
}
