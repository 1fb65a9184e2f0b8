package app

import (
	"encoding/json"
	"reflect"
	"testing"
)

// mustParse builds the untyped tree the same way the HTTP layer does, so
// numbers are float64 and nested nodes are map[string]any.
func mustParse(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func wrapRooms(roomsJSON string) string {
	return `{"GetHotelDetailsRS":{"HotelDetailsInfo":{"HotelRateInfo":{"Rooms":{"Room":` + roomsJSON + `}}}}}`
}

func TestGetAtPath(t *testing.T) {
	m := mustParse(t, `{"a":{"b":{"c":1}},"s":"x"}`)

	if v := getAtPath(m, "a", "b", "c"); v != 1.0 {
		t.Fatalf("want 1, got %v", v)
	}
	if v := getAtPath(m, "a", "missing", "c"); v != nil {
		t.Fatalf("missing key must resolve to nil, got %v", v)
	}
	// descending through a scalar stops immediately
	if v := getAtPath(m, "s", "b"); v != nil {
		t.Fatalf("scalar step must resolve to nil, got %v", v)
	}
	if v := getAtPath(nil, "a"); v != nil {
		t.Fatalf("nil root must resolve to nil, got %v", v)
	}
}

func TestNormalizeToList(t *testing.T) {
	if got := normalizeToList(nil); len(got) != 0 {
		t.Fatalf("nil -> empty, got %v", got)
	}
	if got := normalizeToList([]any{"a", "b"}); len(got) != 2 {
		t.Fatalf("list stays list, got %v", got)
	}
	got := normalizeToList(map[string]any{"k": "v"})
	if len(got) != 1 {
		t.Fatalf("single object wraps, got %v", got)
	}
}

func TestExtractRatePlanRows_SingleRoomSinglePlan(t *testing.T) {
	resp := mustParse(t, wrapRooms(`{
		"RoomType": "KING",
		"RoomDescription": {"Name": "King Deluxe", "Text": ["Spacious king room", "Top floor"]},
		"RatePlans": {"RatePlan": {
			"RateKey": "rk-1",
			"ConvertedRateInfo": {
				"CurrencyCode": "USD",
				"AmountAfterTax": 180.5,
				"AmountBeforeTax": 160,
				"Taxes": {"Amount": 20.5},
				"Fees": {"Amount": "3.25"},
				"CancelPenalties": {"CancelPenalty": {
					"Refundable": true,
					"OffsetUnitMultiplier": 1,
					"OffsetTimeUnit": "Day",
					"OffsetDropTime": "BeforeArrival"
				}}
			}
		}}
	}`))

	rows := ExtractRatePlanRows(resp)
	if len(rows) != 1 {
		t.Fatalf("want exactly 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.RateKey != "rk-1" || r.RoomType != "KING" || r.RoomName != "King Deluxe" {
		t.Fatalf("unexpected identity fields: %+v", r)
	}
	if r.Description != "Spacious king room" {
		t.Fatalf("description must take the first text element, got %q", r.Description)
	}
	if r.AmountAfterTax == nil || *r.AmountAfterTax != 180.5 {
		t.Fatalf("amountAfterTax: %v", r.AmountAfterTax)
	}
	if r.Fees == nil || *r.Fees != 3.25 {
		t.Fatalf("fees must parse from string: %v", r.Fees)
	}
	if r.Refundable != "true" {
		t.Fatalf("refundable passthrough: %q", r.Refundable)
	}
	if r.CancelOffset != "1 Day BeforeArrival" {
		t.Fatalf("cancelOffset: %q", r.CancelOffset)
	}
}

func TestExtractRatePlanRows_MissingRooms(t *testing.T) {
	resp := mustParse(t, `{"GetHotelDetailsRS":{"HotelDetailsInfo":{}}}`)
	if rows := ExtractRatePlanRows(resp); len(rows) != 0 {
		t.Fatalf("missing Rooms.Room must yield no rows, got %d", len(rows))
	}
	if rows := ExtractRatePlanRows(nil); len(rows) != 0 {
		t.Fatalf("nil response must yield no rows, got %d", len(rows))
	}
}

func TestExtractRatePlanRows_NumericCoercion(t *testing.T) {
	resp := mustParse(t, wrapRooms(`{
		"RoomType": "STD",
		"RatePlans": {"RatePlan": {
			"RateKey": "rk-2",
			"ConvertedRateInfo": {"AmountAfterTax": "1200.50"}
		}}
	}`))

	rows := ExtractRatePlanRows(resp)
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].AmountAfterTax == nil || *rows[0].AmountAfterTax != 1200.5 {
		t.Fatalf("amountAfterTax: %v", rows[0].AmountAfterTax)
	}
	if rows[0].AmountBeforeTax != nil {
		t.Fatalf("absent amountBeforeTax must stay nil, got %v", *rows[0].AmountBeforeTax)
	}
}

func TestExtractRatePlanRows_NonFiniteAmounts(t *testing.T) {
	resp := mustParse(t, wrapRooms(`{
		"RoomType": "STD",
		"RatePlans": {"RatePlan": [
			{"RateKey": "nan", "ConvertedRateInfo": {"AmountAfterTax": "NaN"}},
			{"RateKey": "inf", "ConvertedRateInfo": {"AmountAfterTax": "+Inf", "AmountBeforeTax": "-Infinity"}},
			{"RateKey": "ok", "ConvertedRateInfo": {"AmountAfterTax": "10"}}
		]}
	}`))

	rows := ExtractRatePlanRows(resp)
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	for _, r := range rows[:2] {
		if r.AmountAfterTax != nil {
			t.Fatalf("row %s: non-finite amount must be nil, got %v", r.RateKey, *r.AmountAfterTax)
		}
		if r.AmountBeforeTax != nil {
			t.Fatalf("row %s: non-finite amount must be nil, got %v", r.RateKey, *r.AmountBeforeTax)
		}
	}
	if rows[2].AmountAfterTax == nil || *rows[2].AmountAfterTax != 10 {
		t.Fatalf("finite amount dropped: %v", rows[2].AmountAfterTax)
	}
}

func TestExtractRatePlanRows_SkipsRoomsWithoutPlans(t *testing.T) {
	resp := mustParse(t, wrapRooms(`[
		{"RoomType": "A"},
		{"RoomType": "B", "RatePlans": {"RatePlan": [
			{"RateKey": "b1"},
			{"RateKey": "b2"}
		]}},
		{"RoomType": "C", "RatePlans": {"RatePlan": {"RateKey": "c1"}}}
	]`))

	rows := ExtractRatePlanRows(resp)
	if len(rows) != 3 {
		t.Fatalf("row count must equal (room, plan) pairs with a plan list: got %d", len(rows))
	}
	// document order, no implicit sort
	keys := []string{rows[0].RateKey, rows[1].RateKey, rows[2].RateKey}
	if !reflect.DeepEqual(keys, []string{"b1", "b2", "c1"}) {
		t.Fatalf("order: %v", keys)
	}
}

func TestExtractRatePlanRows_RoomTypeFallback(t *testing.T) {
	resp := mustParse(t, wrapRooms(`{
		"RoomDescription": {"Name": "Garden Suite", "Text": "Single text"},
		"RatePlans": {"RatePlan": {"RateKey": "x"}}
	}`))

	rows := ExtractRatePlanRows(resp)
	if len(rows) != 1 || rows[0].RoomType != "Garden Suite" {
		t.Fatalf("expected fallback to RoomDescription.Name, got %+v", rows)
	}
	if rows[0].Description != "Single text" {
		t.Fatalf("scalar description passthrough: %q", rows[0].Description)
	}
}

func TestExtractRatePlanRows_CancelOffsetOmitsAbsentParts(t *testing.T) {
	resp := mustParse(t, wrapRooms(`{
		"RoomType": "STD",
		"RatePlans": {"RatePlan": {
			"RateKey": "x",
			"ConvertedRateInfo": {"CancelPenalties": {"CancelPenalty": [
				{"Refundable": "no", "OffsetTimeUnit": "Hour"},
				{"OffsetTimeUnit": "Day"}
			]}}
		}}
	}`))

	rows := ExtractRatePlanRows(resp)
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	// first penalty wins; no stray separators for the missing parts
	if rows[0].CancelOffset != "Hour" {
		t.Fatalf("cancelOffset: %q", rows[0].CancelOffset)
	}
	if rows[0].Refundable != "no" {
		t.Fatalf("refundable string passthrough: %q", rows[0].Refundable)
	}
}

func TestExtractRatePlanRows_Idempotent(t *testing.T) {
	resp := mustParse(t, wrapRooms(`[
		{"RoomType": "B", "RatePlans": {"RatePlan": [{"RateKey": "b1"}, {"RateKey": "b2"}]}}
	]`))
	a := ExtractRatePlanRows(resp)
	b := ExtractRatePlanRows(resp)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("extraction must be idempotent:\n%+v\n%+v", a, b)
	}
}

func TestExtractRoomOfferRows(t *testing.T) {
	resp := mustParse(t, `{"hotelContent":{"roomTypes":{"roomType":[
		{
			"roomName": "Deluxe Twin",
			"roomViewDescription": "Ocean view",
			"roomDescription": {"text": ["Two twin beds", "More"]},
			"bedTypeOptions": {"bedTypes": {"bedType": {"description": "Twin"}}},
			"ratePlans": {"ratePlan": [
				{"ratePlanName": "Flexible", "ratePlanCode": "FLX", "rateKey": "rk-a",
				 "productCode": "P1",
				 "convertedRateInfo": {"amountAfterTax": 210, "averageNightlyRate": "105.00", "currencyCode": "EUR"}},
				{"ratePlanName": "Ignored second plan", "ratePlanCode": "NOPE"}
			]}
		},
		{"roomName": "No plans room"}
	]}}}`)

	rows := ExtractRoomOfferRows(resp)
	if len(rows) != 1 {
		t.Fatalf("one row per room with plans, got %d", len(rows))
	}
	r := rows[0]
	if r.RatePlanCode != "FLX" || r.RatePlanName != "Flexible" {
		t.Fatalf("must use only the first plan: %+v", r)
	}
	if r.BedTypeDescription != "Twin" {
		t.Fatalf("bed type description: %q", r.BedTypeDescription)
	}
	if r.RoomViewDescription != "Ocean view" || r.RoomText != "Two twin beds" {
		t.Fatalf("room fields: %+v", r)
	}
	if r.AverageNightlyRate == nil || *r.AverageNightlyRate != 105 {
		t.Fatalf("averageNightlyRate: %v", r.AverageNightlyRate)
	}
	if r.CurrencyCode != "EUR" {
		t.Fatalf("currencyCode: %q", r.CurrencyCode)
	}
}
