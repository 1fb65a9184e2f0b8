package domain

// RatePlanRow is one flattened (room, rate plan) pair from the vendor
// availability tree. Numeric fields are nil when the source value is missing
// or not parseable as a number; a present price of 0 and "no price" must stay
// distinguishable, so absence is never coerced to 0.
type RatePlanRow struct {
	RateKey         string
	RoomType        string
	RoomName        string
	Description     string
	Currency        string
	AmountAfterTax  *float64
	AmountBeforeTax *float64
	Taxes           *float64
	Fees            *float64
	Refundable      string // bool-or-string passthrough from the payload
	CancelOffset    string // "multiplier unit droptime", absent parts omitted
}

// RoomOfferRow summarizes one representative offer per room from the room
// content tree: only the first rate plan under each room is used.
type RoomOfferRow struct {
	RoomViewDescription string
	BedTypeDescription  string
	RatePlanName        string
	RatePlanCode        string
	RateKey             string
	ProductCode         string
	AmountAfterTax      *float64
	AverageNightlyRate  *float64
	CurrencyCode        string
	RoomName            string
	RoomText            string
}
