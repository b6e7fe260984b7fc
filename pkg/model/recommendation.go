package model

// ScoredHotel is one normalized oracle ranking row: the id extracted from
// the embedded hotel document, the endpoint's score, and the strongest
// reason code. The oracle client owns the wire decoding.
type ScoredHotel struct {
	HotelID string
	Score   float64
	Reason  string
}

// RankedHotel pairs a hotel with the score and the human-readable reason
// it was recommended. Score is zero when the ranking came from the local
// fallback.
type RankedHotel struct {
	Hotel       Hotel   `json:"hotel"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
}

// HomePage is the aggregate feed for an (optionally identified) visitor.
// ByCity holds per-city trending shelves keyed by the visitor's preferred
// cities; empty for anonymous visitors.
type HomePage struct {
	Featured    []Hotel                  `json:"featured"`
	Recommended []RankedHotel            `json:"recommended"`
	Trending    []RankedHotel            `json:"trending"`
	ByCity      map[string][]RankedHotel `json:"by_city,omitempty"`
}
