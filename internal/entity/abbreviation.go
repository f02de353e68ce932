package entity

import "time"

// UnknownAbbreviation aggregates every sighting of a line-item label the
// terminology table does not recognize. Records are durable and only deleted
// by explicit operator action.
type UnknownAbbreviation struct {
	Abbreviation string    `json:"abbreviation"`
	Count        int       `json:"count"`
	Values       []float64 `json:"values"`
	Contexts     []string  `json:"contexts"`
	FirstSeen    time.Time `json:"first_seen"`
	LastSeen     time.Time `json:"last_seen"`
}

// HasContext reports whether the abbreviation has been seen in the given
// tracking context.
func (u *UnknownAbbreviation) HasContext(context string) bool {
	for _, c := range u.Contexts {
		if c == context {
			return true
		}
	}
	return false
}

// AddContext appends a context if not already present, preserving set
// semantics over the slice.
func (u *UnknownAbbreviation) AddContext(context string) {
	if context == "" || u.HasContext(context) {
		return
	}
	u.Contexts = append(u.Contexts, context)
}

// MeanValue returns the mean of the observed values, or 0 when none have
// been recorded.
func (u *UnknownAbbreviation) MeanValue() float64 {
	if len(u.Values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range u.Values {
		sum += v
	}
	return sum / float64(len(u.Values))
}
