package entity

// Bounds is optional section geometry, present only when the upstream text
// producer reports layout information.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DocumentSection is a named logical region of page text. Sections are
// created fresh for each extraction, never mutated, and discarded once the
// section parsers have consumed them. A logical section split across two
// pages yields two sections with the same name.
type DocumentSection struct {
	Name      string  `json:"name"`
	Text      string  `json:"text"`
	PageIndex int     `json:"page_index"`
	Bounds    *Bounds `json:"bounds,omitempty"`
}
