package export

import "time"

// Run describes one finished crawl.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	StartURL   string
	Engine     string
	Target     int
	Pages      int
	Reason     string
	Items      int
}

// Row is an item as stored, in its rendered position.
type Row struct {
	RunID        string
	Position     int
	ID           string
	Title        string
	Kind         string
	URL          string
	AgeText      string
	Score        string
	By           string
	CommentsText string
	PostedAt     time.Time
	MinutesAgo   int
}
