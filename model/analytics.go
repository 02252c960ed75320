package model

// TrackAnalytics aggregates one track's engagement numbers.
// Computed on demand from current state, never cached.
type TrackAnalytics struct {
	TrackID       uint64  `json:"trackId"`
	PlayCount     uint64  `json:"playCount"`
	Revenue       uint64  `json:"revenue"`
	CommentsCount uint64  `json:"commentsCount"`
	RatingsCount  uint64  `json:"ratingsCount"`
	AvgRating     float64 `json:"avgRating"`
}

// PlatformAnalytics aggregates engagement numbers across all tracks.
type PlatformAnalytics struct {
	TotalTracks   uint64           `json:"totalTracks"`
	TotalPlays    uint64           `json:"totalPlays"`
	TotalRevenue  uint64           `json:"totalRevenue"`
	AvgRating     float64          `json:"avgRating"`
	TracksByGenre map[string]int64 `json:"tracksByGenre"`
}
