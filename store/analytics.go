package store

import (
	"fmt"

	"musehub/model"
)

// TrackAnalytics aggregates one track's engagement numbers from live state.
func (s *Store) TrackAnalytics(trackID uint64) (model.TrackAnalytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[trackID]
	if !ok {
		return model.TrackAnalytics{}, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}

	var revenue uint64
	for _, payment := range track.Payments {
		revenue += payment.Amount
	}
	var ratingSum uint64
	for _, rating := range track.Ratings {
		ratingSum += uint64(rating)
	}
	analytics := model.TrackAnalytics{
		TrackID:       trackID,
		PlayCount:     track.PlayCount,
		Revenue:       revenue,
		CommentsCount: uint64(len(track.Comments)),
		RatingsCount:  uint64(len(track.Ratings)),
	}
	if analytics.RatingsCount > 0 {
		analytics.AvgRating = float64(ratingSum) / float64(analytics.RatingsCount)
	}
	return analytics, nil
}

// PlatformAnalytics aggregates engagement numbers across all tracks. The
// average rating spans every rating on the platform, not a per-track mean
// of means.
func (s *Store) PlatformAnalytics() model.PlatformAnalytics {
	s.mu.Lock()
	defer s.mu.Unlock()

	analytics := model.PlatformAnalytics{
		TotalTracks:   uint64(len(s.tracks)),
		TracksByGenre: make(map[string]int64),
	}
	var ratingSum, ratingCount uint64
	for _, track := range s.tracks {
		analytics.TotalPlays += track.PlayCount
		for _, payment := range track.Payments {
			analytics.TotalRevenue += payment.Amount
		}
		for _, rating := range track.Ratings {
			ratingSum += uint64(rating)
			ratingCount++
		}
		if track.Genre != "" {
			analytics.TracksByGenre[track.Genre]++
		}
	}
	if ratingCount > 0 {
		analytics.AvgRating = float64(ratingSum) / float64(ratingCount)
	}
	return analytics
}
