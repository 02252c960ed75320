package store

import (
	"fmt"

	"musehub/logger"
	"musehub/model"
)

// SetLicense attaches a license to a track, replacing any previous one.
// IssuedAt is stamped by the store.
func (s *Store) SetLicense(caller Caller, trackID uint64, licenseType model.LicenseType, terms, contractText string) (model.TrackLicense, error) {
	if !licenseType.Valid() {
		return model.TrackLicense{}, fmt.Errorf("%w: unknown license type %q", ErrValidation, licenseType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[trackID]
	if !ok {
		return model.TrackLicense{}, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	if err := s.policy.Allow(caller, ActionMutateTrack, track); err != nil {
		return model.TrackLicense{}, err
	}

	license := model.TrackLicense{
		TrackID:      trackID,
		Type:         licenseType,
		Terms:        terms,
		ContractText: contractText,
		IssuedAt:     s.now(),
	}
	s.licenses[trackID] = license

	logger.Info("track license set",
		logger.Uint64("trackId", trackID),
		logger.String("type", string(licenseType)))
	return license, nil
}

// License returns a track's license. A track without one yields ErrNotFound
// even when the track itself exists.
func (s *Store) License(trackID uint64) (model.TrackLicense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	license, ok := s.licenses[trackID]
	if !ok {
		return model.TrackLicense{}, fmt.Errorf("%w: no license for track %d", ErrNotFound, trackID)
	}
	return license, nil
}
