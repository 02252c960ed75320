package store

import (
	"fmt"
	"strings"

	"musehub/logger"
	"musehub/model"
)

// AddVersion appends a new immutable version to a track's chain and rolls
// the live fields forward to it. The new version number is always
// len(chain)+1, so the chain stays the contiguous sequence 1..=N.
func (s *Store) AddVersion(caller Caller, trackID uint64, title, description string, contributors []uint64, changeDescription string) (*model.Track, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[trackID]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	if err := s.policy.Allow(caller, ActionMutateTrack, track); err != nil {
		return nil, err
	}

	version := s.appendVersionLocked(track, title, description, contributors, caller.UserID, changeDescription)
	s.autoFlagLocked(model.ModerationTargetTrack, fmt.Sprintf("%d", trackID), title+" "+description)

	logger.Info("track version added",
		logger.Uint64("trackId", trackID),
		logger.Int("version", int(version)))
	return track.Clone(), nil
}

// VersionHistory returns the full chain, oldest first.
func (s *Store) VersionHistory(trackID uint64) ([]model.TrackVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain, ok := s.versions[trackID]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	out := make([]model.TrackVersion, len(chain))
	for i, v := range chain {
		out[i] = v
		out[i].Contributors = append([]uint64(nil), v.Contributors...)
	}
	return out, nil
}

// GetVersion returns one version of a track's chain.
func (s *Store) GetVersion(trackID uint64, version uint32) (model.TrackVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.versionLocked(trackID, version)
	if err != nil {
		return model.TrackVersion{}, err
	}
	v.Contributors = append([]uint64(nil), v.Contributors...)
	return v, nil
}

// RevertToVersion restores the content of an earlier version by appending
// it as a NEW version at the head of the chain. History is never rewritten:
// reverting track at version 3 to version 1 produces version 4 carrying
// version 1's content.
func (s *Store) RevertToVersion(caller Caller, trackID uint64, target uint32) (*model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[trackID]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	if err := s.policy.Allow(caller, ActionMutateTrack, track); err != nil {
		return nil, err
	}
	old, err := s.versionLocked(trackID, target)
	if err != nil {
		return nil, err
	}

	s.appendVersionLocked(track, old.Title, old.Description, old.Contributors,
		caller.UserID, fmt.Sprintf("Reverted to version %d", target))

	logger.Info("track reverted",
		logger.Uint64("trackId", trackID),
		logger.Int("targetVersion", int(target)),
		logger.Int("newVersion", int(track.CurrentVersion)))
	return track.Clone(), nil
}

// CompareVersions diffs two versions of the same track field by field.
// Comparing a version with itself yields an all-false comparison.
func (s *Store) CompareVersions(trackID uint64, v1, v2 uint32) (model.VersionComparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.versionLocked(trackID, v1)
	if err != nil {
		return model.VersionComparison{}, err
	}
	b, err := s.versionLocked(trackID, v2)
	if err != nil {
		return model.VersionComparison{}, err
	}

	cmp := model.VersionComparison{Version1: v1, Version2: v2}
	if a.Title != b.Title {
		cmp.TitleChanged = true
		cmp.TitleDiff = fmt.Sprintf("%s -> %s", a.Title, b.Title)
	}
	if a.Description != b.Description {
		cmp.DescriptionChanged = true
		cmp.DescriptionDiff = fmt.Sprintf("%s -> %s", a.Description, b.Description)
	}
	if !equalIDs(a.Contributors, b.Contributors) {
		cmp.ContributorsChanged = true
		cmp.ContributorsDiff = fmt.Sprintf("%v -> %v", a.Contributors, b.Contributors)
	}
	return cmp, nil
}

// appendVersionLocked grows the chain by one and updates the track's live
// fields. Caller must hold s.mu.
func (s *Store) appendVersionLocked(track *model.Track, title, description string, contributors []uint64, changedBy uint64, changeDescription string) uint32 {
	chain := s.versions[track.ID]
	version := uint32(len(chain) + 1)
	s.versions[track.ID] = append(chain, model.TrackVersion{
		Version:           version,
		Title:             title,
		Description:       description,
		Contributors:      append([]uint64(nil), contributors...),
		ChangedBy:         changedBy,
		ChangedAt:         s.now(),
		ChangeDescription: changeDescription,
	})
	track.Title = title
	track.Description = description
	track.Contributors = append([]uint64(nil), contributors...)
	track.CurrentVersion = version
	return version
}

func (s *Store) versionLocked(trackID uint64, version uint32) (model.TrackVersion, error) {
	chain, ok := s.versions[trackID]
	if !ok {
		return model.TrackVersion{}, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	if version < 1 || int(version) > len(chain) {
		return model.TrackVersion{}, fmt.Errorf("%w: track %d has no version %d", ErrNotFound, trackID, version)
	}
	return chain[version-1], nil
}

func equalIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
