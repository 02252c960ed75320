package store

import (
	"fmt"
	"sort"
	"strings"

	"musehub/logger"
	"musehub/model"
)

// CreateTrack registers a new track. Title, description and contributors
// must be non-empty; this is enforced at creation only, later edits may
// blank them (historical behavior, kept). Every contributor starts as an
// Owner. The version chain is seeded with version 1 and the combined
// title/description text is run through the content screen.
func (s *Store) CreateTrack(caller Caller, title, description string, contributors []uint64) (*model.Track, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if len(contributors) == 0 {
		return nil, fmt.Errorf("%w: at least one contributor is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.policy.Allow(caller, ActionMutateTrack, nil); err != nil {
		return nil, err
	}

	now := s.now()
	id := s.nextTrackID
	s.nextTrackID++

	roles := make(map[uint64]model.TrackRole, len(contributors))
	for _, cid := range contributors {
		roles[cid] = model.RoleOwner
	}
	track := &model.Track{
		ID:             id,
		Title:          title,
		Description:    description,
		Contributors:   append([]uint64(nil), contributors...),
		CurrentVersion: 1,
		Visibility:     model.VisibilityPublic,
		Roles:          roles,
		Ratings:        make(map[uint64]uint8),
		Downloadable:   true,
	}
	s.tracks[id] = track
	s.versions[id] = []model.TrackVersion{{
		Version:           1,
		Title:             title,
		Description:       description,
		Contributors:      append([]uint64(nil), contributors...),
		ChangedBy:         caller.UserID,
		ChangedAt:         now,
		ChangeDescription: "Initial version",
	}}

	s.autoFlagLocked(model.ModerationTargetTrack, fmt.Sprintf("%d", id), title+" "+description)

	logger.Info("track created",
		logger.Uint64("trackId", id),
		logger.String("title", title),
		logger.Uint64("createdBy", caller.UserID))
	return track.Clone(), nil
}

// GetTrack returns a copy of the track, or ErrNotFound.
func (s *Store) GetTrack(id uint64) (*model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[id]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, id)
	}
	return track.Clone(), nil
}

// ListTracks returns all tracks ordered by id.
func (s *Store) ListTracks() []*model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectLocked(func(*model.Track) bool { return true })
}

// EditTrack overwrites the track's live fields and stored version number
// directly, WITHOUT touching the version chain. This is the metadata-only
// escape hatch: it can make CurrentVersion drift from the chain's tail.
// Use AddVersion for edits that must stay consistent with history.
func (s *Store) EditTrack(caller Caller, id uint64, title, description string, contributors []uint64, version uint32) (*model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[id]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, id)
	}
	if err := s.policy.Allow(caller, ActionMutateTrack, track); err != nil {
		return nil, err
	}

	track.Title = title
	track.Description = description
	track.Contributors = append([]uint64(nil), contributors...)
	track.CurrentVersion = version
	return track.Clone(), nil
}

// DeleteTrack hard-deletes a track together with its version chain and
// file metadata. Admin or owner only.
func (s *Store) DeleteTrack(caller Caller, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[id]
	if !ok {
		return fmt.Errorf("%w: track %d", ErrNotFound, id)
	}
	if err := s.policy.Allow(caller, ActionDeleteTrack, track); err != nil {
		return err
	}

	delete(s.tracks, id)
	delete(s.versions, id)
	delete(s.files, id)
	delete(s.licenses, id)
	logger.Info("track deleted",
		logger.Uint64("trackId", id),
		logger.Uint64("deletedBy", caller.UserID))
	return nil
}

// AddComment appends a comment and screens its text.
func (s *Store) AddComment(caller Caller, trackID, commenter uint64, text string) (*model.Track, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
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

	now := s.now()
	track.Comments = append(track.Comments, model.Comment{
		Commenter: commenter,
		Text:      text,
		CreatedAt: now,
	})
	s.autoFlagLocked(model.ModerationTargetComment,
		fmt.Sprintf("track_%d_comment_%d", trackID, now), text)
	return track.Clone(), nil
}

// ListComments returns the comments of a track.
func (s *Store) ListComments(trackID uint64) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	return append([]model.Comment(nil), track.Comments...), nil
}

// Rate records a user's 1..5 rating. Out-of-range ratings are rejected and
// leave existing ratings untouched; a repeat rating from the same user
// overwrites the previous one.
func (s *Store) Rate(caller Caller, trackID, userID uint64, rating uint8) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating %d outside 1..5", ErrValidation, rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[trackID]
	if !ok {
		return fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	if err := s.policy.Allow(caller, ActionMutateTrack, track); err != nil {
		return err
	}
	track.Ratings[userID] = rating
	return nil
}

// RatingSummary returns the number of ratings and their average.
func (s *Store) RatingSummary(trackID uint64) (count uint64, avg float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	var sum uint64
	for _, r := range track.Ratings {
		sum += uint64(r)
	}
	count = uint64(len(track.Ratings))
	if count > 0 {
		avg = float64(sum) / float64(count)
	}
	return count, avg, nil
}

// UserRating returns one user's rating for a track, ok=false if unrated.
func (s *Store) UserRating(trackID, userID uint64) (uint8, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return 0, false, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	r, rated := track.Ratings[userID]
	return r, rated, nil
}

// AddTag adds a tag to a track's tag set. Adding an existing tag is a no-op.
func (s *Store) AddTag(caller Caller, trackID uint64, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag is required", ErrValidation)
	}
	return s.mutateTrack(caller, trackID, func(track *model.Track) {
		for _, t := range track.Tags {
			if t == tag {
				return
			}
		}
		track.Tags = append(track.Tags, tag)
	})
}

// RemoveTag removes a tag; removing an absent tag is a no-op.
func (s *Store) RemoveTag(caller Caller, trackID uint64, tag string) error {
	return s.mutateTrack(caller, trackID, func(track *model.Track) {
		for i, t := range track.Tags {
			if t == tag {
				track.Tags = append(track.Tags[:i], track.Tags[i+1:]...)
				return
			}
		}
	})
}

// SetGenre sets the track's genre.
func (s *Store) SetGenre(caller Caller, trackID uint64, genre string) error {
	return s.mutateTrack(caller, trackID, func(track *model.Track) {
		track.Genre = genre
	})
}

// Genre returns the track's genre ("" when unset).
func (s *Store) Genre(trackID uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return "", fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	return track.Genre, nil
}

// SetVisibility sets the track's visibility.
func (s *Store) SetVisibility(caller Caller, trackID uint64, visibility model.Visibility) error {
	if !visibility.Valid() {
		return fmt.Errorf("%w: unknown visibility %q", ErrValidation, visibility)
	}
	return s.mutateTrack(caller, trackID, func(track *model.Track) {
		track.Visibility = visibility
	})
}

// Visibility returns the track's visibility.
func (s *Store) Visibility(trackID uint64) (model.Visibility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return "", fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	return track.Visibility, nil
}

// Invite records a user id on the track's invite list (idempotent).
func (s *Store) Invite(caller Caller, trackID, userID uint64) error {
	return s.mutateTrack(caller, trackID, func(track *model.Track) {
		for _, id := range track.Invited {
			if id == userID {
				return
			}
		}
		track.Invited = append(track.Invited, userID)
	})
}

// AssignRole upserts a user's role on a track.
func (s *Store) AssignRole(caller Caller, trackID, userID uint64, role model.TrackRole) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	return s.mutateTrack(caller, trackID, func(track *model.Track) {
		track.Roles[userID] = role
	})
}

// RoleOf returns a user's role on a track, ok=false when none is assigned.
func (s *Store) RoleOf(trackID, userID uint64) (model.TrackRole, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return "", false, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	role, assigned := track.Roles[userID]
	return role, assigned, nil
}

// SetDownloadable toggles the track's download gate.
func (s *Store) SetDownloadable(caller Caller, trackID uint64, downloadable bool) error {
	return s.mutateTrack(caller, trackID, func(track *model.Track) {
		track.Downloadable = downloadable
	})
}

// CanDownload reports whether a track may be downloaded. Unknown tracks
// report false rather than an error, matching the read semantics of the
// download gate.
func (s *Store) CanDownload(trackID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	return ok && track.Downloadable
}

// IncrementPlayCount bumps the monotonically increasing play counter.
func (s *Store) IncrementPlayCount(trackID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	track.PlayCount++
	return nil
}

// SearchByTitle returns tracks whose title contains the query,
// case-insensitive. An empty query matches everything.
func (s *Store) SearchByTitle(query string) []*model.Track {
	q := strings.ToLower(query)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectLocked(func(t *model.Track) bool {
		return q == "" || strings.Contains(strings.ToLower(t.Title), q)
	})
}

// SearchByContributor returns tracks listing the artist as a contributor.
func (s *Store) SearchByContributor(artistID uint64) []*model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectLocked(func(t *model.Track) bool {
		for _, id := range t.Contributors {
			if id == artistID {
				return true
			}
		}
		return false
	})
}

// SearchByTag returns tracks carrying the exact tag.
func (s *Store) SearchByTag(tag string) []*model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectLocked(func(t *model.Track) bool {
		for _, tg := range t.Tags {
			if tg == tag {
				return true
			}
		}
		return false
	})
}

// SearchByGenre returns tracks with the exact genre.
func (s *Store) SearchByGenre(genre string) []*model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectLocked(func(t *model.Track) bool {
		return t.Genre != "" && t.Genre == genre
	})
}

// SetTrackFile records the metadata of a track's uploaded file (the bytes
// live in object storage). One file per track, overwritten on re-upload.
func (s *Store) SetTrackFile(caller Caller, info model.TrackFileInfo) error {
	if info.Size > model.MaxTrackFileSize {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, model.MaxTrackFileSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[info.TrackID]
	if !ok {
		return fmt.Errorf("%w: track %d", ErrNotFound, info.TrackID)
	}
	if err := s.policy.Allow(caller, ActionUploadFile, track); err != nil {
		return err
	}
	info.UploadedAt = s.now()
	s.files[info.TrackID] = info
	return nil
}

// TrackFile returns the file metadata for a track.
func (s *Store) TrackFile(trackID uint64) (model.TrackFileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.files[trackID]
	if !ok {
		return model.TrackFileInfo{}, fmt.Errorf("%w: no file for track %d", ErrNotFound, trackID)
	}
	return info, nil
}

// mutateTrack runs fn on a track under the lock after the policy check.
func (s *Store) mutateTrack(caller Caller, trackID uint64, fn func(*model.Track)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	if err := s.policy.Allow(caller, ActionMutateTrack, track); err != nil {
		return err
	}
	fn(track)
	return nil
}

// collectLocked clones every track matching the filter, ordered by id.
// Caller must hold s.mu.
func (s *Store) collectLocked(match func(*model.Track) bool) []*model.Track {
	ids := make([]uint64, 0, len(s.tracks))
	for id, track := range s.tracks {
		if match(track) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.Track, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.tracks[id].Clone())
	}
	return out
}
