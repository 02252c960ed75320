package store

import (
	"context"
	"encoding/json"
	"fmt"

	"musehub/logger"
	"musehub/model"
)

// Persister saves and loads whole-store snapshots. LoadSnapshot returns
// (nil, nil) when no snapshot exists yet.
type Persister interface {
	SaveSnapshot(ctx context.Context, data []byte) error
	LoadSnapshot(ctx context.Context) ([]byte, error)
}

// snapshot is the serialized form of the entire store state, including the
// id counters and the live banned-keyword set.
type snapshot struct {
	Tracks      map[uint64]*model.Track           `json:"tracks"`
	Versions    map[uint64][]model.TrackVersion   `json:"versions"`
	Queue       []model.ModerationItem            `json:"queue"`
	Ledger      map[uint64]*model.ArtistAccount   `json:"ledger"`
	Files       map[uint64]model.TrackFileInfo    `json:"files"`
	Licenses    map[uint64]model.TrackLicense     `json:"licenses"`
	Keywords    []string                          `json:"keywords"`
	NextTrackID uint64                            `json:"nextTrackId"`
	NextItemID  uint64                            `json:"nextItemId"`
}

// Snapshot serializes the full store state to JSON.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Tracks:      s.tracks,
		Versions:    s.versions,
		Queue:       s.queue,
		Ledger:      s.ledger,
		Files:       s.files,
		Licenses:    s.licenses,
		Keywords:    s.screen.List(),
		NextTrackID: s.nextTrackID,
		NextItemID:  s.nextItemID,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the entire store state with a previously taken snapshot.
func (s *Store) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snap.NextTrackID == 0 {
		snap.NextTrackID = 1
	}
	if snap.NextItemID == 0 {
		snap.NextItemID = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracks = snap.Tracks
	if s.tracks == nil {
		s.tracks = make(map[uint64]*model.Track)
	}
	for _, track := range s.tracks {
		// Maps may round-trip as null; keep them allocated.
		if track.Roles == nil {
			track.Roles = make(map[uint64]model.TrackRole)
		}
		if track.Ratings == nil {
			track.Ratings = make(map[uint64]uint8)
		}
	}
	s.versions = snap.Versions
	if s.versions == nil {
		s.versions = make(map[uint64][]model.TrackVersion)
	}
	s.queue = snap.Queue
	s.ledger = snap.Ledger
	if s.ledger == nil {
		s.ledger = make(map[uint64]*model.ArtistAccount)
	}
	s.files = snap.Files
	if s.files == nil {
		s.files = make(map[uint64]model.TrackFileInfo)
	}
	s.licenses = snap.Licenses
	if s.licenses == nil {
		s.licenses = make(map[uint64]model.TrackLicense)
	}
	s.screen.Replace(snap.Keywords)
	s.nextTrackID = snap.NextTrackID
	s.nextItemID = snap.NextItemID
	return nil
}

// SaveTo snapshots the store through a persister.
func (s *Store) SaveTo(ctx context.Context, p Persister) error {
	data, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := p.SaveSnapshot(ctx, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logger.Debug("store snapshot saved", logger.Int("bytes", len(data)))
	return nil
}

// LoadFrom restores the store from a persister. A missing snapshot leaves
// the store empty and is not an error.
func (s *Store) LoadFrom(ctx context.Context, p Persister) error {
	data, err := p.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if data == nil {
		logger.Info("no store snapshot found, starting empty")
		return nil
	}
	if err := s.Restore(data); err != nil {
		return err
	}
	logger.Info("store snapshot restored", logger.Int("bytes", len(data)))
	return nil
}
