// Package store owns every aggregate of the collaborative-music core:
// tracks with their version chains, the artist royalty ledger, the
// moderation queue and the banned-keyword screen. All state-affecting
// operations are serialized behind a single mutex so each exposed call is
// one whole transaction: it either validates and commits completely, or
// returns an error without side effects. There are no partial payments and
// no torn version chains.
package store

import (
	"sync"
	"time"

	"musehub/core/screen"
	"musehub/model"
)

// Store is the aggregate root. Access state only through its methods.
type Store struct {
	mu sync.Mutex

	screen       *screen.Screen
	policy       Policy
	strictSplits bool
	onFlag       func(model.ModerationItem)
	now          func() int64 // unix millis

	tracks   map[uint64]*model.Track
	versions map[uint64][]model.TrackVersion
	queue    []model.ModerationItem
	ledger   map[uint64]*model.ArtistAccount
	files    map[uint64]model.TrackFileInfo
	licenses map[uint64]model.TrackLicense

	nextTrackID uint64
	nextItemID  uint64
}

// Options configures a new Store.
type Options struct {
	// Screen classifies user-supplied text. Defaults to the stock keyword
	// list when nil.
	Screen *screen.Screen
	// Policy is consulted before every mutating call. Defaults to OpenPolicy.
	Policy Policy
	// StrictSplits enables split-table validation: percentages must sum to
	// 100, artist ids must be unique and known at distribution time. The
	// default (false) keeps the legacy behavior: no sum check, unknown
	// artists silently skipped.
	StrictSplits bool
	// OnFlag, when set, is invoked (outside validation, inside the
	// operation) for every item appended to the moderation queue.
	OnFlag func(model.ModerationItem)
}

// New creates an empty store.
func New(opts Options) *Store {
	s := &Store{
		screen:       opts.Screen,
		policy:       opts.Policy,
		strictSplits: opts.StrictSplits,
		onFlag:       opts.OnFlag,
		now:          func() int64 { return time.Now().UnixMilli() },
		tracks:       make(map[uint64]*model.Track),
		versions:     make(map[uint64][]model.TrackVersion),
		ledger:       make(map[uint64]*model.ArtistAccount),
		files:        make(map[uint64]model.TrackFileInfo),
		licenses:     make(map[uint64]model.TrackLicense),
		nextTrackID:  1,
		nextItemID:   1,
	}
	if s.screen == nil {
		s.screen = screen.New(screen.DefaultKeywords())
	}
	if s.policy == nil {
		s.policy = OpenPolicy{}
	}
	return s
}

// Screen exposes the content screen, e.g. for the keywords file watcher.
// Keyword mutation through the API goes via AddKeyword/RemoveKeyword,
// which enforce policy.
func (s *Store) Screen() *screen.Screen {
	return s.screen
}
