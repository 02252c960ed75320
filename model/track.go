package model

// Visibility controls who can see a track.
type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityPrivate    Visibility = "private"
	VisibilityInviteOnly Visibility = "invite_only"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityInviteOnly:
		return true
	}
	return false
}

// TrackRole is a per-track permission level for one user.
type TrackRole string

const (
	RoleOwner        TrackRole = "owner"
	RoleCollaborator TrackRole = "collaborator"
	RoleViewer       TrackRole = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r TrackRole) Valid() bool {
	switch r {
	case RoleOwner, RoleCollaborator, RoleViewer:
		return true
	}
	return false
}

// Split assigns a percentage share of future royalty payments to one artist.
type Split struct {
	ArtistID uint64 `json:"artistId"`
	Pct      uint8  `json:"pct"` // 0..100
}

// Comment is a single comment on a track. Comments are append-only.
type Comment struct {
	Commenter uint64 `json:"commenter"` // artist id
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"` // unix millis
}

// Payment records one royalty payment made against a track.
// Payments are immutable once appended.
type Payment struct {
	Payer     uint64 `json:"payer"`
	Amount    uint64 `json:"amount"` // smallest currency unit
	Timestamp int64  `json:"timestamp"`
}

// Track is the aggregate root of the collaborative-music core. CurrentVersion
// mirrors the highest version number in the track's version chain as long as
// all edits go through the version chain path (see store.AddVersion).
type Track struct {
	ID             uint64               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Contributors   []uint64             `json:"contributors"` // artist ids, ordered
	CurrentVersion uint32               `json:"currentVersion"`
	Splits         []Split              `json:"splits,omitempty"`
	Comments       []Comment            `json:"comments"`
	Payments       []Payment            `json:"payments"`
	Visibility     Visibility           `json:"visibility"`
	Invited        []uint64             `json:"invited"`
	Roles          map[uint64]TrackRole `json:"roles"`
	Ratings        map[uint64]uint8     `json:"ratings"` // user id -> 1..5, last write wins
	Tags           []string             `json:"tags"`
	Genre          string               `json:"genre,omitempty"`
	PlayCount      uint64               `json:"playCount"`
	Downloadable   bool                 `json:"downloadable"`
}

// Clone returns a deep copy, so callers never alias store-owned state.
func (t *Track) Clone() *Track {
	if t == nil {
		return nil
	}
	c := *t
	c.Contributors = append([]uint64(nil), t.Contributors...)
	if t.Splits != nil {
		c.Splits = append([]Split(nil), t.Splits...)
	}
	c.Comments = append([]Comment(nil), t.Comments...)
	c.Payments = append([]Payment(nil), t.Payments...)
	c.Invited = append([]uint64(nil), t.Invited...)
	c.Tags = append([]string(nil), t.Tags...)
	c.Roles = make(map[uint64]TrackRole, len(t.Roles))
	for id, role := range t.Roles {
		c.Roles[id] = role
	}
	c.Ratings = make(map[uint64]uint8, len(t.Ratings))
	for id, rating := range t.Ratings {
		c.Ratings[id] = rating
	}
	return &c
}
