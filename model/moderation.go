package model

// ModerationTargetType names the kind of content a moderation item points at.
type ModerationTargetType string

const (
	ModerationTargetTrack   ModerationTargetType = "track"
	ModerationTargetComment ModerationTargetType = "comment"
)

// Valid reports whether t is a known target type.
func (t ModerationTargetType) Valid() bool {
	return t == ModerationTargetTrack || t == ModerationTargetComment
}

// ModerationStatus is the review state of a queue item.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRemoved  ModerationStatus = "removed"
)

// ModerationItem is one entry in the moderation queue. Items are created
// either by an explicit user flag (FlaggedBy set) or by the automatic
// content screener (FlaggedBy nil).
type ModerationItem struct {
	ID         uint64               `json:"id"`
	TargetType ModerationTargetType `json:"targetType"`
	TargetID   string               `json:"targetId"`
	FlaggedBy  *uint64              `json:"flaggedBy,omitempty"` // nil when auto-flagged
	Reason     string               `json:"reason"`
	Status     ModerationStatus     `json:"status"`
	CreatedAt  int64                `json:"createdAt"` // unix millis
	ReviewedBy *uint64              `json:"reviewedBy,omitempty"`
	ReviewedAt *int64               `json:"reviewedAt,omitempty"`
	Notes      string               `json:"notes,omitempty"`
}
