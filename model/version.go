package model

// TrackVersion is an immutable snapshot of a track's content fields.
// Versions for a track form the contiguous sequence 1..=CurrentVersion;
// the chain only ever grows.
type TrackVersion struct {
	Version           uint32   `json:"version"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Contributors      []uint64 `json:"contributors"`
	ChangedBy         uint64   `json:"changedBy"` // user id
	ChangedAt         int64    `json:"changedAt"` // unix millis
	ChangeDescription string   `json:"changeDescription,omitempty"`
}

// VersionComparison is a field-by-field diff between two versions of a track.
// Diff strings are human readable, "old -> new".
type VersionComparison struct {
	Version1            uint32 `json:"version1"`
	Version2            uint32 `json:"version2"`
	TitleChanged        bool   `json:"titleChanged"`
	DescriptionChanged  bool   `json:"descriptionChanged"`
	ContributorsChanged bool   `json:"contributorsChanged"`
	TitleDiff           string `json:"titleDiff,omitempty"`
	DescriptionDiff     string `json:"descriptionDiff,omitempty"`
	ContributorsDiff    string `json:"contributorsDiff,omitempty"`
}

// Changed reports whether any compared field differs.
func (c *VersionComparison) Changed() bool {
	return c.TitleChanged || c.DescriptionChanged || c.ContributorsChanged
}
