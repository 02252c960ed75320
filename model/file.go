package model

// MaxTrackFileSize caps uploaded track files at 10 MiB.
const MaxTrackFileSize = 10 * 1024 * 1024

// TrackFileInfo is the metadata of the single uploaded file for a track.
// The bytes themselves live in object storage keyed by track id and are
// overwritten on re-upload.
type TrackFileInfo struct {
	TrackID     uint64 `json:"trackId"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	UploadedBy  uint64 `json:"uploadedBy"`
	UploadedAt  int64  `json:"uploadedAt"` // unix millis
}
