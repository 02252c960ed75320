package model

// LicenseType names how a track's rights are offered.
type LicenseType string

const (
	LicenseAllRightsReserved LicenseType = "all_rights_reserved"
	LicenseCreativeCommons   LicenseType = "creative_commons"
	LicenseCustom            LicenseType = "custom"
)

// Valid reports whether t is a known license type.
func (t LicenseType) Valid() bool {
	switch t {
	case LicenseAllRightsReserved, LicenseCreativeCommons, LicenseCustom:
		return true
	}
	return false
}

// TrackLicense is the license attached to one track. At most one license
// per track; setting again replaces it.
type TrackLicense struct {
	TrackID      uint64      `json:"trackId"`
	Type         LicenseType `json:"type"`
	Terms        string      `json:"terms,omitempty"`
	ContractText string      `json:"contractText,omitempty"`
	IssuedAt     int64       `json:"issuedAt"` // unix millis
}
