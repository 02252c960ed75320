package model

// ArtistAccount is one artist's accumulating royalty balance.
// The balance is credited by payment distribution and debited only by
// withdrawals bounded by the current balance; it is never negative.
type ArtistAccount struct {
	ArtistID uint64 `json:"artistId"`
	Balance  uint64 `json:"balance"`
}
