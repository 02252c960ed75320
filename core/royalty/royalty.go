// Package royalty computes percentage-split royalty shares. The math is
// pure integer arithmetic so distributions are reproducible and auditable:
// no floating point, no rounding-mode ambiguity.
package royalty

import (
	"errors"
	"fmt"

	"musehub/model"
)

// ErrNoSplits is returned when distribution is attempted on a track with no
// split table configured.
var ErrNoSplits = errors.New("no splits configured")

// Share is one artist's computed cut of a payment.
type Share struct {
	ArtistID uint64
	Amount   uint64
}

// ShareOf returns floor(amount * pct / 100) without intermediate overflow.
// Splitting amount into hundreds plus remainder keeps every product inside
// uint64 while giving the exact truncated quotient.
func ShareOf(amount uint64, pct uint8) uint64 {
	p := uint64(pct)
	return amount/100*p + amount%100*p/100
}

// Shares computes the per-artist shares for one payment against a split
// table. Truncation means the shares may sum to less than amount; the
// remainder is not tracked anywhere, matching the platform's ledger rules.
func Shares(splits []model.Split, amount uint64) ([]Share, error) {
	if len(splits) == 0 {
		return nil, ErrNoSplits
	}
	shares := make([]Share, 0, len(splits))
	for _, split := range splits {
		shares = append(shares, Share{
			ArtistID: split.ArtistID,
			Amount:   ShareOf(amount, split.Pct),
		})
	}
	return shares, nil
}

// ValidateSplits applies the strict split rules: every percentage within
// 0..100, no duplicate artist ids, and percentages summing to exactly 100.
// Legacy mode skips this entirely.
func ValidateSplits(splits []model.Split) error {
	if len(splits) == 0 {
		return ErrNoSplits
	}
	seen := make(map[uint64]struct{}, len(splits))
	var sum uint64
	for _, split := range splits {
		if split.Pct > 100 {
			return fmt.Errorf("split percentage %d for artist %d out of range", split.Pct, split.ArtistID)
		}
		if _, dup := seen[split.ArtistID]; dup {
			return fmt.Errorf("duplicate artist %d in split table", split.ArtistID)
		}
		seen[split.ArtistID] = struct{}{}
		sum += uint64(split.Pct)
	}
	if sum != 100 {
		return fmt.Errorf("split percentages sum to %d, want 100", sum)
	}
	return nil
}
