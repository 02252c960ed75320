package store

import (
	"fmt"
	"math"
	"sort"

	"musehub/core/royalty"
	"musehub/logger"
	"musehub/model"
)

// RegisterArtist creates a ledger account with a zero balance. Registering
// an existing artist is a no-op that returns the current account.
func (s *Store) RegisterArtist(artistID uint64) model.ArtistAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.accountLocked(artistID)
}

// Balance returns an artist's current ledger balance.
func (s *Store) Balance(artistID uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.ledger[artistID]
	if !ok {
		return 0, fmt.Errorf("%w: artist %d", ErrNotFound, artistID)
	}
	return account.Balance, nil
}

// ListAccounts returns all ledger accounts ordered by artist id.
func (s *Store) ListAccounts() []model.ArtistAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(s.ledger))
	for id := range s.ledger {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.ArtistAccount, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.ledger[id])
	}
	return out
}

// Withdraw debits an artist's balance. Zero-amount withdrawals and
// withdrawals exceeding the balance are rejected without any state change,
// so the balance can never go negative.
func (s *Store) Withdraw(artistID, amount uint64) (remaining uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.ledger[artistID]
	if !ok {
		return 0, fmt.Errorf("%w: artist %d", ErrNotFound, artistID)
	}
	if amount == 0 {
		return account.Balance, fmt.Errorf("%w: withdrawal amount must be positive", ErrValidation)
	}
	if amount > account.Balance {
		return account.Balance, fmt.Errorf("%w: insufficient balance %d for withdrawal of %d",
			ErrValidation, account.Balance, amount)
	}
	account.Balance -= amount

	logger.Info("royalty withdrawal",
		logger.Uint64("artistId", artistID),
		logger.Uint64("amount", amount),
		logger.Uint64("remaining", account.Balance))
	return account.Balance, nil
}

// SetSplits replaces a track's split table. In strict mode the table must
// pass royalty.ValidateSplits; in legacy mode only the per-entry percentage
// bound is enforced and the sum may be anything.
func (s *Store) SetSplits(caller Caller, trackID uint64, splits []model.Split) (*model.Track, error) {
	for _, split := range splits {
		if split.Pct > 100 {
			return nil, fmt.Errorf("%w: split percentage %d out of range", ErrValidation, split.Pct)
		}
	}
	if s.strictSplits {
		if err := royalty.ValidateSplits(splits); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
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
	track.Splits = append([]model.Split(nil), splits...)
	return track.Clone(), nil
}

// Splits returns a track's split table.
func (s *Store) Splits(trackID uint64) ([]model.Split, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	return append([]model.Split(nil), track.Splits...), nil
}

// DistributePayment applies one royalty payment to a track: each split
// artist's ledger balance is credited with their truncated integer share
// and the payment is appended to the track's payment history. The whole
// distribution happens atomically under the store lock.
//
// Legacy mode credits only artists that already have ledger accounts;
// shares of unregistered artists are dropped silently. Strict mode rejects
// the payment before any credit when a split artist is unregistered.
func (s *Store) DistributePayment(caller Caller, trackID, payer, amount uint64) (*model.Track, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
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

	shares, err := royalty.Shares(track.Splits, amount)
	if err != nil {
		return nil, err
	}
	if s.strictSplits {
		for _, share := range shares {
			if _, registered := s.ledger[share.ArtistID]; !registered {
				return nil, fmt.Errorf("%w: split artist %d has no ledger account", ErrValidation, share.ArtistID)
			}
		}
	}

	for _, share := range shares {
		account, registered := s.ledger[share.ArtistID]
		if !registered {
			continue
		}
		creditLocked(account, share.Amount)
	}
	track.Payments = append(track.Payments, model.Payment{
		Payer:     payer,
		Amount:    amount,
		Timestamp: s.now(),
	})

	logger.Info("royalty payment distributed",
		logger.Uint64("trackId", trackID),
		logger.Uint64("payer", payer),
		logger.Uint64("amount", amount),
		logger.Int("shares", len(shares)))
	return track.Clone(), nil
}

// PaymentHistory returns a track's payment log, oldest first.
func (s *Store) PaymentHistory(trackID uint64) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[trackID]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	return append([]model.Payment(nil), track.Payments...), nil
}

// accountLocked fetches or creates an artist's account. Caller must hold s.mu.
func (s *Store) accountLocked(artistID uint64) *model.ArtistAccount {
	account, ok := s.ledger[artistID]
	if !ok {
		account = &model.ArtistAccount{ArtistID: artistID}
		s.ledger[artistID] = account
	}
	return account
}

// creditLocked adds to a balance, saturating at the uint64 maximum instead
// of wrapping. Caller must hold s.mu.
func creditLocked(account *model.ArtistAccount, amount uint64) {
	if account.Balance > math.MaxUint64-amount {
		account.Balance = math.MaxUint64
		return
	}
	account.Balance += amount
}
