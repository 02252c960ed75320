package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musehub/core/royalty"
	"musehub/model"
)

func TestRegisterArtistIdempotent(t *testing.T) {
	s := newTestStore(t, Options{})

	account := s.RegisterArtist(1)
	assert.Equal(t, uint64(1), account.ArtistID)
	assert.Zero(t, account.Balance)

	// Crediting then re-registering must not reset the balance.
	s.ledger[1].Balance = 50
	again := s.RegisterArtist(1)
	assert.Equal(t, uint64(50), again.Balance)
}

func TestBalanceUnknownArtist(t *testing.T) {
	s := newTestStore(t, Options{})
	_, err := s.Balance(7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithdraw(t *testing.T) {
	s := newTestStore(t, Options{})
	s.RegisterArtist(1)
	s.ledger[1].Balance = 100

	_, err := s.Withdraw(1, 0)
	assert.ErrorIs(t, err, ErrValidation, "zero withdrawal")

	_, err = s.Withdraw(1, 101)
	assert.ErrorIs(t, err, ErrValidation, "over-withdrawal")
	balance, err := s.Balance(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance, "failed withdrawal changes nothing")

	remaining, err := s.Withdraw(1, 100)
	require.NoError(t, err)
	assert.Zero(t, remaining, "balance may be drained to exactly zero")

	_, err = s.Withdraw(42, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetSplitsLegacy(t *testing.T) {
	s := newTestStore(t, Options{})
	mustCreate(t, s, alice, "Track", "desc", []uint64{1})

	// Legacy mode: the sum is not checked.
	_, err := s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 41}})
	assert.NoError(t, err)

	// Per-entry bound still applies.
	_, err = s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 101}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetSplitsStrict(t *testing.T) {
	s := newTestStore(t, Options{StrictSplits: true})
	mustCreate(t, s, alice, "Track", "desc", []uint64{1})

	_, err := s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 41}})
	assert.ErrorIs(t, err, ErrValidation, "sum must be exactly 100")

	_, err = s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 50}, {ArtistID: 1, Pct: 50}})
	assert.ErrorIs(t, err, ErrValidation, "duplicate artists rejected")

	_, err = s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 40}})
	assert.NoError(t, err)
}

func TestDistributePayment(t *testing.T) {
	s := newTestStore(t, Options{})
	mustCreate(t, s, alice, "Track", "desc", []uint64{1, 2})
	s.RegisterArtist(1)
	s.RegisterArtist(2)
	_, err := s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 40}})
	require.NoError(t, err)

	track, err := s.DistributePayment(alice, 1, 50, 100)
	require.NoError(t, err)
	require.Len(t, track.Payments, 1)
	assert.Equal(t, uint64(50), track.Payments[0].Payer)
	assert.Equal(t, uint64(100), track.Payments[0].Amount)

	b1, _ := s.Balance(1)
	b2, _ := s.Balance(2)
	assert.Equal(t, uint64(60), b1)
	assert.Equal(t, uint64(40), b2)
}

func TestDistributePaymentTruncates(t *testing.T) {
	s := newTestStore(t, Options{})
	mustCreate(t, s, alice, "Track", "desc", []uint64{1, 2})
	s.RegisterArtist(1)
	s.RegisterArtist(2)
	_, err := s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 41}})
	require.NoError(t, err)

	_, err = s.DistributePayment(alice, 1, 50, 10)
	require.NoError(t, err)

	b1, _ := s.Balance(1)
	b2, _ := s.Balance(2)
	assert.Equal(t, uint64(6), b1)
	assert.Equal(t, uint64(4), b2, "each share truncates independently")
}

func TestDistributePaymentUnknownArtistLegacy(t *testing.T) {
	s := newTestStore(t, Options{})
	mustCreate(t, s, alice, "Track", "desc", []uint64{1})
	s.RegisterArtist(1)
	_, err := s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 9, Pct: 40}})
	require.NoError(t, err)

	_, err = s.DistributePayment(alice, 1, 50, 100)
	require.NoError(t, err, "unregistered split artists are skipped silently")

	b1, _ := s.Balance(1)
	assert.Equal(t, uint64(60), b1)
	_, err = s.Balance(9)
	assert.ErrorIs(t, err, ErrNotFound, "skipping does not create an account")
}

func TestDistributePaymentUnknownArtistStrict(t *testing.T) {
	s := newTestStore(t, Options{StrictSplits: true})
	mustCreate(t, s, alice, "Track", "desc", []uint64{1})
	s.RegisterArtist(1)
	_, err := s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 9, Pct: 40}})
	require.NoError(t, err)

	_, err = s.DistributePayment(alice, 1, 50, 100)
	assert.ErrorIs(t, err, ErrValidation)

	b1, _ := s.Balance(1)
	assert.Zero(t, b1, "strict mode rejects before any credit")
	track, err := s.GetTrack(1)
	require.NoError(t, err)
	assert.Empty(t, track.Payments)
}

func TestDistributePaymentNoSplits(t *testing.T) {
	s := newTestStore(t, Options{})
	mustCreate(t, s, alice, "Track", "desc", []uint64{1})

	_, err := s.DistributePayment(alice, 1, 50, 100)
	assert.ErrorIs(t, err, royalty.ErrNoSplits)

	_, err = s.DistributePayment(alice, 1, 50, 0)
	assert.ErrorIs(t, err, ErrValidation, "zero payments rejected")
}

func TestCreditSaturates(t *testing.T) {
	account := &model.ArtistAccount{ArtistID: 1, Balance: math.MaxUint64 - 5}
	creditLocked(account, 10)
	assert.Equal(t, uint64(math.MaxUint64), account.Balance)
}

func TestPaymentHistory(t *testing.T) {
	s := newTestStore(t, Options{})
	mustCreate(t, s, alice, "Track", "desc", []uint64{1})
	s.RegisterArtist(1)
	_, err := s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 100}})
	require.NoError(t, err)

	_, err = s.DistributePayment(alice, 1, 50, 100)
	require.NoError(t, err)
	_, err = s.DistributePayment(alice, 1, 51, 200)
	require.NoError(t, err)

	payments, err := s.PaymentHistory(1)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, uint64(100), payments[0].Amount)
	assert.Equal(t, uint64(200), payments[1].Amount)
	assert.LessOrEqual(t, payments[0].Timestamp, payments[1].Timestamp)
}

func TestListAccounts(t *testing.T) {
	s := newTestStore(t, Options{})
	s.RegisterArtist(3)
	s.RegisterArtist(1)
	s.RegisterArtist(2)

	accounts := s.ListAccounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, uint64(1), accounts[0].ArtistID)
	assert.Equal(t, uint64(2), accounts[1].ArtistID)
	assert.Equal(t, uint64(3), accounts[2].ArtistID)
}
