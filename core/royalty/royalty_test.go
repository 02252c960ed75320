package royalty

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musehub/model"
)

func TestShareOf(t *testing.T) {
	assert.Equal(t, uint64(60), ShareOf(100, 60))
	assert.Equal(t, uint64(6), ShareOf(10, 60))
	assert.Equal(t, uint64(4), ShareOf(10, 41))
	assert.Equal(t, uint64(0), ShareOf(1, 41))
	assert.Equal(t, uint64(0), ShareOf(0, 100))
	assert.Equal(t, uint64(33), ShareOf(100, 33))
}

func TestShareOfNoOverflow(t *testing.T) {
	// A full-percentage share of the maximum amount must come back exact.
	assert.Equal(t, uint64(math.MaxUint64), ShareOf(math.MaxUint64, 100))
	// And a 50% share must be exactly half, rounded down.
	assert.Equal(t, uint64(math.MaxUint64)/2, ShareOf(math.MaxUint64, 50))
}

func TestShares(t *testing.T) {
	splits := []model.Split{
		{ArtistID: 1, Pct: 60},
		{ArtistID: 2, Pct: 40},
	}
	shares, err := Shares(splits, 100)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, Share{ArtistID: 1, Amount: 60}, shares[0])
	assert.Equal(t, Share{ArtistID: 2, Amount: 40}, shares[1])
}

func TestSharesTruncate(t *testing.T) {
	splits := []model.Split{
		{ArtistID: 1, Pct: 60},
		{ArtistID: 2, Pct: 41},
	}
	shares, err := Shares(splits, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), shares[0].Amount)
	assert.Equal(t, uint64(4), shares[1].Amount)
}

func TestSharesEmpty(t *testing.T) {
	_, err := Shares(nil, 100)
	assert.ErrorIs(t, err, ErrNoSplits)
}

func TestValidateSplits(t *testing.T) {
	valid := []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 40}}
	assert.NoError(t, ValidateSplits(valid))

	badSum := []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 41}}
	assert.Error(t, ValidateSplits(badSum))

	dup := []model.Split{{ArtistID: 1, Pct: 50}, {ArtistID: 1, Pct: 50}}
	assert.Error(t, ValidateSplits(dup))

	outOfRange := []model.Split{{ArtistID: 1, Pct: 101}}
	assert.Error(t, ValidateSplits(outOfRange))

	assert.ErrorIs(t, ValidateSplits(nil), ErrNoSplits)
}
