package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musehub/model"
)

// memPersister keeps the snapshot in memory for tests.
type memPersister struct {
	data []byte
	fail bool
}

func (p *memPersister) SaveSnapshot(_ context.Context, data []byte) error {
	if p.fail {
		return errors.New("boom")
	}
	p.data = append([]byte(nil), data...)
	return nil
}

func (p *memPersister) LoadSnapshot(_ context.Context) ([]byte, error) {
	if p.fail {
		return nil, errors.New("boom")
	}
	return p.data, nil
}

func populated(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t, Options{})
	mustCreate(t, s, alice, "Keeper", "original", []uint64{1, 2})
	_, err := s.AddVersion(alice, 1, "Keeper v2", "updated", []uint64{1, 2}, "tweak")
	require.NoError(t, err)
	s.RegisterArtist(1)
	s.RegisterArtist(2)
	_, err = s.SetSplits(alice, 1, []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 40}})
	require.NoError(t, err)
	_, err = s.DistributePayment(alice, 1, 50, 100)
	require.NoError(t, err)
	_, err = s.Flag(bob, model.ModerationTargetTrack, "1", "report")
	require.NoError(t, err)
	require.NoError(t, s.AddKeyword(admin, "bootleg"))
	require.NoError(t, s.SetTrackFile(alice, model.TrackFileInfo{
		TrackID: 1, Filename: "keeper.mp3", ContentType: "audio/mpeg", Size: 512, UploadedBy: 1,
	}))
	_, err = s.SetLicense(alice, 1, model.LicenseCreativeCommons, "CC BY 4.0", "")
	require.NoError(t, err)
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := populated(t)

	data, err := original.Snapshot()
	require.NoError(t, err)

	restored := New(Options{})
	require.NoError(t, restored.Restore(data))

	track, err := restored.GetTrack(1)
	require.NoError(t, err)
	assert.Equal(t, "Keeper v2", track.Title)
	assert.Equal(t, uint32(2), track.CurrentVersion)
	assert.Equal(t, model.RoleOwner, track.Roles[1])

	history, err := restored.VersionHistory(1)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	b1, err := restored.Balance(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), b1)

	items, err := restored.ModerationQueue(admin, false)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	keywords, err := restored.Keywords(admin)
	require.NoError(t, err)
	assert.Contains(t, keywords, "bootleg")

	info, err := restored.TrackFile(1)
	require.NoError(t, err)
	assert.Equal(t, "keeper.mp3", info.Filename)

	license, err := restored.License(1)
	require.NoError(t, err)
	assert.Equal(t, model.LicenseCreativeCommons, license.Type)

	// Counters continue where they left off.
	next := mustCreate(t, restored, alice, "After restore", "desc", []uint64{1})
	assert.Equal(t, uint64(2), next.ID)
	item, err := restored.Flag(bob, model.ModerationTargetTrack, "2", "again")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), item.ID)
}

func TestRestoreEmptySnapshot(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Restore([]byte(`{}`)))

	// A snapshot with no counters still yields ids starting at 1.
	track := mustCreate(t, s, alice, "Fresh", "desc", []uint64{1})
	assert.Equal(t, uint64(1), track.ID)
}

func TestRestoreGarbage(t *testing.T) {
	s := populated(t)
	err := s.Restore([]byte("not json"))
	require.Error(t, err)

	// Failed restore leaves the existing state alone.
	_, err = s.GetTrack(1)
	assert.NoError(t, err)
}

func TestSaveToLoadFrom(t *testing.T) {
	original := populated(t)
	p := &memPersister{}
	require.NoError(t, original.SaveTo(context.Background(), p))
	require.NotEmpty(t, p.data)

	restored := New(Options{})
	require.NoError(t, restored.LoadFrom(context.Background(), p))
	track, err := restored.GetTrack(1)
	require.NoError(t, err)
	assert.Equal(t, "Keeper v2", track.Title)
}

func TestLoadFromMissingSnapshot(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.LoadFrom(context.Background(), &memPersister{}))
	assert.Empty(t, s.ListTracks())
}

func TestPersisterErrors(t *testing.T) {
	s := populated(t)
	p := &memPersister{fail: true}
	assert.Error(t, s.SaveTo(context.Background(), p))
	assert.Error(t, s.LoadFrom(context.Background(), p))
}
