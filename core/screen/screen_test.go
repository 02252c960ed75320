package screen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDefaults(t *testing.T) {
	s := New(DefaultKeywords())

	reason, hit := s.Scan("This track is pure SPAM content")
	require.True(t, hit)
	assert.Equal(t, "Contains banned keyword: spam", reason)

	_, hit = s.Scan("A perfectly clean description")
	assert.False(t, hit)
}

func TestScanFirstMatchWins(t *testing.T) {
	s := New([]string{"spam", "scam"})
	reason, hit := s.Scan("a scam wrapped in spam")
	require.True(t, hit)
	// Keyword list order decides, not position in the text.
	assert.Equal(t, "Contains banned keyword: spam", reason)
}

func TestAddRemove(t *testing.T) {
	s := New(nil)
	assert.True(t, s.Add("Bootleg"))
	assert.False(t, s.Add("bootleg"), "duplicate add")
	assert.False(t, s.Add("  "), "blank add")

	_, hit := s.Scan("BOOTLEG copy")
	assert.True(t, hit)

	assert.True(t, s.Remove("BOOTLEG"))
	assert.False(t, s.Remove("bootleg"), "double remove")
	_, hit = s.Scan("bootleg copy")
	assert.False(t, hit)
}

func TestReplaceDedup(t *testing.T) {
	s := New([]string{"Spam", "spam", "", "  scam  "})
	assert.Equal(t, []string{"scam", "spam"}, s.List())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")
	content := "# banned words\nspam\n\n  scam  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	keywords, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"spam", "scam"}, keywords)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
