// Package screen implements keyword-based content screening. Text that
// matches a banned keyword is reported with a human-readable reason so the
// caller can queue it for moderation.
package screen

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultKeywords seeds a new screen when no keyword list is supplied.
func DefaultKeywords() []string {
	return []string{"spam", "scam", "fake", "copyright", "illegal"}
}

// Screen holds a mutable set of lowercase banned keywords and matches text
// against it with a case-insensitive substring scan. Matching is
// O(len(text) * keywords); fine while keyword sets stay small.
type Screen struct {
	mu       sync.RWMutex
	keywords []string
}

// New creates a screen seeded with the given keywords (lowercased,
// deduplicated). Pass DefaultKeywords() for the stock list.
func New(seed []string) *Screen {
	s := &Screen{}
	s.Replace(seed)
	return s
}

// Scan returns a reason string naming the first banned keyword found in
// text, or ok=false when the text is clean. The first matching keyword in
// list order wins.
func (s *Screen) Scan(text string) (reason string, ok bool) {
	lower := strings.ToLower(text)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, keyword := range s.keywords {
		if strings.Contains(lower, keyword) {
			return fmt.Sprintf("Contains banned keyword: %s", keyword), true
		}
	}
	return "", false
}

// Add inserts a keyword. Returns false if the keyword was already present
// or empty.
func (s *Screen) Add(keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.keywords {
		if k == keyword {
			return false
		}
	}
	s.keywords = append(s.keywords, keyword)
	return true
}

// Remove deletes a keyword. Returns false if it was not present.
func (s *Screen) Remove(keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range s.keywords {
		if k == keyword {
			s.keywords = append(s.keywords[:i], s.keywords[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a sorted copy of the current keyword set.
func (s *Screen) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]string(nil), s.keywords...)
	sort.Strings(out)
	return out
}

// Replace swaps the whole keyword set, lowercasing and deduplicating.
// Used by snapshot restore and by the keywords file watcher.
func (s *Screen) Replace(keywords []string) {
	cleaned := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		cleaned = append(cleaned, k)
	}
	s.mu.Lock()
	s.keywords = cleaned
	s.mu.Unlock()
}
