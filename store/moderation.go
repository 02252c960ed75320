package store

import (
	"fmt"
	"strings"

	"musehub/logger"
	"musehub/model"
)

// Flag files a user report against a track or comment. The target is not
// checked for existence; moderation references are plain strings so reports
// survive their targets being deleted.
func (s *Store) Flag(caller Caller, targetType model.ModerationTargetType, targetID, reason string) (model.ModerationItem, error) {
	if !targetType.Valid() {
		return model.ModerationItem{}, fmt.Errorf("%w: unknown target type %q", ErrValidation, targetType)
	}
	if strings.TrimSpace(reason) == "" {
		return model.ModerationItem{}, fmt.Errorf("%w: a flag reason is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flaggedBy := caller.UserID
	item := s.enqueueLocked(model.ModerationItem{
		TargetType: targetType,
		TargetID:   targetID,
		FlaggedBy:  &flaggedBy,
		Reason:     reason,
	})
	return item, nil
}

// ModerationQueue returns all queue items, oldest first. When pendingOnly
// is set, items already reviewed are filtered out.
func (s *Store) ModerationQueue(caller Caller, pendingOnly bool) ([]model.ModerationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.policy.Allow(caller, ActionReview, nil); err != nil {
		return nil, err
	}
	out := make([]model.ModerationItem, 0, len(s.queue))
	for _, item := range s.queue {
		if pendingOnly && item.Status != model.ModerationPending {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Review records an admin decision on a queue item. Re-reviewing overwrites
// the previous decision; items are never deleted from the queue.
func (s *Store) Review(caller Caller, itemID uint64, approve bool, notes string) (model.ModerationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.policy.Allow(caller, ActionReview, nil); err != nil {
		return model.ModerationItem{}, err
	}
	idx := -1
	for i := range s.queue {
		if s.queue[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ModerationItem{}, fmt.Errorf("%w: moderation item %d", ErrNotFound, itemID)
	}

	item := &s.queue[idx]
	if approve {
		item.Status = model.ModerationApproved
	} else {
		item.Status = model.ModerationRemoved
	}
	reviewer := caller.UserID
	reviewedAt := s.now()
	item.ReviewedBy = &reviewer
	item.ReviewedAt = &reviewedAt
	item.Notes = notes

	logger.Info("moderation item reviewed",
		logger.Uint64("itemId", itemID),
		logger.String("status", string(item.Status)),
		logger.Uint64("reviewedBy", reviewer))
	return *item, nil
}

// AddKeyword adds a banned keyword. Admin only.
func (s *Store) AddKeyword(caller Caller, keyword string) error {
	if err := s.policy.Allow(caller, ActionManageKeywords, nil); err != nil {
		return err
	}
	if !s.screen.Add(keyword) {
		return fmt.Errorf("%w: keyword %q is empty or already banned", ErrValidation, keyword)
	}
	return nil
}

// RemoveKeyword removes a banned keyword. Admin only.
func (s *Store) RemoveKeyword(caller Caller, keyword string) error {
	if err := s.policy.Allow(caller, ActionManageKeywords, nil); err != nil {
		return err
	}
	if !s.screen.Remove(keyword) {
		return fmt.Errorf("%w: keyword %q is not banned", ErrNotFound, keyword)
	}
	return nil
}

// Keywords lists the banned keywords. Admin only.
func (s *Store) Keywords(caller Caller) ([]string, error) {
	if err := s.policy.Allow(caller, ActionManageKeywords, nil); err != nil {
		return nil, err
	}
	return s.screen.List(), nil
}

// autoFlagLocked screens text and, on a match, queues a system flag with
// FlaggedBy unset. The flagged content itself stays in place pending
// review. Caller must hold s.mu.
func (s *Store) autoFlagLocked(targetType model.ModerationTargetType, targetID, text string) {
	reason, hit := s.screen.Scan(text)
	if !hit {
		return
	}
	s.enqueueLocked(model.ModerationItem{
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Notes:      "Auto-flagged by system",
	})
}

// enqueueLocked assigns the item an id and timestamp, appends it to the
// queue and notifies the flag listener. Caller must hold s.mu.
func (s *Store) enqueueLocked(item model.ModerationItem) model.ModerationItem {
	item.ID = s.nextItemID
	s.nextItemID++
	item.Status = model.ModerationPending
	item.CreatedAt = s.now()
	s.queue = append(s.queue, item)

	logger.Info("moderation item queued",
		logger.Uint64("itemId", item.ID),
		logger.String("targetType", string(item.TargetType)),
		logger.String("targetId", item.TargetID),
		logger.String("reason", item.Reason))
	if s.onFlag != nil {
		s.onFlag(item)
	}
	return item
}
