package store

import (
	"fmt"

	"musehub/model"
)

// Caller is the identity performing an operation. It is threaded explicitly
// into every mutating call rather than pulled from ambient context, so the
// store stays testable without a simulated runtime.
type Caller struct {
	UserID uint64
	Admin  bool
}

// Action names a category of mutating operation for authorization purposes.
type Action string

const (
	ActionMutateTrack    Action = "mutate_track"    // edit, versions, splits, tags, ratings, comments...
	ActionDeleteTrack    Action = "delete_track"    // hard delete, admin or owner only
	ActionUploadFile     Action = "upload_file"     // contributors only
	ActionReview         Action = "review"          // moderation review, admin only
	ActionManageKeywords Action = "manage_keywords" // banned keyword admin, admin only
)

// Policy is consulted uniformly before every mutating call. Implementations
// decide how much of the caller/role relationship to enforce.
type Policy interface {
	Allow(caller Caller, action Action, track *model.Track) error
}

// OpenPolicy preserves the platform's historical behavior: general track
// mutations carry no ownership requirement, while the handful of
// operations that were always privileged (moderation review, keyword
// management, hard delete, file upload) keep their checks.
type OpenPolicy struct{}

func (OpenPolicy) Allow(caller Caller, action Action, track *model.Track) error {
	switch action {
	case ActionReview, ActionManageKeywords:
		if !caller.Admin {
			return fmt.Errorf("%w: admin required for %s", ErrUnauthorized, action)
		}
	case ActionDeleteTrack:
		if caller.Admin {
			return nil
		}
		if track != nil && track.Roles[caller.UserID] == model.RoleOwner {
			return nil
		}
		return fmt.Errorf("%w: only an admin or owner may delete a track", ErrUnauthorized)
	case ActionUploadFile:
		if caller.Admin {
			return nil
		}
		if track != nil {
			for _, id := range track.Contributors {
				if id == caller.UserID {
					return nil
				}
			}
		}
		return fmt.Errorf("%w: only contributors may upload a track file", ErrUnauthorized)
	}
	return nil
}

// RolePolicy additionally requires an Owner or Collaborator role (or
// contributor membership) for every track mutation. Selected via
// AUTH_MODE=strict.
type RolePolicy struct{}

func (RolePolicy) Allow(caller Caller, action Action, track *model.Track) error {
	if err := (OpenPolicy{}).Allow(caller, action, track); err != nil {
		return err
	}
	if action != ActionMutateTrack || track == nil || caller.Admin {
		return nil
	}
	switch track.Roles[caller.UserID] {
	case model.RoleOwner, model.RoleCollaborator:
		return nil
	}
	for _, id := range track.Contributors {
		if id == caller.UserID {
			return nil
		}
	}
	return fmt.Errorf("%w: user %d has no write role on track %d", ErrUnauthorized, caller.UserID, track.ID)
}
