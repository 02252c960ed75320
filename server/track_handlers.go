package server

import (
	"net/http"
	"strconv"

	"musehub/model"
)

type createTrackRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Contributors []uint64 `json:"contributors"`
}

func (h *APIHandler) CreateTrack(w http.ResponseWriter, r *http.Request) {
	var req createTrackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	track, err := h.store.CreateTrack(callerFrom(r), req.Title, req.Description, req.Contributors)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, track)
}

func (h *APIHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	track, err := h.store.GetTrack(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// ListTracks also serves search: ?title=, ?contributor=, ?tag= and ?genre=
// filters, first one present wins.
func (h *APIHandler) ListTracks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("title") != "":
		respondJSON(w, http.StatusOK, h.store.SearchByTitle(q.Get("title")))
	case q.Get("contributor") != "":
		artistID, err := strconv.ParseUint(q.Get("contributor"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid contributor id")
			return
		}
		respondJSON(w, http.StatusOK, h.store.SearchByContributor(artistID))
	case q.Get("tag") != "":
		respondJSON(w, http.StatusOK, h.store.SearchByTag(q.Get("tag")))
	case q.Get("genre") != "":
		respondJSON(w, http.StatusOK, h.store.SearchByGenre(q.Get("genre")))
	default:
		respondJSON(w, http.StatusOK, h.store.ListTracks())
	}
}

type editTrackRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Contributors []uint64 `json:"contributors"`
	Version      uint32   `json:"version"`
}

func (h *APIHandler) EditTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req editTrackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	track, err := h.store.EditTrack(callerFrom(r), id, req.Title, req.Description, req.Contributors, req.Version)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

func (h *APIHandler) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	if err := h.store.DeleteTrack(callerFrom(r), id); err != nil {
		respondStoreError(w, err)
		return
	}
	if h.files != nil {
		// Best effort; the metadata is already gone.
		if err := h.files.Delete(r.Context(), id); err != nil {
			respondStoreError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type addCommentRequest struct {
	Commenter uint64 `json:"commenter"`
	Text      string `json:"text"`
}

func (h *APIHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req addCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	track, err := h.store.AddComment(callerFrom(r), id, req.Commenter, req.Text)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, track)
}

func (h *APIHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	comments, err := h.store.ListComments(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

type rateRequest struct {
	UserID uint64 `json:"userId"`
	Rating uint8  `json:"rating"`
}

func (h *APIHandler) RateTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req rateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.Rate(callerFrom(r), id, req.UserID, req.Rating); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *APIHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	count, avg, err := h.store.RatingSummary(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     count,
		"avgRating": avg,
	})
}

type tagRequest struct {
	Tag string `json:"tag"`
}

func (h *APIHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req tagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.AddTag(callerFrom(r), id, req.Tag); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *APIHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req tagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.RemoveTag(callerFrom(r), id, req.Tag); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type genreRequest struct {
	Genre string `json:"genre"`
}

func (h *APIHandler) SetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req genreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.SetGenre(callerFrom(r), id, req.Genre); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type visibilityRequest struct {
	Visibility model.Visibility `json:"visibility"`
}

func (h *APIHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req visibilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.SetVisibility(callerFrom(r), id, req.Visibility); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type inviteRequest struct {
	UserID uint64 `json:"userId"`
}

func (h *APIHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req inviteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.Invite(callerFrom(r), id, req.UserID); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type roleRequest struct {
	UserID uint64          `json:"userId"`
	Role   model.TrackRole `json:"role"`
}

func (h *APIHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req roleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.AssignRole(callerFrom(r), id, req.UserID, req.Role); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type downloadableRequest struct {
	Downloadable bool `json:"downloadable"`
}

func (h *APIHandler) SetDownloadable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req downloadableRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.SetDownloadable(callerFrom(r), id, req.Downloadable); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *APIHandler) RecordPlay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	if err := h.store.IncrementPlayCount(id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *APIHandler) GetTrackAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	analytics, err := h.store.TrackAnalytics(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, analytics)
}

func (h *APIHandler) GetPlatformAnalytics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.PlatformAnalytics())
}
