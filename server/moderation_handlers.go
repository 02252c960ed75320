package server

import (
	"net/http"

	"musehub/model"
)

type flagRequest struct {
	TargetType model.ModerationTargetType `json:"targetType"`
	TargetID   string                     `json:"targetId"`
	Reason     string                     `json:"reason"`
}

func (h *APIHandler) FlagContent(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.store.Flag(callerFrom(r), req.TargetType, req.TargetID, req.Reason)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *APIHandler) GetModerationQueue(w http.ResponseWriter, r *http.Request) {
	pendingOnly := r.URL.Query().Get("pending") == "true"
	items, err := h.store.ModerationQueue(callerFrom(r), pendingOnly)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

type reviewRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

func (h *APIHandler) ReviewItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.store.Review(callerFrom(r), itemID, req.Approve, req.Notes)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

func (h *APIHandler) AddKeyword(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.AddKeyword(callerFrom(r), req.Keyword); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *APIHandler) RemoveKeyword(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.RemoveKeyword(callerFrom(r), req.Keyword); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *APIHandler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.store.Keywords(callerFrom(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, keywords)
}
