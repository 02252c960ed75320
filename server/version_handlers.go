package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type addVersionRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Contributors      []uint64 `json:"contributors"`
	ChangeDescription string   `json:"changeDescription"`
}

func (h *APIHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req addVersionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	track, err := h.store.AddVersion(callerFrom(r), id, req.Title, req.Description, req.Contributors, req.ChangeDescription)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, track)
}

func (h *APIHandler) GetVersionHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	history, err := h.store.VersionHistory(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *APIHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	version, err := pathVersion(r, "version")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid version number")
		return
	}
	v, err := h.store.GetVersion(id, version)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

type revertRequest struct {
	Version uint32 `json:"version"`
}

func (h *APIHandler) RevertToVersion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req revertRequest
	if !decodeBody(w, r, &req) {
		return
	}
	track, err := h.store.RevertToVersion(callerFrom(r), id, req.Version)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// CompareVersions diffs two versions given as ?v1= and ?v2= query params.
func (h *APIHandler) CompareVersions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	v1, err1 := parseVersion(r.URL.Query().Get("v1"))
	v2, err2 := parseVersion(r.URL.Query().Get("v2"))
	if err1 != nil || err2 != nil {
		respondError(w, http.StatusBadRequest, "v1 and v2 must be version numbers")
		return
	}
	cmp, err := h.store.CompareVersions(id, v1, v2)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

func pathVersion(r *http.Request, name string) (uint32, error) {
	return parseVersion(mux.Vars(r)[name])
}

func parseVersion(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}
