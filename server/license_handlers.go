package server

import (
	"net/http"

	"musehub/model"
)

type setLicenseRequest struct {
	Type         model.LicenseType `json:"type"`
	Terms        string            `json:"terms"`
	ContractText string            `json:"contractText"`
}

func (h *APIHandler) SetLicense(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req setLicenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	license, err := h.store.SetLicense(callerFrom(r), trackID, req.Type, req.Terms, req.ContractText)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, license)
}

func (h *APIHandler) GetLicense(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	license, err := h.store.License(trackID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, license)
}
