package server

import (
	"net/http"

	"musehub/model"
)

type registerArtistRequest struct {
	ArtistID uint64 `json:"artistId"`
}

func (h *APIHandler) RegisterArtist(w http.ResponseWriter, r *http.Request) {
	var req registerArtistRequest
	if !decodeBody(w, r, &req) {
		return
	}
	account := h.store.RegisterArtist(req.ArtistID)
	respondJSON(w, http.StatusCreated, account)
}

func (h *APIHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid artist id")
		return
	}
	balance, err := h.store.Balance(artistID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, model.ArtistAccount{ArtistID: artistID, Balance: balance})
}

func (h *APIHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.ListAccounts())
}

type withdrawRequest struct {
	Amount uint64 `json:"amount"`
}

func (h *APIHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid artist id")
		return
	}
	var req withdrawRequest
	if !decodeBody(w, r, &req) {
		return
	}
	remaining, err := h.store.Withdraw(artistID, req.Amount)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, model.ArtistAccount{ArtistID: artistID, Balance: remaining})
}

type setSplitsRequest struct {
	Splits []model.Split `json:"splits"`
}

func (h *APIHandler) SetSplits(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req setSplitsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	track, err := h.store.SetSplits(callerFrom(r), trackID, req.Splits)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

func (h *APIHandler) GetSplits(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	splits, err := h.store.Splits(trackID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, splits)
}

type paymentRequest struct {
	Payer  uint64 `json:"payer"`
	Amount uint64 `json:"amount"`
}

func (h *APIHandler) DistributePayment(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req paymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	track, err := h.store.DistributePayment(callerFrom(r), trackID, req.Payer, req.Amount)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

func (h *APIHandler) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	payments, err := h.store.PaymentHistory(trackID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}
