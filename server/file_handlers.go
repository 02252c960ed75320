package server

import (
	"io"
	"net/http"

	"musehub/model"
)

// UploadTrackFile accepts a multipart upload under the "file" form field,
// caps it at the platform file size limit and stores the bytes in object
// storage with the metadata recorded on the track.
func (h *APIHandler) UploadTrackFile(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		respondError(w, http.StatusServiceUnavailable, "file storage is not configured")
		return
	}
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}

	if err := r.ParseMultipartForm(model.MaxTrackFileSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if header.Size > model.MaxTrackFileSize {
		respondError(w, http.StatusRequestEntityTooLarge, "track file exceeds the 10 MiB limit")
		return
	}

	caller := callerFrom(r)
	info := model.TrackFileInfo{
		TrackID:     trackID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		UploadedBy:  caller.UserID,
	}
	// Policy and existence checks happen here, before the object write.
	if err := h.store.SetTrackFile(caller, info); err != nil {
		respondStoreError(w, err)
		return
	}
	if err := h.files.Upload(r.Context(), trackID, file, header.Size, info.ContentType); err != nil {
		respondError(w, http.StatusBadGateway, "failed to store track file")
		return
	}
	respondJSON(w, http.StatusCreated, info)
}

// DownloadTrackFile streams the stored track file, honoring the track's
// download gate.
func (h *APIHandler) DownloadTrackFile(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		respondError(w, http.StatusServiceUnavailable, "file storage is not configured")
		return
	}
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	if !h.store.CanDownload(trackID) {
		respondError(w, http.StatusForbidden, "track is not downloadable")
		return
	}
	info, err := h.store.TrackFile(trackID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	obj, err := h.files.Download(r.Context(), trackID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to read track file")
		return
	}
	defer obj.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+info.Filename+"\"")
	if _, err := io.Copy(w, obj); err != nil {
		// Headers are already out; nothing left to do but log.
		return
	}
}

// GetTrackFileInfo returns the stored file metadata without the bytes.
func (h *APIHandler) GetTrackFileInfo(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	info, err := h.store.TrackFile(trackID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}
