package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musehub/core/auth"
	"musehub/core/modfeed"
	"musehub/model"
	"musehub/store"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st := store.New(store.Options{})
	h := NewAPIHandler(st, modfeed.NewHub(), nil, testSecret)
	return NewRouter(h)
}

func bearer(t *testing.T, userID uint64, isAdmin bool) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, isAdmin, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router http.Handler, method, path, authHeader string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/tracks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/tracks", "Bearer garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/tracks", bearer(t, 1, false), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestCreateAndGetTrack(t *testing.T) {
	router := newTestRouter(t)
	token := bearer(t, 1, false)

	rec := doJSON(t, router, http.MethodPost, "/api/tracks", token, map[string]interface{}{
		"title":        "Wire Test",
		"description":  "end to end",
		"contributors": []uint64{1, 2},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Track
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, uint32(1), created.CurrentVersion)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/tracks/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	token := bearer(t, 1, false)

	// Unknown track -> 404.
	rec := doJSON(t, router, http.MethodGet, "/api/tracks/99", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Validation failure -> 400.
	rec = doJSON(t, router, http.MethodPost, "/api/tracks", token, map[string]interface{}{
		"title": "", "description": "", "contributors": []uint64{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Moderation queue without admin -> 403.
	rec = doJSON(t, router, http.MethodGet, "/api/moderation/queue", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Payment without splits -> 409.
	rec = doJSON(t, router, http.MethodPost, "/api/tracks", token, map[string]interface{}{
		"title": "Unsplit", "description": "d", "contributors": []uint64{1},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/tracks/1/payments", token, map[string]interface{}{
		"payer": 5, "amount": 100,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestVersionEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := bearer(t, 1, false)

	rec := doJSON(t, router, http.MethodPost, "/api/tracks", token, map[string]interface{}{
		"title": "V1", "description": "d", "contributors": []uint64{1},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/tracks/1/versions", token, map[string]interface{}{
		"title": "V2", "description": "d2", "contributors": []uint64{1}, "changeDescription": "tweak",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/tracks/1/revert", token, map[string]interface{}{
		"version": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var track model.Track
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &track))
	assert.Equal(t, uint32(3), track.CurrentVersion)
	assert.Equal(t, "V1", track.Title)

	rec = doJSON(t, router, http.MethodGet, "/api/tracks/1/versions/compare?v1=1&v2=3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cmp model.VersionComparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmp))
	assert.False(t, cmp.Changed())

	rec = doJSON(t, router, http.MethodGet, "/api/tracks/1/versions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []model.TrackVersion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 3)
}

func TestRoyaltyEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := bearer(t, 1, false)

	rec := doJSON(t, router, http.MethodPost, "/api/tracks", token, map[string]interface{}{
		"title": "Earner", "description": "d", "contributors": []uint64{1, 2},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, id := range []uint64{1, 2} {
		rec = doJSON(t, router, http.MethodPost, "/api/artists", token, map[string]interface{}{"artistId": id})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/tracks/1/splits", token, map[string]interface{}{
		"splits": []model.Split{{ArtistID: 1, Pct: 60}, {ArtistID: 2, Pct: 40}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/tracks/1/payments", token, map[string]interface{}{
		"payer": 9, "amount": 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/artists/1/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var account model.ArtistAccount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, uint64(60), account.Balance)

	rec = doJSON(t, router, http.MethodPost, "/api/artists/1/withdrawals", token, map[string]interface{}{
		"amount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/artists/1/withdrawals", token, map[string]interface{}{
		"amount": 60,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Zero(t, account.Balance)
}

func TestModerationEndpoints(t *testing.T) {
	router := newTestRouter(t)
	user := bearer(t, 2, false)
	adminToken := bearer(t, 99, true)

	// Creating a track with a banned keyword queues an item.
	rec := doJSON(t, router, http.MethodPost, "/api/tracks", user, map[string]interface{}{
		"title": "Free spam here", "description": "d", "contributors": []uint64{2},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/moderation/queue?pending=true", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []model.ModerationItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)

	rec = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/moderation/queue/%d/review", items[0].ID), adminToken,
		map[string]interface{}{"approve": true, "notes": "fine"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Keyword management is admin only.
	rec = doJSON(t, router, http.MethodPost, "/api/moderation/keywords", user,
		map[string]interface{}{"keyword": "bootleg"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/moderation/keywords", adminToken,
		map[string]interface{}{"keyword": "bootleg"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLicenseEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := bearer(t, 1, false)

	rec := doJSON(t, router, http.MethodPost, "/api/tracks", token, map[string]interface{}{
		"title": "Licensed", "description": "d", "contributors": []uint64{1},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/tracks/1/license", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/tracks/1/license", token, map[string]interface{}{
		"type": "creative_commons", "terms": "CC BY 4.0",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/tracks/1/license", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var license model.TrackLicense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &license))
	assert.Equal(t, model.LicenseCreativeCommons, license.Type)

	rec = doJSON(t, router, http.MethodPut, "/api/tracks/1/license", token, map[string]interface{}{
		"type": "public_domain",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFileEndpointsWithoutStorage(t *testing.T) {
	router := newTestRouter(t)
	token := bearer(t, 1, false)

	rec := doJSON(t, router, http.MethodPost, "/api/tracks", token, map[string]interface{}{
		"title": "NoStore", "description": "d", "contributors": []uint64{1},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/tracks/1/file", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
