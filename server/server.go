// Package server wires the aggregate store, persistence, object storage
// and the moderation feed behind an HTTP API and owns the process
// lifecycle: restore on boot, periodic snapshots, graceful shutdown with a
// final snapshot.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"musehub/config"
	"musehub/core/modfeed"
	"musehub/core/screen"
	"musehub/db"
	"musehub/logger"
	"musehub/model"
	"musehub/storage"
	"musehub/store"
)

// Server is the running MuseHub process.
type Server struct {
	cfg       *config.Config
	store     *store.Store
	hub       *modfeed.Hub
	persister store.Persister // nil when STORE_DRIVER=none
	files     *storage.TrackFiles
	httpSrv   *http.Server
	stop      chan struct{}
}

// New builds a fully wired server from configuration: content screen,
// policy mode, snapshot persister and object storage.
func New(cfg *config.Config) (*Server, error) {
	hub := modfeed.NewHub()

	var policy store.Policy = store.OpenPolicy{}
	if cfg.AuthMode == "strict" {
		policy = store.RolePolicy{}
	}

	scr := screen.New(screen.DefaultKeywords())
	if cfg.KeywordsFile != "" {
		keywords, err := screen.LoadFile(cfg.KeywordsFile)
		if err != nil {
			return nil, fmt.Errorf("load keywords file: %w", err)
		}
		scr.Replace(keywords)
	}

	st := store.New(store.Options{
		Screen:       scr,
		Policy:       policy,
		StrictSplits: cfg.SplitValidation == "strict",
		OnFlag:       func(item model.ModerationItem) { hub.Broadcast(item) },
	})

	var persister store.Persister
	switch cfg.StoreDriver {
	case "redis":
		if err := db.ConnectRedis(cfg); err != nil {
			return nil, err
		}
		persister = db.NewRedisPersister(db.GetRedisClient())
	case "mysql":
		if err := db.ConnectGormDB(cfg); err != nil {
			return nil, err
		}
		persister = db.NewGormPersister(db.GetGormDB())
	case "none":
		logger.Warn("running without snapshot persistence, state is lost on restart")
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	var files *storage.TrackFiles
	if cfg.MinioAccessKey != "" {
		if err := storage.InitMinio(cfg); err != nil {
			return nil, err
		}
		files = storage.NewTrackFiles(storage.GetMinioClient(), cfg.MinioBucket)
	} else {
		logger.Warn("minio credentials not configured, track file upload is disabled")
	}

	s := &Server{
		cfg:       cfg,
		store:     st,
		hub:       hub,
		persister: persister,
		files:     files,
		stop:      make(chan struct{}),
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      NewRouter(NewAPIHandler(st, hub, files, cfg.JWTSecret)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s, nil
}

// NewRouter builds the full route table around a handler set.
func NewRouter(h *APIHandler) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware, CORSMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.AuthMiddleware)

	// Tracks
	api.HandleFunc("/tracks", h.CreateTrack).Methods(http.MethodPost)
	api.HandleFunc("/tracks", h.ListTracks).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}", h.GetTrack).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}", h.EditTrack).Methods(http.MethodPut)
	api.HandleFunc("/tracks/{id:[0-9]+}", h.DeleteTrack).Methods(http.MethodDelete)
	api.HandleFunc("/tracks/{id:[0-9]+}/comments", h.AddComment).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/comments", h.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/ratings", h.RateTrack).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/ratings", h.GetRatings).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/tags", h.AddTag).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/tags", h.RemoveTag).Methods(http.MethodDelete)
	api.HandleFunc("/tracks/{id:[0-9]+}/genre", h.SetGenre).Methods(http.MethodPut)
	api.HandleFunc("/tracks/{id:[0-9]+}/visibility", h.SetVisibility).Methods(http.MethodPut)
	api.HandleFunc("/tracks/{id:[0-9]+}/invites", h.InviteUser).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/roles", h.AssignRole).Methods(http.MethodPut)
	api.HandleFunc("/tracks/{id:[0-9]+}/downloadable", h.SetDownloadable).Methods(http.MethodPut)
	api.HandleFunc("/tracks/{id:[0-9]+}/plays", h.RecordPlay).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/analytics", h.GetTrackAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/license", h.SetLicense).Methods(http.MethodPut)
	api.HandleFunc("/tracks/{id:[0-9]+}/license", h.GetLicense).Methods(http.MethodGet)

	// Version chain
	api.HandleFunc("/tracks/{id:[0-9]+}/versions", h.AddVersion).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/versions", h.GetVersionHistory).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/versions/compare", h.CompareVersions).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/versions/{version:[0-9]+}", h.GetVersion).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/revert", h.RevertToVersion).Methods(http.MethodPost)

	// Royalties
	api.HandleFunc("/tracks/{id:[0-9]+}/splits", h.SetSplits).Methods(http.MethodPut)
	api.HandleFunc("/tracks/{id:[0-9]+}/splits", h.GetSplits).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/payments", h.DistributePayment).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/payments", h.GetPaymentHistory).Methods(http.MethodGet)
	api.HandleFunc("/artists", h.RegisterArtist).Methods(http.MethodPost)
	api.HandleFunc("/artists", h.ListAccounts).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id:[0-9]+}/balance", h.GetBalance).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id:[0-9]+}/withdrawals", h.Withdraw).Methods(http.MethodPost)

	// Moderation
	api.HandleFunc("/moderation/flags", h.FlagContent).Methods(http.MethodPost)
	api.HandleFunc("/moderation/queue", h.GetModerationQueue).Methods(http.MethodGet)
	api.HandleFunc("/moderation/queue/{id:[0-9]+}/review", h.ReviewItem).Methods(http.MethodPost)
	api.HandleFunc("/moderation/keywords", h.AddKeyword).Methods(http.MethodPost)
	api.HandleFunc("/moderation/keywords", h.RemoveKeyword).Methods(http.MethodDelete)
	api.HandleFunc("/moderation/keywords", h.ListKeywords).Methods(http.MethodGet)
	api.HandleFunc("/moderation/feed", h.ModerationFeed).Methods(http.MethodGet)

	// Files
	api.HandleFunc("/tracks/{id:[0-9]+}/file", h.UploadTrackFile).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/file", h.DownloadTrackFile).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/file/info", h.GetTrackFileInfo).Methods(http.MethodGet)

	// Platform analytics
	api.HandleFunc("/analytics", h.GetPlatformAnalytics).Methods(http.MethodGet)

	return r
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully, taking a final snapshot.
func (s *Server) Run() error {
	if s.persister != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := s.store.LoadFrom(ctx, s.persister)
		cancel()
		if err != nil {
			return err
		}
		go s.snapshotLoop()
	}

	if s.cfg.KeywordsFile != "" {
		go func() {
			if err := s.store.Screen().Watch(s.cfg.KeywordsFile, s.stop); err != nil {
				logger.Warn("keywords watcher stopped", logger.ErrorField(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.String("addr", s.cfg.ListenAddr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		close(s.stop)
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", logger.String("signal", sig.String()))
	}
	close(s.stop)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown did not complete cleanly", logger.ErrorField(err))
	}
	if s.persister != nil {
		if err := s.store.SaveTo(ctx, s.persister); err != nil {
			logger.Error("final snapshot failed", logger.ErrorField(err))
		}
		if s.cfg.StoreDriver == "redis" {
			if err := db.CloseRedis(); err != nil {
				logger.Warn("failed to close redis", logger.ErrorField(err))
			}
		}
	}
	logger.Info("server stopped")
	return nil
}

// snapshotLoop persists the store at the configured interval until stop.
func (s *Server) snapshotLoop() {
	ticker := time.NewTicker(s.cfg.SnapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.store.SaveTo(ctx, s.persister); err != nil {
				logger.Error("periodic snapshot failed", logger.ErrorField(err))
			}
			cancel()
		case <-s.stop:
			return
		}
	}
}
