// Package remote exposes the carousel over HTTP: read the navigation state,
// request moves and scrape metrics.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/trip"
)

// Controller is the host side of the remote. Move must hand the request to
// the render loop rather than touching navigation state directly.
type Controller interface {
	Move(direction int) error
	State() carousel.Snapshot
}

// moveResponse acknowledges a queued move.
type moveResponse struct {
	Direction int    `json:"direction"`
	Status    string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// NewHandler routes GET /state, POST /move/{direction} and, when metrics is
// non-nil, GET /metrics.
func NewHandler(ctrl Controller, metrics http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &server{ctrl: ctrl, logger: logger}

	r := chi.NewRouter()
	r.Get("/state", s.state)
	r.Post("/move/{direction}", s.move)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return enableCORS(r)
}

type server struct {
	ctrl   Controller
	logger *slog.Logger
}

func (s *server) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.State(), s.logger)
}

func (s *server) move(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "direction")
	direction, err := ParseDirection(raw)
	if err != nil {
		s.logger.Warn("move: invalid direction", "direction", raw, "error", err)
		writeError(w, http.StatusBadRequest, err, s.logger)
		return
	}

	if err := s.ctrl.Move(direction); err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, carousel.ErrInvalidDirection) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("move: rejected", "direction", direction, "error", err)
		writeError(w, status, err, s.logger)
		return
	}

	s.logger.Debug("move: queued", "direction", direction)
	writeJSON(w, http.StatusAccepted, moveResponse{Direction: direction, Status: "queued"}, s.logger)
}

// ParseDirection accepts next/right/+1/1 and prev/left/-1, and rejects
// anything that is not a single step.
func ParseDirection(raw string) (int, error) {
	switch raw {
	case "next", "right", "+1", "1":
		return 1, nil
	case "prev", "left", "-1":
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, trip.NewStumble(trip.InvalidDirection,
			fmt.Sprintf("direction %q is not a number or a name", raw),
			trip.Context{"direction": raw}).Wrap(carousel.ErrInvalidDirection)
	}
	if err := carousel.ValidateDirection(n); err != nil {
		return 0, err
	}
	return n, nil
}

func writeError(w http.ResponseWriter, status int, err error, logger *slog.Logger) {
	resp := errorResponse{Error: err.Error()}
	var t *trip.Trip
	if errors.As(err, &t) {
		resp.Type = t.Type
	}
	writeJSON(w, status, resp, logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Serve runs handler on addr until ctx is cancelled, then shuts down.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("remote listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("remote shutting down", "addr", addr)
		return srv.Shutdown(shutdownCtx)
	}
}
