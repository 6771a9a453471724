// Package server answers move queries over HTTP and websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chomp-local/strategy"
)

// ErrGameOver is returned for boards where only the poison, or nothing, is left.
var ErrGameOver = errors.New("game over")

type Server struct {
	sel      *strategy.Selector
	router   chi.Router
	upgrader websocket.Upgrader
}

// MoveRequest carries a board either as five mask bytes, [255,255,255,255,254],
// or as the hex string "ff,ff,ff,ff,fe".
type MoveRequest struct {
	Board json.RawMessage `json:"board"`
}

type ClassifyResponse struct {
	Board   string           `json:"board"`
	Skyline strategy.Skyline `json:"skyline"`
	Index   strategy.Index   `json:"index"`
	Verdict string           `json:"verdict"`
	Move    *strategy.Move   `json:"move,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(sel *strategy.Selector) *Server {
	s := &Server{
		sel:      sel,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/v1/move", s.handleMove)
	r.Get("/v1/classify", s.handleClassify)
	r.Get("/ws", s.serveWS)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// requestLogger logs method, path, status, bytes and duration of each request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		ev := log.Info()
		if ww.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("req_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, strategy.ErrMalformedBoard):
		status = http.StatusBadRequest
	case errors.Is(err, ErrGameOver):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// ParseBoard decodes a board given as a mask byte array or a hex string.
func ParseBoard(raw json.RawMessage) (strategy.Mask, error) {
	var m strategy.Mask
	if len(raw) == 0 {
		return m, fmt.Errorf("%w: board is missing", strategy.ErrMalformedBoard)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		m, err := strategy.ParseMask(text)
		if err != nil {
			return m, fmt.Errorf("%w: %w", strategy.ErrMalformedBoard, err)
		}
		return m, nil
	}

	var rows []int
	if err := json.Unmarshal(raw, &rows); err != nil {
		return m, fmt.Errorf("%w: board must be a byte array or hex string", strategy.ErrMalformedBoard)
	}
	if len(rows) != strategy.Rows {
		return m, fmt.Errorf("%w: board needs %d rows, got %d", strategy.ErrMalformedBoard, strategy.Rows, len(rows))
	}
	for i, v := range rows {
		if v < 0 || v > 0xff {
			return m, fmt.Errorf("%w: row %d value %d is not a byte", strategy.ErrMalformedBoard, i+1, v)
		}
		m[i] = uint8(v)
	}
	return m, nil
}

// Move picks the move for a board, refusing boards with nothing left to play.
func (s *Server) Move(m strategy.Mask) (strategy.Move, error) {
	sky, err := strategy.ToSkyline(m)
	if err != nil {
		return strategy.Move{}, err
	}
	if strategy.IsTerminal(sky) || sky == strategy.Empty {
		return strategy.Move{}, ErrGameOver
	}
	mv, ok, err := s.sel.Choose(sky)
	if err != nil {
		return strategy.Move{}, err
	}
	if !ok {
		return strategy.Move{}, ErrGameOver
	}
	return mv, nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<12)).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %w", strategy.ErrMalformedBoard, err))
		return
	}
	m, err := ParseBoard(req.Board)
	if err != nil {
		writeError(w, err)
		return
	}
	mv, err := s.Move(m)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mv)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var (
		sky strategy.Skyline
		cl  strategy.Classification
		err error
	)
	if v := r.URL.Query().Get("index"); v != "" {
		sky, cl, err = s.classifyIndex(v)
	} else {
		var m strategy.Mask
		if m, err = strategy.ParseMask(r.URL.Query().Get("board")); err != nil {
			err = fmt.Errorf("%w: %w", strategy.ErrMalformedBoard, err)
		} else {
			sky, cl, err = s.sel.Classify(m)
		}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	resp := ClassifyResponse{
		Board:   sky.Mask().String(),
		Skyline: sky,
		Index:   sky.Index(),
		Verdict: cl.Outcome.String(),
	}
	if cl.Outcome == strategy.Winning {
		mv := cl.Move.Move()
		mv.Forced = true
		resp.Move = &mv
	}
	writeJSON(w, http.StatusOK, resp)
}

// classifyIndex accepts an index in decimal or 0x-prefixed hex.
func (s *Server) classifyIndex(v string) (strategy.Skyline, strategy.Classification, error) {
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return strategy.Skyline{}, strategy.Classification{}, fmt.Errorf("%w: index %q: %w", strategy.ErrMalformedBoard, v, err)
	}
	return s.sel.ClassifyIndex(strategy.Index(n))
}

// serveWS answers every board message with a move message. Bad boards get
// an error message and the connection stays open.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	logger := log.With().Str("req_id", middleware.GetReqID(r.Context())).Logger()
	logger.Debug().Msg("websocket connected")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		if err := conn.WriteJSON(s.wsReply(message, &logger)); err != nil {
			logger.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (s *Server) wsReply(message []byte, logger *zerolog.Logger) any {
	raw := json.RawMessage(message)
	var req MoveRequest
	if err := json.Unmarshal(message, &req); err == nil && len(req.Board) > 0 {
		raw = req.Board
	}
	m, err := ParseBoard(raw)
	if err == nil {
		var mv strategy.Move
		if mv, err = s.Move(m); err == nil {
			logger.Debug().Str("board", m.String()).Str("move", mv.String()).Msg("websocket move")
			return mv
		}
	}
	return errorResponse{Error: err.Error()}
}
