// Package webserver exposes season standings over HTTP and pushes refreshed
// reports to websocket clients.
package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"f1champsstandings/pkg/chart"
	"f1champsstandings/pkg/pubsub"
	"f1champsstandings/pkg/render"
	"f1champsstandings/pkg/seasons"
	"f1champsstandings/pkg/standings"
)

const DefaultAddress = ":8080"

var upgrader = websocket.Upgrader{} // use default options

// Standings answers the season queries of the API.
type Standings interface {
	Seasons(ctx context.Context) ([]int, error)
	Report(ctx context.Context, year int) (seasons.Report, error)
}

type Manager struct {
	r         *mux.Router
	addr      string
	standings Standings
	pubsubMgr *pubsub.PubSub[seasons.Report]
	logger    *slog.Logger
}

func NewManager(addr string, s Standings, pubsubMgr *pubsub.PubSub[seasons.Report], logger *slog.Logger) *Manager {
	if addr == "" {
		addr = DefaultAddress
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		r:         mux.NewRouter(),
		addr:      addr,
		standings: s,
		pubsubMgr: pubsubMgr,
		logger:    logger,
	}

	m.rootHandlers()
	return m
}

func (m *Manager) Handler() http.Handler {
	return m.r
}

func (m *Manager) rootHandlers() {
	m.r.HandleFunc("/health", m.healthHandler).Methods(http.MethodGet)

	api := m.r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/seasons", m.seasonsHandler).Methods(http.MethodGet)
	api.HandleFunc("/seasons/{year}/standings", m.standingsHandler).Methods(http.MethodGet)
	api.HandleFunc("/seasons/{year}/chart.png", m.chartHandler).Methods(http.MethodGet)

	m.r.HandleFunc("/ws/seasons/{year}", m.websocketHandler)
}

// Debug logs every registered route.
func (m *Manager) Debug() {
	_ = m.r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := route.GetMethods()
		m.logger.Debug("route", "path", pathTemplate, "methods", strings.Join(methods, ","))
		return nil
	})
}

// Serve listens until ctx is done and then shuts the server down.
func (m *Manager) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         m.addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.r,
	}

	errChan := make(chan error, 1)
	go func() {
		m.logger.Info("webserver listening", "address", m.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	m.logger.Info("webserver shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (m *Manager) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (m *Manager) seasonsHandler(w http.ResponseWriter, r *http.Request) {
	years, err := m.standings.Seasons(r.Context())
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int{"seasons": years})
}

func (m *Manager) standingsHandler(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	format := render.FormatJSON
	if raw := r.URL.Query().Get("format"); raw != "" {
		if format, err = render.ParseFormat(raw); err != nil {
			m.writeError(w, r, err)
			return
		}
	}

	report, err := m.standings.Report(r.Context(), year)
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if err := render.Report(w, report, format); err != nil {
		m.logger.Error("rendering standings", "season", year, "format", format, "error", err)
	}
}

func (m *Manager) chartHandler(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	report, err := m.standings.Report(r.Context(), year)
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := chart.WritePNG(w, report.Standings); err != nil {
		m.logger.Error("drawing standings chart", "season", year, "error", err)
	}
}

func (m *Manager) websocketHandler(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	// subscribe first so no refresh between the snapshot and the feed is lost
	updates := m.pubsubMgr.Subscribe(seasons.SeasonTopic(year))
	defer m.pubsubMgr.Unsubscribe(seasons.SeasonTopic(year), updates)

	report, err := m.standings.Report(r.Context(), year)
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer c.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := c.WriteJSON(report); err != nil {
		m.logger.Warn("websocket write", "season", year, "error", err)
		return
	}
	for {
		select {
		case report, ok := <-updates:
			if !ok {
				return
			}
			if err := c.WriteJSON(report); err != nil {
				m.logger.Warn("websocket write", "season", year, "error", err)
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func yearParam(r *http.Request) (int, error) {
	raw := mux.Vars(r)["year"]
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("season %q: %w", raw, standings.ErrInvalidArgument)
	}
	return year, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, standings.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, seasons.ErrNoSeasons):
		return http.StatusNotFound
	case standings.IsDataSourceError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (m *Manager) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		m.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
