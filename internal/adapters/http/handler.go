package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/whiski-agent/internal/app/telemetry"
	"github.com/PabloGalante/whiski-agent/internal/app/whiski"
	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

type Server struct {
	svc    *whiski.Service
	traces *telemetry.Service
}

func NewServer(svc *whiski.Service, traces *telemetry.Service) http.Handler {
	s := &Server{svc: svc, traces: traces}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions → create session (POST)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}          → GET: render session
	// /sessions/{id}/{action} → POST: user actions, GET ws: chat socket
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	// /traces → GET: recent agent calls
	mux.HandleFunc("/traces", s.handleTraces)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type moodRequest struct {
	Mood string `json:"mood"`
}

type locationRequest struct {
	Location string `json:"location"`
}

type navigateRequest struct {
	Scene string `json:"scene"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sessionResponse struct {
	ID            string `json:"id"`
	Scene         string `json:"scene"`
	Transitioning bool   `json:"transitioning"`

	Mood     string `json:"mood,omitempty"`
	Location string `json:"location,omitempty"`
	Weather  string `json:"weather,omitempty"`

	Recommendation *recommendationResponse `json:"recommendation,omitempty"`
	Cafes          []cafeResponse          `json:"cafes"`
	Chat           []messageResponse       `json:"chat"`
	Notice         string                  `json:"notice,omitempty"`

	Moods     []string `json:"moods,omitempty"`
	Locations []string `json:"locations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type recommendationResponse struct {
	Drink  string `json:"drink"`
	Vibe   string `json:"vibe"`
	Source string `json:"source"`
}

type cafeResponse struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Rating     *float64 `json:"rating"`
	Phone      *string  `json:"phone"`
	MapLink    string   `json:"map_link"`
	Speciality string   `json:"speciality"`
	Atmosphere string   `json:"atmosphere"`
	PriceRange string   `json:"price_range"`
}

type messageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type sendMessageResponse struct {
	UserMessage messageResponse `json:"user_message"`
	Reply       messageResponse `json:"reply"`
	Session     sessionResponse `json:"session"`
}

type tracesResponse struct {
	Traces []*domain.AgentTrace `json:"traces"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id}, /sessions/{id}/{action} or /sessions/{id}/location/custom
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])
	action := strings.Join(parts[1:], "/")

	r = r.WithContext(observability.WithSessionID(r.Context(), string(id)))

	if action == "" {
		// /sessions/{id}
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if action == "ws" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleChatSocket(w, r, id)
		return
	}

	handler, ok := s.actions()[action]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	handler(w, r, id)
}

type actionHandler func(w http.ResponseWriter, r *http.Request, id domain.SessionID)

func (s *Server) actions() map[string]actionHandler {
	return map[string]actionHandler{
		"start":           s.simple(s.svc.Start),
		"mood":            s.handleSelectMood,
		"location":        s.handleLocation(s.svc.SelectLocation),
		"location/custom": s.handleLocation(s.svc.SubmitCustomLocation),
		"cafes":           s.simple(s.svc.ViewCafes),
		"chat":            s.simple(s.svc.OpenChat),
		"messages":        s.handleSendMessage,
		"navigate":        s.handleNavigate,
		"back":            s.simple(s.svc.Back),
		"reset":           s.simple(s.svc.Reset),
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.StartSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	sess, err := s.svc.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

type sessionAction func(ctx context.Context, id domain.SessionID) (*domain.Session, error)

func (s *Server) simple(fn sessionAction) actionHandler {
	return func(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
		sess, err := fn(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

func (s *Server) handleSelectMood(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	sess, err := s.svc.SelectMood(r.Context(), id, req.Mood)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleLocation(
	fn func(ctx context.Context, id domain.SessionID, location string) (*domain.Session, error),
) actionHandler {
	return func(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
		var req locationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		sess, err := fn(r.Context(), id, req.Location)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.SendChatMessage(r.Context(), id, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage: toMessageResponse(out.UserMessage),
		Reply:       toMessageResponse(out.Reply),
		Session:     toSessionResponse(out.Session),
	})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	sess, err := s.svc.Navigate(r.Context(), id, domain.Scene(req.Scene))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleTraces(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a positive number")
			return
		}
		limit = n
	}

	traces, err := s.traces.ListTraces(r.Context(), limit)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracesResponse{Traces: traces})
}

// ─────────────────────────────────────────────
// Session Helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:            string(s.ID),
		Scene:         string(s.CurrentScene),
		Transitioning: s.Transitioning,
		Mood:          string(s.SelectedMood),
		Location:      s.UserLocation,
		Weather:       s.Weather,
		Cafes:         make([]cafeResponse, 0, len(s.CafeResults)),
		Chat:          make([]messageResponse, 0, len(s.ChatHistory)),
		Notice:        s.Notice,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}

	if s.HasRecommendation() {
		resp.Recommendation = &recommendationResponse{
			Drink:  s.DrinkRecommendation,
			Vibe:   s.VibeDescription,
			Source: string(s.RecommendationSource),
		}
	}
	for _, c := range s.CafeResults {
		resp.Cafes = append(resp.Cafes, cafeResponse{
			Name:       c.Name,
			Address:    c.Address,
			Rating:     c.Rating,
			Phone:      c.Phone,
			MapLink:    c.MapLink,
			Speciality: c.Speciality,
			Atmosphere: c.Atmosphere,
			PriceRange: c.PriceRange,
		})
	}
	for _, m := range s.ChatHistory {
		resp.Chat = append(resp.Chat, toMessageResponse(m))
	}

	// Choices the current scene offers.
	switch s.CurrentScene {
	case domain.SceneMoodSelection:
		for _, m := range domain.Moods {
			resp.Moods = append(resp.Moods, string(m))
		}
	case domain.SceneLocationInput:
		resp.Locations = append(append([]string{}, whiski.Boroughs...), whiski.OtherLocation)
	}
	return resp
}

func toMessageResponse(m domain.ChatMessage) messageResponse {
	return messageResponse{
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to statuses. Only validation messages are
// shown to the client as they are.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr *domain.ValidationError
		serr *domain.InvalidSceneError
	)
	switch {
	case errors.As(err, &verr):
		badRequest(w, verr.Message)
	case errors.As(err, &serr):
		badRequest(w, "unknown scene")
	case errors.Is(err, domain.ErrSessionNotFound):
		notFound(w, "session not found")
	case errors.Is(err, domain.ErrIllegalTransition):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "action not available on this screen",
		})
	default:
		internalError(w, err)
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	observability.Logger().Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "please try again",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
