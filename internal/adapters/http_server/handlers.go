// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_access/internal/adapters/observability"
	"hotel_access/internal/app"
	"hotel_access/internal/domain"
)

type Handlers struct {
	H    *app.HotelService
	Auth Authenticator
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/hotels", func(r chi.Router) {
		r.Use(Auth(h.Auth))
		r.Get("/", h.listHotels)
		r.Get("/{hotelId}", h.listRooms)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeAppError maps gate and store failures to status codes, the same way
// for every route. Anything that is not a domain error is a 500.
func writeAppError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		observability.ObserveAccess(op, "not_found")
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrPaymentRequired):
		observability.ObserveAccess(op, "payment_required")
		writeProblem(w, http.StatusPaymentRequired, "Payment Required", err.Error())
	default:
		observability.ObserveAccess(op, "error")
		uid, _ := UserID(r.Context())
		log.Error().Err(err).Str("op", op).Int64("user_id", uid).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	const op = "list_hotels"
	uid, _ := UserID(r.Context())

	hs, err := h.H.ListHotels(r.Context(), uid)
	if err != nil {
		writeAppError(w, r, op, err)
		return
	}
	observability.ObserveAccess(op, "allowed")
	writeJSON(w, r, hs)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	const op = "list_rooms"
	hotelID, err := strconv.ParseInt(chi.URLParam(r, "hotelId"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "hotelId must be a number")
		return
	}
	uid, _ := UserID(r.Context())

	hr, err := h.H.ListRooms(r.Context(), hotelID, uid)
	if err != nil {
		writeAppError(w, r, op, err)
		return
	}
	observability.ObserveAccess(op, "allowed")
	writeJSON(w, r, hr)
}
