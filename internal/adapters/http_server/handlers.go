package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/koregy/sejong-eats-chatbot/internal/adapters/observability"
	"github.com/koregy/sejong-eats-chatbot/internal/app"
	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

const (
	msgEmpty        = "서버는 살아있는데, 메시지가 비어있어요."
	msgNotFound     = "정보 없음"
	msgLookupFailed = "조회 실패"

	maxBodyBytes = 1 << 20
)

type Handlers struct {
	Chat    *app.ChatResolver
	Details *app.DetailService
}

type messageResponse struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Message     string                `json:"message"`
	Restaurants []domain.SearchResult `json:"restaurants"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/chat", h.chat)
	s.mux.Post("/chat", h.chat)
	s.mux.Get("/v1/restaurants/{id}", h.getRestaurant)
}

// encodeJSON keeps non-ASCII and <>& verbatim.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := encodeJSON(v)
	if err != nil {
		log.Error().Err(err).Msg("encode JSON response failed")
		status, body = http.StatusInternalServerError, []byte(`{"message":"`+msgLookupFailed+`"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := encodeJSON(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// chatRequest is the union accepted by /chat: a JSON body, or query
// parameters when the body is empty.
type chatRequest struct {
	Message      string
	RestaurantID string
}

func parseChatRequest(r *http.Request) chatRequest {
	var fields map[string]any

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.Debug().Err(err).Msg("read request body failed")
	}
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			// malformed body is an empty request
			log.Debug().Err(err).Msg("malformed chat body")
			fields = nil
		}
	} else if q := r.URL.Query(); len(q) > 0 {
		fields = map[string]any{}
		if q.Has("message") {
			fields["message"] = q.Get("message")
		}
		if q.Has("restaurant_id") {
			fields["restaurant_id"] = q.Get("restaurant_id")
		}
	}

	var req chatRequest
	if s, ok := fields["message"].(string); ok {
		req.Message = strings.TrimSpace(s)
	}
	req.RestaurantID = app.CanonicalID(fields["restaurant_id"])
	return req
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	req := parseChatRequest(r)
	switch {
	case req.RestaurantID != "":
		h.writeDetails(w, r, req.RestaurantID)
	case req.Message != "":
		res := h.Chat.Resolve(r.Context(), req.Message)
		observability.ObserveChat(res.Path)
		if len(res.Restaurants) == 0 {
			writeJSON(w, http.StatusOK, chatResponse{Message: res.Message, Restaurants: []domain.SearchResult{}})
			return
		}
		writeJSON(w, http.StatusOK, chatResponse{Message: res.Message, Restaurants: res.Restaurants})
	default:
		writeJSON(w, http.StatusOK, messageResponse{Message: msgEmpty})
	}
}

func (h *Handlers) getRestaurant(w http.ResponseWriter, r *http.Request) {
	h.writeDetails(w, r, chi.URLParam(r, "id"))
}

func (h *Handlers) writeDetails(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.Details.GetDetails(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: msgNotFound})
		return
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("restaurant lookup failed")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: msgLookupFailed})
		return
	}

	etag, body := calcETagAndBody(detailView(rec))
	if body == nil {
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: msgLookupFailed})
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write restaurant body")
	}
}

// detailView flattens a record back into the shape it was ingested in:
// extras alongside the known fields, operating_hours always present.
func detailView(rec domain.Restaurant) map[string]any {
	out := make(map[string]any, len(rec.Extras)+8)
	for k, v := range rec.Extras {
		out[k] = v
	}
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	out["id"] = rec.ID
	put("place_name", rec.PlaceName)
	put("main_category", rec.MainCategory)
	put("description", rec.Description)
	put("road_address_name", rec.RoadAddress)
	put("place_url", rec.PlaceURL)
	if rec.Rating.Valid {
		out["scraped_rating"] = json.Number(domain.RatingText(rec.Rating.Decimal))
	}
	hours := rec.OperatingHours
	if hours == nil {
		hours = []domain.OperatingHoursEntry{}
	}
	out["operating_hours"] = hours
	return out
}
