package httpx

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/you/go-resale-pricing/internal/service"
)

type suggestResponse struct {
	EventID    string                  `json:"event_id"`
	Sections   []string                `json:"sections,omitempty"`
	Suggestion service.PriceSuggestion `json:"suggestion"`
}

func parseSections(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func SuggestHandler(svc *service.SuggestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		eventID := q.Get("event_id")
		if eventID == "" {
			http.Error(w, "event_id is required", http.StatusBadRequest)
			return
		}
		sections := parseSections(q.Get("sections"))
		res := svc.Suggest(r.Context(), eventID, sections)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(suggestResponse{
			EventID: eventID, Sections: sections, Suggestion: res,
		})
	}
}

func TrendHandler(trend *service.TrendService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		eventID := q.Get("event_id")
		if eventID == "" {
			http.Error(w, "event_id is required", http.StatusBadRequest)
			return
		}
		series := trend.MonthlyAverages(eventID, 12)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(series)
	}
}

func SubscribeSSEHandler(svc *service.SuggestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := strings.TrimPrefix(r.URL.Path, "/sse/")
		if eventID == "" || strings.Contains(eventID, "/") {
			http.Error(w, "use /sse/{event_id}?sections=a,b", 400)
			return
		}
		sections := parseSections(r.URL.Query().Get("sections"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", 500)
			return
		}

		updateTick := time.NewTicker(30 * time.Second)
		defer updateTick.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				log.Println("SSE client closed")
				return

			case <-updateTick.C:
				res := svc.Suggest(ctx, eventID, sections)
				payload, _ := json.Marshal(suggestResponse{
					EventID: eventID, Sections: sections, Suggestion: res,
				})
				fmt.Fprintf(w, "event: update\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // in prod, restrict origin
	},
}

func SubscribeWSHandler(svc *service.SuggestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := strings.TrimPrefix(r.URL.Path, "/ws/")
		if eventID == "" || strings.Contains(eventID, "/") {
			http.Error(w, "use /ws/{event_id}?sections=a,b", 400)
			return
		}
		sections := parseSections(r.URL.Query().Get("sections"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			res := svc.Suggest(ctx, eventID, sections)
			if err := conn.WriteJSON(suggestResponse{
				EventID: eventID, Sections: sections, Suggestion: res,
			}); err != nil {
				log.Printf("write error: %v", err)
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				continue
			}
		}
	}
}
