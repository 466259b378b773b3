package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
)

var roomIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,30}$`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	// Room share link as a QR code PNG: /qr/<roomID>
	mux.HandleFunc("/qr/", func(w http.ResponseWriter, r *http.Request) {
		roomID := strings.TrimPrefix(r.URL.Path, "/qr/")
		if !roomIDRe.MatchString(roomID) {
			http.Error(w, "bad room id", http.StatusBadRequest)
			return
		}
		scheme := "https"
		if r.TLS == nil {
			scheme = "http"
		}
		link := scheme + "://" + r.Host + "/#" + roomID
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(png)
	})

	// Liveness and rough load info
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{
			"clients": hub.ClientCount(),
			"rooms":   hub.registry.RoomCount(),
		})
	})

	// Operator metrics: live load plus activity aggregates from the
	// analytics event log
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		out := map[string]interface{}{
			"clients":     hub.ClientCount(),
			"connections": hub.TotalConns(),
			"rooms":       hub.registry.RoomCount(),
		}
		if hub.analytics != nil {
			if dau, err := hub.analytics.DAUCount(); err == nil {
				out["dau"] = dau
			}
			if wau, err := hub.analytics.WAUCount(); err == nil {
				out["wau"] = wau
			}
			if counts, err := hub.analytics.EventCounts(7); err == nil {
				out["events_7d"] = counts
			}
			if hist, err := hub.analytics.DailyActiveHistory(7); err == nil {
				out["dau_history"] = hist
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	})

	return mux
}
