package app

import (
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schuyler/sun-sector-app/internal/config"
	"github.com/schuyler/sun-sector-app/internal/overlay"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsPushInterval paces the websocket feed; the tracker publishes per sensor
// event, which is faster than a browser needs.
const wsPushInterval = 100 * time.Millisecond

// RunWeb subscribes to the overlay topic and serves the latest state as
// JSON, as a websocket feed, and as a rendered PNG frame.
func RunWeb() error {
	var (
		mu        sync.RWMutex
		lastState overlay.State
		haveState bool
	)

	cfg := config.Get()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the overlay topic and keep the latest state
	token := client.Subscribe(cfg.TopicOverlay, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var st overlay.State
		if err := json.Unmarshal(msg.Payload(), &st); err != nil {
			log.Printf("web: overlay unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastState = st
		haveState = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicOverlay)

	// 3) JSON API endpoint: latest overlay state
	http.HandleFunc("/api/overlay", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveState {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastState); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Rendered overlay frame
	http.HandleFunc("/overlay.png", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		st := lastState
		have := haveState
		mu.RUnlock()

		if !have {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		width, height := cfg.OverlayWidth, cfg.OverlayHeight
		if width == 0 {
			width = 480
		}
		if height == 0 {
			height = 640
		}

		img := overlay.Render(st, width, height, cfg.PixelsPerDegree)
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			log.Printf("web: png encode error: %v", err)
		}
	})

	// 5) Websocket push of each state at a fixed pace
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(wsPushInterval)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			st := lastState
			have := haveState
			mu.RUnlock()
			if !have {
				continue
			}
			if err := conn.WriteJSON(st); err != nil {
				// client went away
				return
			}
		}
	})

	// 6) Prometheus metrics for this process
	http.Handle("/metrics", promhttp.Handler())

	// 7) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	if cfg.WebServerPort == 0 {
		addr = ":8080"
	}
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
