package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/schuyler/sun-sector-app/internal/config"
	"github.com/schuyler/sun-sector-app/internal/geo"
	"github.com/schuyler/sun-sector-app/internal/overlay"
	"github.com/schuyler/sun-sector-app/internal/sensor"
	"github.com/schuyler/sun-sector-app/internal/session"
)

// metricsAddr is where the tracker exposes its Prometheus counters.
const metricsAddr = ":2112"

// defaultFixTimeout bounds the wait for the one-shot location fix when the
// config does not say otherwise.
const defaultFixTimeout = 90 * time.Second

// RunTracker owns the session: it waits for the one-shot location fix,
// builds the solar table from it, then fuses every motion/compass event into
// an overlay state published on the overlay topic. A missing fix is terminal
// for the session and returned as an error, never retried.
func RunTracker() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDTracker)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("tracker: connected to MQTT broker at %s", cfg.MQTTBroker)

	sess := session.New()

	// First valid fix wins; the channel holds at most one.
	fixCh := make(chan geo.Coordinate, 1)

	fixToken := client.Subscribe(cfg.TopicFix, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f geo.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("tracker: fix unmarshal error: %v", err)
			return
		}
		if !f.Valid() {
			log.Printf("tracker: ignoring void fix (validity=%s)", f.Validity)
			return
		}
		select {
		case fixCh <- f.Coordinate():
		default:
		}
	})
	fixToken.Wait()
	if fixToken.Error() != nil {
		return fixToken.Error()
	}
	log.Printf("tracker: subscribed to %s", cfg.TopicFix)

	motionToken := client.Subscribe(cfg.TopicMotion, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m sensor.MotionReading
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("tracker: motion unmarshal error: %v", err)
			return
		}
		sensorEvents.WithLabelValues("motion").Inc()
		sess.ObserveMotion(m)
		publishCurrent(client, cfg, sess)
	})
	motionToken.Wait()
	if motionToken.Error() != nil {
		return motionToken.Error()
	}
	log.Printf("tracker: subscribed to %s", cfg.TopicMotion)

	compassToken := client.Subscribe(cfg.TopicCompass, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var c sensor.CompassReading
		if err := json.Unmarshal(msg.Payload(), &c); err != nil {
			log.Printf("tracker: compass unmarshal error: %v", err)
			return
		}
		sensorEvents.WithLabelValues("compass").Inc()
		sess.ObserveCompass(c)
		publishCurrent(client, cfg, sess)
	})
	compassToken.Wait()
	if compassToken.Error() != nil {
		return compassToken.Error()
	}
	log.Printf("tracker: subscribed to %s", cfg.TopicCompass)

	// Block until the one-shot fix arrives. Absence is a terminal,
	// user-visible condition, not something to retry quietly.
	fixTimeout := defaultFixTimeout
	if cfg.FixTimeoutSeconds > 0 {
		fixTimeout = time.Duration(cfg.FixTimeoutSeconds) * time.Second
	}

	select {
	case coord := <-fixCh:
		sess.SetFix(coord, time.Time{})
		log.Printf("tracker: location fix %.4f, %.4f; solar table built", coord.Latitude, coord.Longitude)
	case <-time.After(fixTimeout):
		return fmt.Errorf("tracker: %w after %s", session.ErrLocationUnavailable, fixTimeout)
	}

	// Metrics listener next to the MQTT loop until a signal arrives.
	g, ctx := errgroup.WithContext(context.Background())

	srv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler()}
	g.Go(func() error {
		log.Printf("tracker: metrics listening on %s", metricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	log.Println("tracker: shutting down")
	return err
}

// publishCurrent publishes the fused overlay state if the session can
// produce one. Retained so late subscribers immediately see the last state.
func publishCurrent(client mqtt.Client, cfg *config.Config, sess *session.Session) {
	est, entry, ok := sess.Current()
	if !ok {
		// Table not built or a stream has not delivered yet; withhold
		// output rather than failing.
		return
	}

	tableLookups.Inc()
	if entry == nil {
		tableMisses.Inc()
	}

	coord, _ := sess.Coordinate()
	st := overlay.BuildState(est, entry, coord, cfg.PixelsPerDegree)

	payload, err := json.Marshal(st)
	if err != nil {
		log.Printf("tracker: overlay marshal error: %v", err)
		return
	}
	token := client.Publish(cfg.TopicOverlay, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("tracker: overlay publish error: %v", token.Error())
	}
}
