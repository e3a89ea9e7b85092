package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/schuyler/sun-sector-app/internal/config"
	"github.com/schuyler/sun-sector-app/internal/geo"
	"github.com/schuyler/sun-sector-app/internal/orientation"
)

// mockFix is the synthetic location published by the mock producer.
var mockFix = geo.Fix{
	Latitude:  40.7,
	Longitude: -74.0,
	Validity:  "A",
}

// RunMockProducer stands in for all three sensor collaborators at once:
// it publishes a retained synthetic fix and then streams mock motion and
// compass readings, so the tracker and the displays can run end to end
// without any hardware.
func RunMockProducer() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMock)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("mock: connected to MQTT broker at %s", cfg.MQTTBroker)

	now := time.Now()
	fix := mockFix
	fix.Time = now.Format("15:04:05")
	fix.Date = now.Format("2006-01-02")

	payload, err := json.Marshal(fix)
	if err != nil {
		return err
	}
	token := client.Publish(cfg.TopicFix, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("mock: published fix %.4f, %.4f", fix.Latitude, fix.Longitude)

	motionSrc := orientation.NewMockMotionSource()
	compassSrc := orientation.NewMockCompassSource()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		motion, err := motionSrc.Next()
		if err != nil {
			log.Printf("mock: motion source error: %v", err)
			continue
		}
		if payload, err := json.Marshal(motion); err == nil {
			client.Publish(cfg.TopicMotion, 0, false, payload).Wait()
		}

		compass, err := compassSrc.Next()
		if err != nil {
			log.Printf("mock: compass source error: %v", err)
			continue
		}
		if payload, err := json.Marshal(compass); err == nil {
			client.Publish(cfg.TopicCompass, 0, false, payload).Wait()
		}
	}
	return nil
}
