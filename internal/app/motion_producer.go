package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/schuyler/sun-sector-app/internal/config"
	"github.com/schuyler/sun-sector-app/internal/orientation"
)

// RunMotionProducer samples the MPU9250 tilt at the configured interval and
// publishes beta/gamma readings on the motion topic. With no SPI device
// configured it falls back to the mock source, which is handy on a dev
// machine without the sensor attached.
func RunMotionProducer() error {
	cfg := config.Get()

	var src orientation.MotionSource
	if cfg.MotionSPIDevice == "" {
		log.Println("motion: no SPI device configured, using mock source")
		src = orientation.NewMockMotionSource()
	} else {
		real, err := orientation.NewMPU9250Source(cfg.MotionSPIDevice, cfg.MotionCSPin)
		if err != nil {
			return err
		}
		log.Printf("motion: MPU9250 initialized on %s (CS pin %s)", cfg.MotionSPIDevice, cfg.MotionCSPin)
		src = real
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMotion)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("motion: connected to MQTT broker at %s", cfg.MQTTBroker)

	ticker := time.NewTicker(time.Duration(cfg.MotionSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		reading, err := src.Next()
		if err != nil {
			log.Printf("motion: read error: %v", err)
			continue
		}

		payload, err := json.Marshal(reading)
		if err != nil {
			log.Printf("motion: JSON marshal error: %v", err)
			continue
		}

		token := client.Publish(cfg.TopicMotion, 0, false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("motion: publish error: %v", token.Error())
		}
	}
	return nil
}
