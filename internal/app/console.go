package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/schuyler/sun-sector-app/internal/config"
	"github.com/schuyler/sun-sector-app/internal/overlay"
)

// RunConsole prints each overlay state as one line, mainly for watching the
// fusion output while pointing the rig around.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicOverlay, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var st overlay.State
		if err := json.Unmarshal(msg.Payload(), &st); err != nil {
			log.Printf("console: overlay unmarshal error: %v", err)
			return
		}

		if st.HaveSun {
			fmt.Printf(
				"[SUN ]  %3s %6.1f°  PITCH=%6.1f  ELEV=%6.1f  AT=%s  OFFSET=%7.1fpx\n",
				st.CompassPoint, st.Heading, st.Pitch, st.SunElevation, st.CrossingTime, st.MarkerOffsetPx,
			)
		} else {
			fmt.Printf(
				"[----]  %3s %6.1f°  PITCH=%6.1f  no crossing today\n",
				st.CompassPoint, st.Heading, st.Pitch,
			)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicOverlay)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
