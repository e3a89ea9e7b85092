package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/schuyler/sun-sector-app/internal/config"
	"github.com/schuyler/sun-sector-app/internal/geo"
	"github.com/schuyler/sun-sector-app/internal/session"
)

// RunGPSProducer opens the GPS serial port, parses NMEA RMC sentences, and
// publishes fixes as retained JSON on the fix topic. The tracker treats the
// first valid fix as the session's one-shot location; void fixes are never
// published. A permission failure on the port maps to the session's
// terminal PermissionDenied condition.
func RunGPSProducer() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDGPS)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("gps: connected to MQTT broker at %s", cfg.MQTTBroker)

	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("gps: open %s: %w: %v", cfg.GPSSerialPort, session.ErrPermissionDenied, err)
		}
		return fmt.Errorf("gps: open %s: %w", cfg.GPSSerialPort, err)
	}
	defer port.Close()
	log.Printf("gps: serial port opened on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)

	reader := bufio.NewReader(port)
	published := false

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("gps: read error: %v", err)
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			// noisy receiver or partial sentence
			continue
		}

		if sentence.DataType() != nmea.TypeRMC {
			continue
		}
		m := sentence.(nmea.RMC)
		if string(m.Validity) != "A" {
			continue
		}

		fix := geo.Fix{
			Time:      m.Time.String(),
			Date:      m.Date.String(),
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Validity:  string(m.Validity),
		}

		payload, err := json.Marshal(fix)
		if err != nil {
			log.Printf("gps: JSON marshal error: %v", err)
			continue
		}

		token := client.Publish(cfg.TopicFix, 0, true, payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("gps: publish error: %v", token.Error())
			continue
		}

		if !published {
			log.Printf("gps: first valid fix published: %.4f, %.4f", fix.Latitude, fix.Longitude)
			published = true
		}
	}
}
