package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/schuyler/sun-sector-app/internal/config"
	"github.com/schuyler/sun-sector-app/internal/sensor"
)

// RunCompassProducer reads NMEA HDT (true heading) sentences from a serial
// compass and publishes each one on the compass topic. Last value wins on
// the consumer side, so there is no buffering here either.
func RunCompassProducer() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDCompass)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("compass: connected to MQTT broker at %s", cfg.MQTTBroker)

	serialOpts := serial.OpenOptions{
		PortName:              cfg.CompassSerialPort,
		BaudRate:              uint(cfg.CompassBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("compass: open %s: %w", cfg.CompassSerialPort, err)
	}
	defer port.Close()
	log.Printf("compass: serial port opened on %s at %d baud", cfg.CompassSerialPort, cfg.CompassBaudRate)

	reader := bufio.NewReader(port)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("compass: read error: %v", err)
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}

		if sentence.DataType() != nmea.TypeHDT {
			continue
		}
		m := sentence.(nmea.HDT)
		if !m.True {
			// magnetic-only talkers are not usable as a true-north source
			continue
		}

		reading := sensor.CompassReading{TrueHeading: m.Heading}
		payload, err := json.Marshal(reading)
		if err != nil {
			log.Printf("compass: JSON marshal error: %v", err)
			continue
		}

		token := client.Publish(cfg.TopicCompass, 0, false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("compass: publish error: %v", token.Error())
		}
	}
}
