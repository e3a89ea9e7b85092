package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/schuyler/sun-sector-app/internal/config"
	"github.com/schuyler/sun-sector-app/internal/overlay"
)

// displayData holds the latest overlay state for the OLED readout.
type displayData struct {
	mu    sync.RWMutex
	state overlay.State
	have  bool
}

// RunDisplay drives a small SSD1306 panel with the text readout: heading,
// solar elevation, pitch, crossing time, and the fixed coordinate.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: SSD1306 initialized")

	data := &displayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicOverlay, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var st overlay.State
		if err := json.Unmarshal(msg.Payload(), &st); err != nil {
			log.Printf("display: overlay unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.state = st
		data.have = true
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicOverlay)

	interval := cfg.DisplayUpdateInterval
	if interval == 0 {
		interval = 250
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		data.mu.RLock()
		st := data.state
		have := data.have
		data.mu.RUnlock()

		if err := drawReadout(dev, st, have); err != nil {
			log.Printf("display: draw error: %v", err)
		}
	}
	return nil
}

func drawReadout(dev *ssd1306.Dev, st overlay.State, have bool) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	if !have {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Sun sector"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("%-3s %5.1f", st.CompassPoint, st.Heading)))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("P:%6.1f", st.Pitch)))

		drawer.Dot = fixed.P(0, 39)
		if st.HaveSun {
			drawer.DrawBytes([]byte(fmt.Sprintf("E:%6.1f @%s", st.SunElevation, st.CrossingTime)))
		} else {
			drawer.DrawBytes([]byte("no crossing"))
		}

		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(fmt.Sprintf("%.3f %.3f", st.Latitude, st.Longitude)))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
