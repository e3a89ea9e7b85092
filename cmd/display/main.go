package main

import (
	"log"

	"github.com/schuyler/sun-sector-app/internal/app"
	"github.com/schuyler/sun-sector-app/internal/config"
)

func main() {
	log.Println("starting sun-sector OLED display (MQTT subscriber)")

	if err := config.InitGlobal("sun_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
