package geo

// Coordinate is the observer position for one session, in decimal degrees.
// It is obtained once from the location producer and never changes afterward.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Fix represents a single GPS fix suitable for JSON and MQTT.
type Fix struct {
	Time      string  `json:"time"`     // e.g. "12:34:56"
	Date      string  `json:"date"`     // e.g. "2025-12-06"
	Latitude  float64 `json:"lat"`      // decimal degrees
	Longitude float64 `json:"lon"`      // decimal degrees
	Validity  string  `json:"validity"` // "A" (valid) / "V" (void)
}

// Coordinate extracts the observer coordinate from a fix.
func (f Fix) Coordinate() Coordinate {
	return Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}
}

// Valid reports whether the receiver considered this fix usable.
func (f Fix) Valid() bool {
	return f.Validity == "A"
}
