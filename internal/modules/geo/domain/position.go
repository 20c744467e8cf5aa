package domain

import "fmt"

// Position is a WGS84 coordinate in degrees.
type Position struct {
	Lat float64
	Lng float64
}

// DefaultCenter is Hanoi, the map center when nothing else is known.
var DefaultCenter = Position{Lat: 21.0285, Lng: 105.8542}

func (p Position) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %v out of range", p.Lng)
	}
	return nil
}

func (p Position) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

func (p Position) String() string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
}
