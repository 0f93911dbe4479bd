package estimate

import (
	"errors"
	"math"
	"strings"
)

// Constants for the flight model. RFI accounts for non-CO2 radiative forcing
// at altitude.
const (
	kgCO2PerKgFuel    = 3.16
	rfi               = 1.3
	avgBlockSpeedKmh  = 900.0
	defaultLoadFactor = 0.85
	// Fallback kg CO2 per passenger-km, economy base.
	fallbackEconomyEF = 0.09
)

var cabinMultipliers = map[string]float64{
	"economy":         1.0,
	"premium_economy": 1.5,
	"business":        2.5,
	"first":           3.5,
}

// Small IATA coordinate set; extend as needed.
var iataCoords = map[string][2]float64{
	"JFK": {40.6413, -73.7781}, "LHR": {51.4700, -0.4543},
	"LAX": {33.9416, -118.4085}, "CDG": {49.0097, 2.5479},
	"SFO": {37.7749, -122.4194}, "ORD": {41.9742, -87.9073},
	"ATL": {33.6407, -84.4277}, "DXB": {25.2532, 55.3657},
	"HND": {35.5494, 139.7798}, "ICN": {37.4602, 126.4407},
	"SIN": {1.3644, 103.9915}, "SYD": {-33.9399, 151.1753},
}

type aircraftSpec struct {
	fuelKgPerHour float64
	typicalSeats  int
}

// Approximate fuel-burn defaults from public summaries; use operator block
// fuel for regulatory accuracy.
var aircraftLookup = map[string]aircraftSpec{
	"A318": {2200, 110}, "A319": {2374, 140}, "A320": {2430, 150}, "A321": {2740, 185},
	"B738": {2400, 160}, "B737": {2400, 160},
	"A330": {5650, 275}, "A332": {5590, 250}, "A333": {5700, 277},
	"B763": {4800, 240}, "B764": {4940, 260},
	"B788": {4500, 246}, "B789": {5000, 280}, "A359": {5800, 300}, "B77W": {8000, 365},
	"A380": {11500, 525}, "B744": {10000, 416}, "B748": {11000, 410},
}

// FlightLeg is one segment of an itinerary.
type FlightLeg struct {
	OriginIATA       string   `json:"origin_iata"`
	DestinationIATA  string   `json:"destination_iata"`
	BlockTimeMinutes *float64 `json:"block_time_minutes"`
	AircraftICAO     string   `json:"aircraft_icao"`
}

// FlightPayload mirrors the estimator's tool-call schema.
type FlightPayload struct {
	CabinClass    string      `json:"cabin_class"`
	NumPassengers int         `json:"num_passengers"`
	Itinerary     []FlightLeg `json:"itinerary"`
}

// FlightEmissions estimates total kg CO2e for all passengers across the
// itinerary. Legs with a known aircraft and positive block time use the
// fuel-burn method (per-seat allocation at the default load factor, cabin
// multiplier, RFI); other legs fall back to distance times a per-pax-km
// factor. Each leg must carry both IATA codes.
func FlightEmissions(p FlightPayload) (float64, error) {
	cabinMult, ok := cabinMultipliers[strings.ToLower(p.CabinClass)]
	if !ok {
		cabinMult = 1.0
	}
	passengers := p.NumPassengers
	if passengers < 1 {
		passengers = 1
	}

	total := 0.0
	for _, leg := range p.Itinerary {
		origin := strings.ToUpper(strings.TrimSpace(leg.OriginIATA))
		destination := strings.ToUpper(strings.TrimSpace(leg.DestinationIATA))
		if origin == "" || destination == "" {
			return 0, errors.New("each leg must include origin_iata and destination_iata")
		}

		distanceKm := 0.0
		if o, okO := iataCoords[origin]; okO {
			if d, okD := iataCoords[destination]; okD {
				distanceKm = haversineKm(o[0], o[1], d[0], d[1])
			}
		}

		blockHours := 0.0
		if leg.BlockTimeMinutes != nil {
			blockHours = *leg.BlockTimeMinutes / 60.0
		} else if distanceKm > 0 {
			blockHours = distanceKm / avgBlockSpeedKmh
		}

		spec, hasAircraft := aircraftLookup[strings.ToUpper(leg.AircraftICAO)]
		if hasAircraft && blockHours > 0 {
			fuelKg := spec.fuelKgPerHour * blockHours
			perPax := fuelKg * kgCO2PerKgFuel / (float64(spec.typicalSeats) * defaultLoadFactor)
			total += perPax * cabinMult * rfi * float64(passengers)
		} else {
			perPax := distanceKm * fallbackEconomyEF * cabinMult
			total += perPax * rfi * float64(passengers)
		}
	}
	return total, nil
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
