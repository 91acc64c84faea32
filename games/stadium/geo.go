/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package stadium

import "math"

const (
	earthRadiusMiles = 3959

	// RoundSeconds is the length of the guessing window, which is also
	// the length of the reveal.
	RoundSeconds = 30

	maxBaseScore      = 5000
	decayPerSecond    = 0.01
	minTimeMultiplier = 0.7
)

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance in miles between two points.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	a = math.Min(1, a)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// Score awards up to 5000 points, one less per mile of distance, scaled down
// by 1% per second taken to a floor of 70%.
func Score(distance, timeRemaining float64) int {
	base := math.Max(0, maxBaseScore-distance)

	elapsed := RoundSeconds - timeRemaining
	multiplier := math.Max(minTimeMultiplier, 1.0-decayPerSecond*elapsed)

	return int(math.Round(base * multiplier))
}
