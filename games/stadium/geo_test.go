/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package stadium

import (
	"math"
	"testing"
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	for _, s := range DefaultStadiums() {
		if d := Distance(s.Lat, s.Lng, s.Lat, s.Lng); d != 0 {
			t.Errorf("%s: distance to itself = %v, want 0", s.Name, d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	points := [][2]float64{
		{41.3809, 2.1228},
		{-34.6355, -58.3645},
		{0, 0},
		{90, 0},
		{-90, 180},
		{19.3030, -99.1506},
	}

	for _, a := range points {
		for _, b := range points {
			ab := Distance(a[0], a[1], b[0], b[1])
			ba := Distance(b[0], b[1], a[0], a[1])
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("Distance(%v, %v) = %v but reversed = %v", a, b, ab, ba)
			}
			if (a == b) != (ab == 0) {
				t.Errorf("Distance(%v, %v) = %v", a, b, ab)
			}
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
	}{
		{"quarter meridian", 0, 0, 90, 0, math.Pi / 2 * earthRadiusMiles},
		{"antipodes", 0, 0, 0, 180, math.Pi * earthRadiusMiles},
		{"camp nou to wembley", 41.3809, 2.1228, 51.5560, -0.2795, 712.2},
		{"camp nou to null island", 41.3809, 2.1228, 0, 0, 2862.4},
	}

	for _, tt := range tests {
		got := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
		if math.Abs(got-tt.want) > 1 {
			t.Errorf("%s: got %.2f, want about %.2f", tt.name, got, tt.want)
		}
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		distance, timeRemaining float64
		want                    int
	}{
		{0, 30, 5000},
		{5000, 30, 0},
		{0, 0, 3500},
		{6000, 15, 0},
		{1000, 30, 4000},
		{0, 20, 4500},
		{1000, 20, 3600},
		{0, 10, 4000},
		{0, 5, 3750},
		{100.4, 30, 4900},
	}

	for _, tt := range tests {
		if got := Score(tt.distance, tt.timeRemaining); got != tt.want {
			t.Errorf("Score(%v, %v) = %d, want %d", tt.distance, tt.timeRemaining, got, tt.want)
		}
	}
}

func TestScoreMonotonic(t *testing.T) {
	for remaining := 0.0; remaining <= RoundSeconds; remaining++ {
		prev := math.MaxInt
		for distance := 0.0; distance <= 6000; distance += 250 {
			got := Score(distance, remaining)
			if got > prev {
				t.Fatalf("score rose with distance at %v miles, %v s left", distance, remaining)
			}
			prev = got
		}
	}

	for distance := 0.0; distance <= 6000; distance += 500 {
		prev := math.MaxInt
		for remaining := float64(RoundSeconds); remaining >= 0; remaining-- {
			got := Score(distance, remaining)
			if got > prev {
				t.Fatalf("score rose with elapsed time at %v miles, %v s left", distance, remaining)
			}
			prev = got
		}
	}
}
