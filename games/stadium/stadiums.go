/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package stadium

import (
	"errors"
	"fmt"
	"strings"
)

// Stadium is a single round's answer. Catalogs are ordered from easiest
// to hardest.
type Stadium struct {
	Name  string  `json:"name" mapstructure:"name"`
	Lat   float64 `json:"lat" mapstructure:"lat"`
	Lng   float64 `json:"lng" mapstructure:"lng"`
	Image string  `json:"image" mapstructure:"image"`
}

func (s Stadium) validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(s.Image) == "":
		return fmt.Errorf("%q: missing image", s.Name)
	case !validLat(s.Lat):
		return fmt.Errorf("%q: latitude out of range: %v", s.Name, s.Lat)
	case !validLng(s.Lng):
		return fmt.Errorf("%q: longitude out of range: %v", s.Name, s.Lng)
	}

	return nil
}

// ValidateCatalog checks every entry of a catalog, reporting the first
// problem found.
func ValidateCatalog(stadiums []Stadium) error {
	if len(stadiums) == 0 {
		return errors.New("stadium catalog is empty")
	}

	for i, s := range stadiums {
		if err := s.validate(); err != nil {
			return fmt.Errorf("stadium %d: %w", i+1, err)
		}
	}

	return nil
}

// DefaultStadiums returns a fresh copy of the built-in catalog.
func DefaultStadiums() []Stadium {
	return []Stadium{
		{Name: "Camp Nou", Lat: 41.3809, Lng: 2.1228, Image: "camp-nou.png"},
		{Name: "Allianz Arena", Lat: 48.2188, Lng: 11.6247, Image: "allianz.png"},
		{Name: "Wembley Stadium", Lat: 51.5560, Lng: -0.2795, Image: "wembley.png"},
		{Name: "Santiago Bernabéu", Lat: 40.4531, Lng: -3.6883, Image: "bernabeu.png"},
		{Name: "Old Trafford", Lat: 53.4631, Lng: -2.2913, Image: "old-trafford.png"},
		{Name: "San Siro", Lat: 45.4781, Lng: 9.1240, Image: "san-siro.png"},
		{Name: "Signal Iduna Park", Lat: 51.4925, Lng: 7.4517, Image: "signal-iduna.png"},
		{Name: "Maracanã", Lat: -22.9122, Lng: -43.2302, Image: "maracana.png"},
		{Name: "Azteca Stadium", Lat: 19.3030, Lng: -99.1506, Image: "azteca.png"},
		{Name: "La Bombonera", Lat: -34.6355, Lng: -58.3645, Image: "bombonera.png"},
	}
}
