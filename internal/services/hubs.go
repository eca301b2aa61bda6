package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"tripweaver/internal/spatial"
)

//go:embed hubs.yaml
var hubsYAML []byte

// Hub is one entry of the static long-haul reference table.
type Hub struct {
	Code string  `yaml:"code"`
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

func (h Hub) Point() spatial.Point {
	return spatial.Point{Lat: h.Lat, Lon: h.Lon}
}

// HubTable answers nearest-hub lookups for the long-haul route path.
type HubTable struct {
	hubs []Hub
}

// LoadHubTable parses the embedded reference table. The table ships with the
// binary, so a parse failure is a build defect, not a runtime condition.
func LoadHubTable() (*HubTable, error) {
	var doc struct {
		Hubs []Hub `yaml:"hubs"`
	}
	if err := yaml.Unmarshal(hubsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse hub table: %w", err)
	}
	if len(doc.Hubs) == 0 {
		return nil, fmt.Errorf("hub table is empty")
	}
	return &HubTable{hubs: doc.Hubs}, nil
}

// Nearest returns the hub geodesically closest to p.
func (t *HubTable) Nearest(p spatial.Point) Hub {
	best := t.hubs[0]
	bestKm := spatial.HaversineKm(p, best.Point())
	for _, h := range t.hubs[1:] {
		if km := spatial.HaversineKm(p, h.Point()); km < bestKm {
			best, bestKm = h, km
		}
	}
	return best
}

func (t *HubTable) Hubs() []Hub { return t.hubs }
