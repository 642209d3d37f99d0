// Package enrich resolves listings against the static Prague district table.
// The table is embedded at build time; lookups never touch the network.
package enrich

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/util"
)

//go:embed districts.yaml
var districtsYAML []byte

type districtRecord struct {
	AdminDistrict      string  `yaml:"adminDistrict"`
	AvgPricePerM2      int     `yaml:"avgPricePerM2"`
	PriceChangePercent float64 `yaml:"priceChangePercent"`
	PriceTier          string  `yaml:"priceTier"`
	KebabIndex         float64 `yaml:"kebabIndex"`
	Crime              struct {
		Violent  float64 `yaml:"violent"`
		Burglary float64 `yaml:"burglary"`
		Fire     float64 `yaml:"fire"`
	} `yaml:"crime"`
	Neighborhoods []string `yaml:"neighborhoods"`
}

type districtsFile struct {
	Districts []districtRecord `yaml:"districts"`
}

// Table is the loaded district dataset. It is read-only after Load and safe
// for concurrent use.
type Table struct {
	stats map[string]model.DistrictStats // keyed by lowercased admin district
	zones map[string]string              // lowercased neighborhood -> admin district
}

// Load parses the embedded district table.
func Load() (*Table, error) {
	var file districtsFile
	if err := yaml.Unmarshal(districtsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse district table: %w", err)
	}
	if len(file.Districts) == 0 {
		return nil, fmt.Errorf("district table is empty")
	}

	t := &Table{
		stats: make(map[string]model.DistrictStats, len(file.Districts)),
		zones: make(map[string]string),
	}
	for _, rec := range file.Districts {
		key := normalizeKey(rec.AdminDistrict)
		if key == "" {
			return nil, fmt.Errorf("district record without adminDistrict")
		}
		t.stats[key] = model.DistrictStats{
			AdminDistrict:      rec.AdminDistrict,
			AvgPricePerM2:      rec.AvgPricePerM2,
			PriceChangePercent: rec.PriceChangePercent,
			PriceTier:          model.PriceTier(rec.PriceTier),
			KebabIndex:         rec.KebabIndex,
			Crime: model.CrimeStats{
				Violent:  rec.Crime.Violent,
				Burglary: rec.Crime.Burglary,
				Fire:     rec.Crime.Fire,
			},
		}
		for _, hood := range rec.Neighborhoods {
			t.zones[normalizeKey(hood)] = rec.AdminDistrict
		}
	}
	return t, nil
}

// Lookup resolves a city/district pair to district stats. The district may
// be an administrative district ("Praha 10"), a neighborhood ("Strašnice"),
// or absent with the zone encoded in the city field. The dataset covers
// Prague only, so other locations miss.
func (t *Table) Lookup(city, district string) (model.DistrictStats, bool) {
	admin, ok := t.AdminDistrict(city, district)
	if !ok {
		return model.DistrictStats{}, false
	}
	stats := t.stats[normalizeKey(admin)]
	if district != "" && !strings.EqualFold(util.CleanText(district), admin) {
		stats.District = util.CleanText(district)
	}
	return stats, true
}

// AdminDistrict resolves a city/district pair to its administrative district
// name without copying the stats.
func (t *Table) AdminDistrict(city, district string) (string, bool) {
	for _, candidate := range []string{district, city} {
		key := normalizeKey(candidate)
		if key == "" {
			continue
		}
		if _, ok := t.stats[key]; ok {
			return t.stats[key].AdminDistrict, true
		}
		if admin, ok := t.zones[key]; ok {
			return admin, true
		}
	}
	return "", false
}

// normalizeKey folds case and the Prague/Praha spelling difference so both
// forms of an admin district name hit the same record.
func normalizeKey(s string) string {
	key := strings.ToLower(util.CleanText(s))
	key = strings.ReplaceAll(key, "prague", "praha")
	return key
}
