package models

import "strings"

// Material is a bulk material sold per cubic metre
type Material struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Price int    `json:"price"` // ₽ per м³
}

// Catalog lists the materials offered on the site, in display order
var Catalog = []Material{
	{Value: "sand", Label: "Песок", Price: 850},
	{Value: "marble", Label: "Мраморная крошка", Price: 1250},
	{Value: "gravel", Label: "Гравий", Price: 600},
	{Value: "crushed-stone", Label: "Щебень", Price: 1250},
	{Value: "expanded-clay", Label: "Керамзит", Price: 600},
	{Value: "soil", Label: "Грунт", Price: 850},
}

// FindMaterial looks a material up by value or label, ignoring case and surrounding spaces.
func FindMaterial(key string) (Material, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Material{}, false
	}
	for _, m := range Catalog {
		if strings.EqualFold(m.Value, key) || strings.EqualFold(m.Label, key) {
			return m, true
		}
	}
	return Material{}, false
}
