// Package catalog holds the static world data: the building's floor plan
// and the market item book. Both ship embedded so the binary is
// self-contained; the loaders exist so tests and tools can feed their own
// fixtures.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"towerverse/internal/domain/tower"
)

//go:embed locations.yaml
var locationsYAML []byte

//go:embed items.yaml
var itemsYAML []byte

type locationsFile struct {
	Locations []locationEntry `yaml:"locations"`
}

type locationEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Floor       string `yaml:"floor"`
	Behavior    string `yaml:"behavior"`
	Description string `yaml:"description"`
}

type itemsFile struct {
	Items []ItemEntry `yaml:"items"`
}

// ItemEntry is one market item definition.
type ItemEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	BasePrice   int    `yaml:"base_price"`
	Supply      int    `yaml:"supply"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// Locations parses the embedded floor plan.
func Locations() ([]tower.Location, error) {
	return ParseLocations(locationsYAML)
}

// ParseLocations decodes a floor plan document and validates it: ids are
// unique, behaviors are known, and the lobby exists.
func ParseLocations(raw []byte) ([]tower.Location, error) {
	var f locationsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("locations.yaml: %w", err)
	}
	if len(f.Locations) == 0 {
		return nil, fmt.Errorf("locations.yaml: empty floor plan")
	}
	seen := map[string]bool{}
	out := make([]tower.Location, 0, len(f.Locations))
	for _, e := range f.Locations {
		if e.ID == "" {
			return nil, fmt.Errorf("locations.yaml: location without id")
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("locations.yaml: duplicate id %q", e.ID)
		}
		seen[e.ID] = true
		b := tower.Behavior(e.Behavior)
		switch b {
		case tower.BehaviorNeutral, tower.BehaviorSocial, tower.BehaviorKitchen,
			tower.BehaviorFlaky, tower.BehaviorFork, tower.BehaviorEcho, tower.BehaviorVoid:
		default:
			return nil, fmt.Errorf("locations.yaml: %s: unknown behavior %q", e.ID, e.Behavior)
		}
		out = append(out, tower.Location{
			ID:          e.ID,
			Name:        e.Name,
			Floor:       e.Floor,
			Behavior:    b,
			Description: e.Description,
		})
	}
	if !seen[tower.LocationLobby] {
		return nil, fmt.Errorf("locations.yaml: missing %q", tower.LocationLobby)
	}
	return out, nil
}

// Items parses the embedded market book.
func Items() ([]ItemEntry, error) {
	return ParseItems(itemsYAML)
}

func ParseItems(raw []byte) ([]ItemEntry, error) {
	var f itemsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("items.yaml: %w", err)
	}
	seen := map[string]bool{}
	for _, e := range f.Items {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("items.yaml: item without id or name")
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("items.yaml: duplicate id %q", e.ID)
		}
		seen[e.ID] = true
		if e.BasePrice < 1 {
			return nil, fmt.Errorf("items.yaml: %s: base price must be positive", e.ID)
		}
	}
	return f.Items, nil
}

// Listings builds the initial market book from the item entries.
func Listings(items []ItemEntry) []tower.Listing {
	out := make([]tower.Listing, 0, len(items))
	for _, e := range items {
		l := tower.Listing{
			ItemID: e.ID,
			Name:   e.Name,
			Base:   e.BasePrice,
			Supply: e.Supply,
		}
		l.Reprice()
		out = append(out, l)
	}
	return out
}
