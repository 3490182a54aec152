package models

import (
	"sort"
	"strings"
)

// Resource names a kind of stored material. The server may add kinds the
// client does not know; they are carried through unchanged.
type Resource string

const (
	ResourceMetal     Resource = "METAL"
	ResourceCrystal   Resource = "CRYSTAL"
	ResourcePlutonium Resource = "PLUTONIUM"
	ResourceSilicone  Resource = "SILICONE"
)

// Icon is the display icon of the resource: the lower-cased name plus ".png".
func (r Resource) Icon() string {
	return strings.ToLower(string(r)) + ".png"
}

// Amounts maps resource kinds to quantities (stock or cost).
type Amounts map[Resource]int

// Kinds returns the keys sorted by name.
func (a Amounts) Kinds() []Resource {
	out := make([]Resource, 0, len(a))
	for r := range a {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Station is the response of the station lookup.
type Station struct {
	ID ID `json:"id"`
}

// Storage is the resource store of a station.
type Storage struct {
	Level     int     `json:"level"`
	Capacity  int     `json:"capacity"`
	FreeSpace int     `json:"freeSpace"`
	Resources Amounts `json:"resources"`
}

// Used returns the sum of stored quantities.
func (s Storage) Used() int {
	n := 0
	for _, v := range s.Resources {
		n += v
	}
	return n
}

// Hangar is the ship bay of a station.
type Hangar struct {
	Level    int    `json:"level"`
	Capacity int    `json:"capacity"`
	Ships    []Ship `json:"ships"`
}

// Idle returns the ships that can be sent on a mission, in hangar order.
func (h Hangar) Idle() []Ship {
	var out []Ship
	for _, s := range h.Ships {
		if s.Status == ShipIdle {
			out = append(out, s)
		}
	}
	return out
}
