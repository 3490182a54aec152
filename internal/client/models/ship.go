package models

type ShipType string

const (
	ShipTypeMiner ShipType = "MINER"
	ShipTypeScout ShipType = "SCOUT"
)

type ShipStatus string

const (
	ShipIdle      ShipStatus = "IDLE"
	ShipOnMission ShipStatus = "ON_MISSION"
)

type Color string

const (
	ColorEmerald  Color = "EMERALD"
	ColorDiamond  Color = "DIAMOND"
	ColorRuby     Color = "RUBY"
	ColorTopaz    Color = "TOPAZ"
	ColorSapphire Color = "SAPPHIRE"
)

type ShipPart struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Ship is a ship in the hangar.
type Ship struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Type      ShipType   `json:"type"`
	Color     Color      `json:"color"`
	Status    ShipStatus `json:"status"`
	MissionID ID         `json:"missionId"`
	Parts     []ShipPart `json:"parts"`
}

// NewShip is the body of the add-ship request.
type NewShip struct {
	Name  string   `json:"name"`
	Color Color    `json:"color"`
	Type  ShipType `json:"type"`
}
