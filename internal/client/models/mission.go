package models

// MissionStatus is the server's lifecycle state of a mission.
type MissionStatus string

const (
	MissionEnRoute    MissionStatus = "EN_ROUTE"
	MissionInProgress MissionStatus = "IN_PROGRESS"
	MissionReturning  MissionStatus = "RETURNING"
	MissionOver       MissionStatus = "OVER"
	MissionArchived   MissionStatus = "ARCHIVED"
)

// Final reports whether the mission can no longer change.
func (s MissionStatus) Final() bool {
	return s == MissionOver || s == MissionArchived
}

type Location struct {
	ID                  ID       `json:"id"`
	Name                string   `json:"name"`
	ResourceType        Resource `json:"resourceType"`
	DistanceFromStation int      `json:"distanceFromStation"`
	MissionID           ID       `json:"missionId"`
}

// HasMission reports whether a live mission is bound to the location.
func (l Location) HasMission() bool { return !l.MissionID.IsZero() }

type Event struct {
	EndTime Timestamp `json:"endTime"`
	Type    string    `json:"eventType"`
	Message string    `json:"eventMessage"`
}

// Mission is the server's view of a mission.
type Mission struct {
	ID               ID            `json:"id"`
	ShipID           ID            `json:"shipId"`
	LocationID       ID            `json:"locationId"`
	ActivityDuration int64         `json:"activityDuration"`
	StartedAt        Timestamp     `json:"startTime"`
	ApproxEndTime    Timestamp     `json:"approxEndTime"`
	Status           MissionStatus `json:"status"`
	Events           []Event       `json:"events"`
}

// NewMission is the body of the mission creation request.
type NewMission struct {
	ShipID           ID    `json:"shipId"`
	ActivityDuration int64 `json:"activityDuration"`
	LocationID       ID    `json:"locationId"`
}
