package entities

import "time"

const (
	FacilityStatusHidden  = "hidden"
	FacilityStatusExposed = "exposed"
	FacilityStatusRaided  = "raided"
)

// Facility is an illicit operation site. HeatLevel is accumulated law
// enforcement attention on a 0..100 scale.
type Facility struct {
	FacilityID string
	OwnerID    string
	Kind       string
	HeatLevel  float64
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Route is a smuggling lane between two locations, anchored to a facility.
type Route struct {
	RouteID     string
	FacilityID  string
	Origin      string
	Destination string
	RiskScore   float64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Channel is a communication line a facility uses to coordinate.
type Channel struct {
	ChannelID  string
	FacilityID string
	Medium     string
	Encrypted  bool
	CreatedAt  time.Time
}

// mediumBaseRisk is the interception exposure per communication medium.
var mediumBaseRisk = map[string]float64{
	"courier":  20,
	"radio":    30,
	"phone":    35,
	"internet": 45,
}

const defaultMediumRisk = 25

// RouteRisk scores a route from the facility's worst communication channel
// plus its heat. Encryption halves a channel's contribution. The result is
// clamped to [0, 100].
func RouteRisk(facility Facility, channels []Channel) float64 {
	base := float64(defaultMediumRisk)
	for _, channel := range channels {
		risk, ok := mediumBaseRisk[channel.Medium]
		if !ok {
			risk = defaultMediumRisk
		}
		if channel.Encrypted {
			risk /= 2
		}
		if risk > base {
			base = risk
		}
	}
	score := base + facility.HeatLevel*0.5
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
