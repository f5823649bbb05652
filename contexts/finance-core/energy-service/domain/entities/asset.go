package entities

import "time"

const (
	KindPlant   = "plant"
	KindBattery = "battery"

	StatusIdle        = "idle"
	StatusDispatching = "dispatching"
)

// Asset is a dispatchable generator or storage unit. Plants are bounded by
// nameplate capacity; batteries also carry stored energy that dispatch
// drains.
type Asset struct {
	AssetID      string
	OwnerID      string
	Kind         string
	CapacityMW   float64
	ChargeMWh    float64
	MaxChargeMWh float64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Asset) IsBattery() bool {
	return a.Kind == KindBattery
}
