package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterAssetRequest struct {
	OwnerID      string  `json:"owner_id"`
	Kind         string  `json:"kind"`
	CapacityMW   float64 `json:"capacity_mw"`
	ChargeMWh    float64 `json:"charge_mwh,omitempty"`
	MaxChargeMWh float64 `json:"max_charge_mwh,omitempty"`
}

type DispatchRequest struct {
	MW    float64 `json:"mw"`
	Hours float64 `json:"hours"`
}

type ChargeRequest struct {
	MWh float64 `json:"mwh"`
}

type AssetResponse struct {
	AssetID      string  `json:"asset_id"`
	OwnerID      string  `json:"owner_id"`
	Kind         string  `json:"kind"`
	CapacityMW   float64 `json:"capacity_mw"`
	ChargeMWh    float64 `json:"charge_mwh"`
	MaxChargeMWh float64 `json:"max_charge_mwh"`
	Status       string  `json:"status"`
}

type AssetsResponse struct {
	Items []AssetResponse `json:"items"`
}
