package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateFacilityRequest struct {
	OwnerID   string  `json:"owner_id"`
	Kind      string  `json:"kind"`
	HeatLevel float64 `json:"heat_level"`
}

type FacilityResponse struct {
	FacilityID string  `json:"facility_id"`
	OwnerID    string  `json:"owner_id"`
	Kind       string  `json:"kind"`
	HeatLevel  float64 `json:"heat_level"`
	Status     string  `json:"status"`
}

type FacilitiesResponse struct {
	Items []FacilityResponse `json:"items"`
}

type CreateRouteRequest struct {
	FacilityID  string `json:"facility_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type RouteResponse struct {
	RouteID     string  `json:"route_id"`
	FacilityID  string  `json:"facility_id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	RiskScore   float64 `json:"risk_score"`
	Active      bool    `json:"active"`
}

type RoutesResponse struct {
	Items []RouteResponse `json:"items"`
}

type CreateChannelRequest struct {
	FacilityID string `json:"facility_id"`
	Medium     string `json:"medium"`
	Encrypted  bool   `json:"encrypted"`
}

type ChannelResponse struct {
	ChannelID  string `json:"channel_id"`
	FacilityID string `json:"facility_id"`
	Medium     string `json:"medium"`
	Encrypted  bool   `json:"encrypted"`
}

type ChannelsResponse struct {
	Items []ChannelResponse `json:"items"`
}
