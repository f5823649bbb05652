package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordEngagementRequest struct {
	OwnerID        string  `json:"owner_id"`
	ClientID       string  `json:"client_id"`
	Sector         string  `json:"sector"`
	Revenue        float64 `json:"revenue"`
	HoursBilled    float64 `json:"hours_billed"`
	HoursAvailable float64 `json:"hours_available"`
}

type EngagementResponse struct {
	EngagementID   string    `json:"engagement_id"`
	OwnerID        string    `json:"owner_id"`
	ClientID       string    `json:"client_id"`
	Sector         string    `json:"sector"`
	Revenue        float64   `json:"revenue"`
	HoursBilled    float64   `json:"hours_billed"`
	HoursAvailable float64   `json:"hours_available"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type EngagementsResponse struct {
	Items []EngagementResponse `json:"items"`
}

type SectorRollupResponse struct {
	Sector          string  `json:"sector"`
	Revenue         float64 `json:"revenue"`
	EngagementCount int     `json:"engagement_count"`
}

type MetricsResponse struct {
	OwnerID            string                 `json:"owner_id"`
	EngagementCount    int                    `json:"engagement_count"`
	TotalRevenue       float64                `json:"total_revenue"`
	AverageUtilization float64                `json:"average_utilization"`
	Sectors            []SectorRollupResponse `json:"sectors"`
}
