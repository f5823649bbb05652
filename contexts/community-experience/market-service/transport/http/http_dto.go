package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateListingRequest struct {
	SellerID string  `json:"seller_id"`
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

type CancelListingRequest struct {
	SellerID string `json:"seller_id"`
}

type FillListingRequest struct {
	BuyerID string `json:"buyer_id"`
}

type ListingResponse struct {
	ListingID string    `json:"listing_id"`
	SellerID  string    `json:"seller_id"`
	Symbol    string    `json:"symbol"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListingsResponse struct {
	Items []ListingResponse `json:"items"`
}

type TradeResponse struct {
	TradeID   string    `json:"trade_id"`
	ListingID string    `json:"listing_id"`
	Symbol    string    `json:"symbol"`
	SellerID  string    `json:"seller_id"`
	BuyerID   string    `json:"buyer_id"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Value     float64   `json:"value"`
	FilledAt  time.Time `json:"filled_at"`
}

type TickerResponse struct {
	Symbol string          `json:"symbol"`
	Items  []TradeResponse `json:"items"`
}
