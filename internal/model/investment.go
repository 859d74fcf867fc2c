package model

import "time"

// Investment is a purchase of shares in a property.
type Investment struct {
	ID           string    `json:"_id"`
	PropertyID   string    `json:"propertyId"`
	PropertyName string    `json:"propertyName,omitempty"`
	Shares       int       `json:"shares"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// InvestmentRequest is the body of the purchase call made at the end of checkout.
type InvestmentRequest struct {
	PropertyID    string  `json:"propertyId"`
	Shares        int     `json:"shares"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
}
