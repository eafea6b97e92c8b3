// Package lookup is the query capability: given the current identifier
// pair it fetches the matching production-order record. The engine
// treats the backend as opaque and performs no validation of the
// returned record's shape.
package lookup

import (
	"context"
	"time"
)

// Result is the production-order record returned by the backend.
// Field names follow the backend's JSON contract.
type Result struct {
	PartNumber   string `json:"partNumber"`
	OrderNumber  string `json:"orderNumber"`
	ProductName  string `json:"productName"`
	Customer     string `json:"customer"`
	Quantity     int    `json:"quantity"`
	Status       string `json:"status"`
	DeliveryDate string `json:"deliveryDate"`
	Process      string `json:"process"`
	Inspector    string `json:"inspector"`
	Notes        string `json:"notes"`
}

// Func performs one lookup. Implementations may block on the network;
// callers pass a context to bound them.
type Func func(ctx context.Context, partNumber, orderNumber string) (*Result, error)

// Mock returns an offline Func producing canned data after the given
// delay, for running without a backend.
func Mock(delay time.Duration) Func {
	return func(ctx context.Context, partNumber, orderNumber string) (*Result, error) {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		return &Result{
			PartNumber:   partNumber,
			OrderNumber:  orderNumber,
			ProductName:  "precision bearing assembly",
			Customer:     "Acme Machine Works",
			Quantity:     150,
			Status:       "in production",
			DeliveryDate: "2023-12-15",
			Process:      "turning and grinding complete",
			Inspector:    "J. Zhang",
			Notes:        "Batch 3, stainless **304**",
		}, nil
	}
}
