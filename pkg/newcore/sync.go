package newcore

import "time"

// Legacy sync event types, published on the sync topic keyed by customer id.
const (
	EventCustomerRegistered    = "customer.registered"
	EventCustomerLegalUpdated  = "customer.legal.updated"
	EventCustomerEmailVerified = "customer.email.verified"
)

// SyncEvent tells the legacy stack that a new-core customer changed.
type SyncEvent struct {
	Type       string    `json:"type"`
	CustomerID string    `json:"customerId"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
