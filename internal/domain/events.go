package domain

import "time"

// Event types
const (
	EventTypeTransactionPosted = "transaction.posted"
	EventTypeAccountCreated    = "account.created"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeAccount     = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PostedEntry is the per-entry part of TransactionPostedEvent.
type PostedEntry struct {
	EntryID   string `json:"entry_id"`
	AccountID string `json:"account_id"`
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
}

// TransactionPostedEvent payload
type TransactionPostedEvent struct {
	TransactionID string        `json:"transaction_id"`
	Name          string        `json:"name,omitempty"`
	Entries       []PostedEntry `json:"entries"`
	PostedAt      string        `json:"posted_at"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
}

// NewTransactionPostedEvent builds the outbox payload for a posted transaction.
func NewTransactionPostedEvent(t *Transaction) TransactionPostedEvent {
	entries := make([]PostedEntry, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, PostedEntry{
			EntryID:   e.ID,
			AccountID: e.AccountID,
			Direction: string(e.Direction),
			Amount:    FormatMinorUnits(e.Amount),
		})
	}
	return TransactionPostedEvent{
		TransactionID: t.ID,
		Name:          t.Name,
		Entries:       entries,
		PostedAt:      t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// ToMap converts the event into an outbox payload.
func (e TransactionPostedEvent) ToMap() map[string]any {
	entries := make([]any, 0, len(e.Entries))
	for _, pe := range e.Entries {
		entries = append(entries, map[string]any{
			"entry_id":   pe.EntryID,
			"account_id": pe.AccountID,
			"direction":  pe.Direction,
			"amount":     pe.Amount,
		})
	}
	m := map[string]any{
		"transaction_id": e.TransactionID,
		"entries":        entries,
		"posted_at":      e.PostedAt,
	}
	if e.Name != "" {
		m["name"] = e.Name
	}
	return m
}

// ToMap converts the event into an outbox payload.
func (e AccountCreatedEvent) ToMap() map[string]any {
	return map[string]any{
		"account_id": e.AccountID,
		"name":       e.Name,
		"direction":  e.Direction,
	}
}
