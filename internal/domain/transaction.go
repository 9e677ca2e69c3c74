package domain

import "time"

// Transaction groups balanced entries that are posted atomically.
type Transaction struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Entries   []*Entry
}

// AccountIDs returns the distinct account ids touched by the transaction in
// order of first appearance.
func (t *Transaction) AccountIDs() []string {
	seen := make(map[string]struct{}, len(t.Entries))
	ids := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// Totals returns the debit and credit sums of the transaction in minor units.
func (t *Transaction) Totals() (debits, credits int64) {
	return sumByDirection(t.Entries)
}

func sumByDirection(entries []*Entry) (debits, credits int64) {
	for _, e := range entries {
		switch e.Direction {
		case DirectionDebit:
			debits += e.Amount
		case DirectionCredit:
			credits += e.Amount
		}
	}
	return debits, credits
}
