package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionKind tells which side of a transfer a log entry records.
type TransactionKind string

const (
	Sent     TransactionKind = "Sent"
	Received TransactionKind = "Received"
)

// TimeLayout formats transaction timestamps with microsecond precision.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Transaction is one entry in a user's log. Counterparty is the recipient
// for Sent entries and the sender for Received entries.
type Transaction struct {
	Kind         TransactionKind
	Counterparty string
	Amount       decimal.Decimal
	Time         string
}

// Equal compares entries with numeric equality on the amount.
func (t Transaction) Equal(o Transaction) bool {
	return t.Kind == o.Kind && t.Counterparty == o.Counterparty && t.Time == o.Time && t.Amount.Equal(o.Amount)
}

type transactionJSON struct {
	Type   TransactionKind `json:"type"`
	To     string          `json:"to,omitempty"`
	From   string          `json:"from,omitempty"`
	Amount json.Number     `json:"amount"`
	Time   string          `json:"time"`
}

// MarshalJSON writes the counterparty under "to" or "from" depending on the
// direction, and the amount as a bare JSON number.
func (t Transaction) MarshalJSON() ([]byte, error) {
	out := transactionJSON{Type: t.Kind, Amount: json.Number(t.Amount.String()), Time: t.Time}
	if t.Kind == Received {
		out.From = t.Counterparty
	} else {
		out.To = t.Counterparty
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the format written by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var in transactionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	amount := decimal.Zero
	if in.Amount != "" {
		parsed, err := decimal.NewFromString(in.Amount.String())
		if err != nil {
			return fmt.Errorf("transaction amount %q: %w", in.Amount, err)
		}
		amount = parsed
	}
	t.Kind = in.Type
	t.Amount = amount
	t.Time = in.Time
	if in.Type == Received {
		t.Counterparty = in.From
	} else {
		t.Counterparty = in.To
	}
	return nil
}
