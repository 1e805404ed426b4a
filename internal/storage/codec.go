package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"finledger/internal/core"
)

// Document schema. Pointer fields distinguish "absent" from "zero value".
type (
	snapshotDoc struct {
		Transactions *transactionsDoc   `json:"transactions"`
		Budgets      map[string]*number `json:"budgets"`
	}

	transactionsDoc struct {
		Income  []transactionDoc `json:"income"`
		Expense []transactionDoc `json:"expense"`
	}

	transactionDoc struct {
		Date            *string `json:"date"`
		Amount          *number `json:"amount"`
		Category        *string `json:"category"`
		Description     *string `json:"description"`
		TransactionType *string `json:"transaction_type"`
	}
)

// number is an amount written as a bare JSON number. Quoted numbers are
// accepted on decode.
type number struct {
	decimal.Decimal
}

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	return n.Decimal.UnmarshalJSON(data)
}

// EncodeSnapshot renders s as the snapshot document:
//
//	{"transactions": {"income": [...], "expense": [...]}, "budgets": {...}}
func EncodeSnapshot(s core.Snapshot) ([]byte, error) {
	doc := snapshotDoc{
		Transactions: &transactionsDoc{
			Income:  encodeTransactions(s.Income),
			Expense: encodeTransactions(s.Expense),
		},
		Budgets: make(map[string]*number, len(s.Budgets)),
	}
	for name, amount := range s.Budgets {
		doc.Budgets[name] = &number{amount}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeTransactions(txs []core.Transaction) []transactionDoc {
	out := make([]transactionDoc, 0, len(txs))
	for _, t := range txs {
		date := t.Date.String()
		amount := number{t.Amount}
		category := t.Category
		description := t.Description
		kind := t.Kind.String()
		out = append(out, transactionDoc{
			Date:            &date,
			Amount:          &amount,
			Category:        &category,
			Description:     &description,
			TransactionType: &kind,
		})
	}
	return out
}

// DecodeSnapshot parses a snapshot document. Absent sections decode as
// empty; anything else that does not fit the schema is core.ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) (core.Snapshot, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: %v", core.ErrCorruptSnapshot, err)
	}

	s := core.NewSnapshot()
	if doc.Transactions != nil {
		var err error
		if s.Income, err = decodeTransactions(doc.Transactions.Income, core.Income); err != nil {
			return core.Snapshot{}, err
		}
		if s.Expense, err = decodeTransactions(doc.Transactions.Expense, core.Expense); err != nil {
			return core.Snapshot{}, err
		}
	}
	for name, amount := range doc.Budgets {
		if amount == nil || !amount.IsPositive() {
			return core.Snapshot{}, fmt.Errorf("%w: budget %q must be a positive number", core.ErrCorruptSnapshot, name)
		}
		s.Budgets[name] = amount.Decimal
	}
	return s, nil
}

func decodeTransactions(docs []transactionDoc, section core.Kind) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(docs))
	for i, d := range docs {
		t, err := d.transaction()
		if err == nil && t.Kind != section {
			err = fmt.Errorf("transaction_type %q in %s section", t.Kind, section)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", core.ErrCorruptSnapshot, section, i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (d transactionDoc) transaction() (core.Transaction, error) {
	switch {
	case d.Date == nil:
		return core.Transaction{}, fmt.Errorf("missing date")
	case d.Amount == nil:
		return core.Transaction{}, fmt.Errorf("missing amount")
	case d.Category == nil:
		return core.Transaction{}, fmt.Errorf("missing category")
	case d.Description == nil:
		return core.Transaction{}, fmt.Errorf("missing description")
	case d.TransactionType == nil:
		return core.Transaction{}, fmt.Errorf("missing transaction_type")
	}
	date, err := core.ParseISODate(*d.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		Date:        date,
		Amount:      d.Amount.Decimal,
		Category:    *d.Category,
		Description: *d.Description,
		Kind:        core.Kind(*d.TransactionType),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
