package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"finledger/internal/core"
	"finledger/internal/ledger"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Indices are shown 1-based; the engine counts from zero.
func displayIndex(i int) int { return i + 1 }

func writeEntries(w io.Writer, entries []ledger.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No transactions.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tDATE\tKIND\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, e := range entries {
		t := e.Transaction
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			displayIndex(e.Index), t.Date, t.Kind, money(t.Amount), t.Category, t.Description)
	}
	return tw.Flush()
}

func entriesOf(txs []core.Transaction) []ledger.Entry {
	out := make([]ledger.Entry, len(txs))
	for i, t := range txs {
		out[i] = ledger.Entry{Index: i, Transaction: t}
	}
	return out
}

func writeWarnings(w io.Writer, ws []ledger.Warning) {
	for _, warn := range ws {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}
}
