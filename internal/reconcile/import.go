package reconcile

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"finledger/internal/core"
	"finledger/internal/log"
)

type ImportResult struct {
	Added      int
	Duplicates int
}

// Import parses r and merges its transactions into the ledger.
//
// Every row is parsed before anything is merged: one malformed row fails
// the whole import with core.ErrMalformedImportData and the ledger is not
// touched. Exact duplicates of stored transactions, or of earlier rows in
// the same source, are skipped and counted. Imported expenses bypass the
// balance and budget checks of an interactive add.
func (r *Reconciler) Import(ctx context.Context, src io.Reader, format Format) (ImportResult, error) {
	recs, err := readRecords(src, format)
	if err != nil {
		return ImportResult{}, err
	}

	txs := make([]core.Transaction, 0, len(recs))
	for _, rec := range recs {
		t, err := r.transaction(rec)
		if err != nil {
			return ImportResult{}, err
		}
		txs = append(txs, t)
	}

	res, err := r.ledger.Merge(ctx, txs)
	if err != nil {
		return ImportResult{}, fmt.Errorf("merge imported transactions: %w", err)
	}

	r.logger.InfoContext(ctx, "Transactions imported",
		log.FieldOperation, log.OpImport,
		log.FieldFormat, format,
		log.FieldCount, res.Added,
		log.FieldDuplicates, res.Duplicates)
	return ImportResult{Added: res.Added, Duplicates: res.Duplicates}, nil
}

// ImportFile imports path, choosing the parser from its extension.
func (r *Reconciler) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	format, err := FormatOf(path)
	if err != nil {
		return ImportResult{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	res, err := r.Import(ctx, f, format)
	if err != nil {
		fields := log.NewFields().WithFile(path, string(format)).WithError(err)
		r.logger.WithFields(fields).WarnContext(ctx, "Import failed")
		return ImportResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func (r *Reconciler) transaction(rec record) (core.Transaction, error) {
	rowErr := func(field string, err error) error {
		return &core.RowError{Row: rec.Row, Field: field, Err: err}
	}

	kind, err := core.ParseKind(rec.Fields[colKind])
	if err != nil {
		return core.Transaction{}, rowErr(colKind, err)
	}

	rawDate := rec.Fields[colDate]
	var date core.Date
	if rec.epochDate {
		date, err = dateFromEpochMillis(rawDate)
	} else {
		date, err = ParseDate(rawDate)
	}
	if err != nil {
		return core.Transaction{}, rowErr(colDate, err)
	}

	amount, err := core.ParseAmount(rec.Fields[colAmount])
	if err != nil {
		return core.Transaction{}, rowErr(colAmount, err)
	}

	description := strings.TrimSpace(rec.Fields[colDescription])
	category := strings.TrimSpace(rec.Fields[colCategory])
	if category == "" {
		if kind == core.Income {
			category = core.SalaryCategory
		} else {
			category = r.classifier.Classify(description).String()
		}
	}

	return core.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
		Kind:        kind,
	}, nil
}
