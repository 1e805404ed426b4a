package reconcile

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"finledger/internal/log"
	"finledger/internal/storage/file"
)

// reportName is the file name of an export, without extension.
const reportName = "financial_report"

// Encode renders sum in format.
func Encode(sum Summary, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(sum)
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(sum); err != nil {
			return nil, fmt.Errorf("encode json report: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(sum); err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("export to %s is not supported", format)
	}
}

// encodeCSV writes the three report sections one after another, each with
// a title line, a header, its rows and its totals.
func encodeCSV(sum Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := [][]string{{"Income Breakdown"}}
	if len(sum.Income.Transactions) > 0 {
		records = append(records, []string{"Date", "Amount", "Description"})
		for _, r := range sum.Income.Transactions {
			records = append(records, []string{r.Date, r.Amount.String(), r.Description})
		}
	}
	records = append(records,
		[]string{},
		[]string{"Total Income: " + sum.Income.TotalIncome.String()},
		[]string{},
		[]string{"Expense Breakdown"},
	)
	if len(sum.Expense.Breakdown) > 0 {
		records = append(records, []string{"Date", "Amount", "Category", "Description"})
		for _, r := range sum.Expense.Breakdown {
			records = append(records, []string{r.Date, r.Amount.String(), r.Category, r.Description})
		}
	}
	records = append(records,
		[]string{},
		[]string{"Total Expenses: " + sum.Expense.TotalExpense.String()},
		[]string{"Actual Savings (after expenses): " + sum.Expense.NetSavings.String()},
		[]string{},
		[]string{"Budgets Breakdown"},
	)
	if len(sum.Budgets.Transactions) > 0 {
		records = append(records, []string{"Category", "Budgeted Amount", "Spent", "Remaining"})
		for _, r := range sum.Budgets.Transactions {
			records = append(records, []string{r.Category, r.Budgeted.String(), r.Spent.String(), r.Remaining.String()})
		}
	}
	records = append(records,
		[]string{},
		[]string{"Total Budget Allocation: " + sum.Budgets.TotalBudget.String()},
		[]string{"Planned Savings (after budgeting): " + sum.Budgets.PlannedSavings.String()},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("encode csv report: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportPath is where Export writes format for the ledger's identity.
func (r *Reconciler) ReportPath(format Format) string {
	return filepath.Join(r.reportsDir, r.ledger.Identity(), reportName+"."+format.Extension())
}

// Summary computes the report from the ledger's current snapshot.
func (r *Reconciler) Summary() Summary {
	return Summarize(r.ledger.Snapshot())
}

// Export writes the current summary in format and returns the file path.
func (r *Reconciler) Export(ctx context.Context, format Format) (string, error) {
	return r.write(ctx, r.Summary(), format)
}

// ExportAll writes the same summary in every export format concurrently.
// Paths are returned in ExportFormats order.
func (r *Reconciler) ExportAll(ctx context.Context) ([]string, error) {
	sum := r.Summary()
	paths := make([]string, len(ExportFormats))

	g, ctx := errgroup.WithContext(ctx)
	for i, format := range ExportFormats {
		g.Go(func() error {
			p, err := r.write(ctx, sum, format)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *Reconciler) write(ctx context.Context, sum Summary, format Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := Encode(sum, format)
	if err != nil {
		return "", err
	}
	path := r.ReportPath(format)
	if err := file.WriteAtomic(path, data); err != nil {
		r.logger.ErrorContext(ctx, "Export failed", log.FieldPath, path, log.FieldError, err)
		return "", fmt.Errorf("export %s report: %w", format, err)
	}
	r.logger.InfoContext(ctx, "Summary exported",
		log.FieldOperation, log.OpExport,
		log.FieldFormat, format,
		log.FieldPath, path)
	return path, nil
}
