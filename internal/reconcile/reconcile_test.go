package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finledger/internal/core"
	"finledger/internal/ledger"
	"finledger/internal/storage/memory"
)

func openLedger(t *testing.T) (*ledger.Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	clock := func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }
	e, err := ledger.Open(context.Background(), "alice", store, ledger.WithClock(clock))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return e, store
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{".JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{" xls ", FormatXLS, false},
		{"xlsx", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if f, err := FormatOf("/tmp/data/bank.CSV"); err != nil || f != FormatCSV {
		t.Errorf("FormatOf = %q, %v", f, err)
	}
}

const bankCSV = `date,amount,category,description,transaction_type
2024-01-05,1000,,January pay,income
05/01/2024,"45,50",Groceries,weekly shop,expense
2024-01-07,12,,bus ticket,expense
`

func TestImport_CSV(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())

	res, err := r.Import(context.Background(), strings.NewReader(bankCSV), FormatCSV)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Added != 3 || res.Duplicates != 0 {
		t.Fatalf("Import() = %+v, want 3 added", res)
	}

	income := e.Income()
	if len(income) != 1 || income[0].Category != core.SalaryCategory {
		t.Errorf("income = %+v, want one Salary record", income)
	}
	expenses := e.Expenses()
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
	if !expenses[0].Date.Equal(core.NewDate(2024, 1, 5)) {
		t.Errorf("day-first date parsed as %s", expenses[0].Date)
	}
	if !expenses[0].Amount.Equal(decimal.RequireFromString("45.50")) {
		t.Errorf("decimal comma amount parsed as %s", expenses[0].Amount)
	}
	if expenses[1].Category != core.Transportation.String() {
		t.Errorf("blank category classified as %q, want Transportation", expenses[1].Category)
	}

	again, err := r.Import(context.Background(), strings.NewReader(bankCSV), FormatCSV)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if again.Added != 0 || again.Duplicates != 3 {
		t.Errorf("re-import = %+v, want 3 duplicates", again)
	}
	if len(e.Transactions()) != 3 {
		t.Errorf("re-import changed the ledger: %d records", len(e.Transactions()))
	}
}

func TestImport_DuplicateRowsInSource(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())
	src := `Date,Amount,Category,Description,Transaction_Type
2024-02-01,20,Health,pharmacy,expense
2024-02-01,20.00,Health,pharmacy,expense
`
	res, err := r.Import(context.Background(), strings.NewReader(src), FormatCSV)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Added != 1 || res.Duplicates != 1 {
		t.Errorf("Import() = %+v, want 1 added and 1 duplicate", res)
	}
}

func TestImport_MalformedIsAllOrNothing(t *testing.T) {
	tests := map[string]string{
		"bad amount": `date,amount,category,description,transaction_type
2024-01-05,10,Rent,flat,expense
2024-01-06,abc,Rent,flat,expense
`,
		"bad date": `date,amount,category,description,transaction_type
2024-01-05,10,Rent,flat,expense
yesterday,10,Rent,flat,expense
`,
		"bad kind": `date,amount,category,description,transaction_type
2024-01-05,10,Rent,flat,expense
2024-01-06,10,Rent,flat,transfer
`,
		"negative amount": `date,amount,category,description,transaction_type
2024-01-05,10,Rent,flat,expense
2024-01-06,-5,Rent,flat,expense
`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			e, store := openLedger(t)
			saves := store.Saves()
			r := New(e, t.TempDir())

			_, err := r.Import(context.Background(), strings.NewReader(src), FormatCSV)
			if !errors.Is(err, core.ErrMalformedImportData) {
				t.Fatalf("Import() error = %v, want ErrMalformedImportData", err)
			}
			var rowErr *core.RowError
			if !errors.As(err, &rowErr) || rowErr.Row != 2 {
				t.Errorf("expected a row error for row 2, got %v", err)
			}
			if len(e.Transactions()) != 0 {
				t.Error("ledger changed after a failed import")
			}
			if store.Saves() != saves {
				t.Error("store written after a failed import")
			}
		})
	}
}

func TestImport_MissingColumns(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())
	src := "date,amount,description\n2024-01-05,10,rent\n"

	_, err := r.Import(context.Background(), strings.NewReader(src), FormatCSV)
	if !errors.Is(err, core.ErrMalformedImportData) {
		t.Fatalf("Import() error = %v, want ErrMalformedImportData", err)
	}
	if !strings.Contains(err.Error(), "transaction_type") {
		t.Errorf("error should name the missing column, got %v", err)
	}
}

func TestImport_JSONRecords(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())
	src := `[
		{"date": 1704412800000, "amount": 1200, "category": "", "description": "pay", "transaction_type": "income"},
		{"date": "2024-01-06", "amount": "30.25", "category": null, "description": "cinema night", "transaction_type": "Expense"}
	]`

	res, err := r.Import(context.Background(), strings.NewReader(src), FormatJSON)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Added != 2 {
		t.Fatalf("Import() = %+v, want 2 added", res)
	}
	income := e.Income()
	if !income[0].Date.Equal(core.NewDate(2024, 1, 5)) {
		t.Errorf("epoch date parsed as %s", income[0].Date)
	}
	if got := e.Expenses()[0].Category; got != core.Entertainment.String() {
		t.Errorf("category = %q, want Entertainment", got)
	}
}

func TestImport_JSONColumns(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())
	src := `{
		"date": {"0": "2024-03-01", "1": "2024-03-02", "10": "2024-03-03"},
		"amount": {"0": 500, "1": 8.5, "10": 3},
		"category": {"0": null, "1": "Groceries", "10": "Other"},
		"description": {"0": "salary", "1": "bread", "10": "gum"},
		"transaction_type": {"0": "income", "1": "expense", "10": "expense"}
	}`

	res, err := r.Import(context.Background(), strings.NewReader(src), FormatJSON)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Added != 3 {
		t.Fatalf("Import() = %+v, want 3 added", res)
	}
	expenses := e.Expenses()
	if expenses[0].Description != "bread" || expenses[1].Description != "gum" {
		t.Errorf("rows out of order: %+v", expenses)
	}
}

func TestImport_JSONMissingKind(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())
	src := `[{"date": "2024-01-06", "amount": 3, "description": "x"}]`

	_, err := r.Import(context.Background(), strings.NewReader(src), FormatJSON)
	if !errors.Is(err, core.ErrMalformedImportData) {
		t.Fatalf("Import() error = %v, want ErrMalformedImportData", err)
	}
}

func TestImport_JSONMissingCategoryAndDescription(t *testing.T) {
	tests := map[string]string{
		"records": `[{"date": "2024-01-02", "amount": 40, "transaction_type": "income"}]`,
		"columns": `{"date": {"0": "2024-01-02"}, "amount": {"0": 40}, "description": {"0": "pay"}, "transaction_type": {"0": "income"}}`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			e, store := openLedger(t)
			saves := store.Saves()
			r := New(e, t.TempDir())

			_, err := r.Import(context.Background(), strings.NewReader(src), FormatJSON)
			if !errors.Is(err, core.ErrMalformedImportData) {
				t.Fatalf("Import() error = %v, want ErrMalformedImportData", err)
			}
			var rowErr *core.RowError
			if !errors.As(err, &rowErr) || rowErr.Field != colCategory {
				t.Errorf("expected the missing category to be reported, got %v", err)
			}
			if len(e.Transactions()) != 0 || store.Saves() != saves {
				t.Error("ledger changed after a failed import")
			}
		})
	}

	// the same row in CSV is rejected too
	e, _ := openLedger(t)
	csvSrc := "date,amount,transaction_type\n2024-01-02,40,income\n"
	if _, err := New(e, t.TempDir()).Import(context.Background(), strings.NewReader(csvSrc), FormatCSV); !errors.Is(err, core.ErrMalformedImportData) {
		t.Errorf("csv Import() error = %v, want ErrMalformedImportData", err)
	}
}

func TestImportFile(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())
	path := filepath.Join(t.TempDir(), "bank.csv")
	if err := os.WriteFile(path, []byte(bankCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := r.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if res.Added != 3 {
		t.Errorf("ImportFile() = %+v, want 3 added", res)
	}

	if _, err := r.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := r.ImportFile(context.Background(), "notes.txt"); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

// testdata/bank.xls holds a title row above the header, serial and text
// dates, and blank category cells.
func TestImportFile_XLS(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())

	res, err := r.ImportFile(context.Background(), filepath.Join("testdata", "bank.xls"))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if res.Added != 3 || res.Duplicates != 0 {
		t.Fatalf("ImportFile() = %+v, want 3 added", res)
	}

	income := e.Income()
	if len(income) != 1 {
		t.Fatalf("expected 1 income record, got %d", len(income))
	}
	if !income[0].Date.Equal(core.NewDate(2024, 1, 5)) {
		t.Errorf("serial date parsed as %s, want 2024-01-05", income[0].Date)
	}
	if !income[0].Amount.Equal(decimal.NewFromInt(1000)) || income[0].Category != core.SalaryCategory {
		t.Errorf("income = %+v", income[0])
	}

	expenses := e.Expenses()
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
	if !expenses[0].Date.Equal(core.NewDate(2024, 1, 6)) {
		t.Errorf("text date parsed as %s, want 2024-01-06", expenses[0].Date)
	}
	if !expenses[0].Amount.Equal(decimal.RequireFromString("45.50")) || expenses[0].Category != "Groceries" {
		t.Errorf("expenses[0] = %+v", expenses[0])
	}
	if !expenses[1].Date.Equal(core.NewDate(2024, 1, 7)) {
		t.Errorf("serial date parsed as %s, want 2024-01-07", expenses[1].Date)
	}
	if expenses[1].Category != core.Transportation.String() {
		t.Errorf("blank category classified as %q, want Transportation", expenses[1].Category)
	}

	f, err := os.Open(filepath.Join("testdata", "bank.xls"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	again, err := r.Import(context.Background(), f, FormatXLS)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if again.Added != 0 || again.Duplicates != 3 {
		t.Errorf("re-import = %+v, want 3 duplicates", again)
	}
}

func TestImport_XLSNotAWorkbook(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir())

	_, err := r.Import(context.Background(), strings.NewReader(bankCSV), FormatXLS)
	if !errors.Is(err, core.ErrMalformedImportData) {
		t.Errorf("Import() error = %v, want ErrMalformedImportData", err)
	}
}

func TestImport_ClassifierOption(t *testing.T) {
	e, _ := openLedger(t)
	r := New(e, t.TempDir(), WithClassifier(ledger.ClassifierFunc(func(string) core.Category { return core.Shopping })))
	src := "date,amount,category,description,transaction_type\n2024-01-05,10,,anything,expense\n"

	if _, err := r.Import(context.Background(), strings.NewReader(src), FormatCSV); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if got := e.Expenses()[0].Category; got != core.Shopping.String() {
		t.Errorf("category = %q, want Shopping", got)
	}
}
