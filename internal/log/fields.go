package log

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldIdentity      = "identity"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldKind          = "kind"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldDate          = "date"
	FieldIndex         = "index"
	FieldCount         = "count"
	FieldDuplicates    = "duplicates"
	FieldPath          = "path"
	FieldFormat        = "format"
	FieldBackend       = "backend"
	FieldWarning       = "warning"
	FieldSchemaVersion = "schema_version"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentBackend   = "backend"
	ComponentReconcile = "reconcile"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpBudget  = "set_budget"
	OpLoad    = "load"
	OpSave    = "save"
	OpImport  = "import"
	OpExport  = "export"
	OpMerge   = "merge"
	OpMigrate = "migrate"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithIdentity adds the user identity field
func (f LogFields) WithIdentity(identity string) LogFields {
	f[FieldIdentity] = identity
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(kind, category string, amount decimal.Decimal, date string) LogFields {
	f[FieldKind] = kind
	f[FieldCategory] = category
	f[FieldAmount] = amount.String()
	f[FieldDate] = date
	return f
}

// WithFile adds file path and format fields
func (f LogFields) WithFile(path, format string) LogFields {
	f[FieldPath] = path
	f[FieldFormat] = format
	return f
}

// ToSlice converts LogFields to a slice for slog, ordered by key.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
