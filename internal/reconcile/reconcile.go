// Package reconcile moves transactions between a ledger and external files.
//
// Import parses tabular sources (CSV, JSON, XLS) into transactions and
// merges them into the ledger, skipping exact duplicates. Export renders a
// financial summary of the ledger's current snapshot as CSV, JSON or YAML.
package reconcile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"finledger/internal/categorizer"
	"finledger/internal/core"
	"finledger/internal/ledger"
	"finledger/internal/log"
)

// Format names an external file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLS  Format = "xls"
)

// ImportFormats and ExportFormats list what each direction supports.
var (
	ImportFormats = []Format{FormatCSV, FormatJSON, FormatXLS}
	ExportFormats = []Format{FormatCSV, FormatJSON, FormatYAML}
)

// ParseFormat accepts a format name or file extension, with or without the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xls":
		return FormatXLS, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// FormatOf detects the format of path from its extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

func (f Format) Extension() string {
	return string(f)
}

// Ledger is the part of the transaction engine the reconciler needs.
type Ledger interface {
	Identity() string
	Snapshot() core.Snapshot
	Merge(ctx context.Context, txs []core.Transaction) (ledger.MergeResult, error)
}

var _ Ledger = (*ledger.Engine)(nil)

type Reconciler struct {
	ledger     Ledger
	reportsDir string
	classifier ledger.Classifier
	logger     *log.Logger
}

type Option func(*Reconciler)

// WithClassifier sets how blank expense categories are resolved on import.
func WithClassifier(c ledger.Classifier) Option {
	return func(r *Reconciler) {
		if c != nil {
			r.classifier = c
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a reconciler for l writing reports below reportsDir.
func New(l Ledger, reportsDir string, opts ...Option) *Reconciler {
	r := &Reconciler{
		ledger:     l,
		reportsDir: reportsDir,
		classifier: ledger.ClassifierFunc(categorizer.Classify),
		logger:     log.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent(log.ComponentReconcile).With(log.FieldIdentity, l.Identity())
	return r
}
