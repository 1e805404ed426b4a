package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finledger/internal/reconcile"
)

// importAs imports path with an explicit format instead of its extension.
func importAs(cmd *cobra.Command, r *reconcile.Reconciler, path, name string) (reconcile.ImportResult, error) {
	format, err := reconcile.ParseFormat(name)
	if err != nil {
		return reconcile.ImportResult{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return reconcile.ImportResult{}, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	return r.Import(cmd.Context(), f, format)
}
