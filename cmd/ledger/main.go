// Command ledger records income and expenses for one user, tracks budgets
// and moves transactions in and out of CSV, JSON, XLS and YAML files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finledger/internal/cli"
	"finledger/internal/config"
	"finledger/internal/log"
)

// app carries what every command needs once flags are parsed.
type app struct {
	user    string
	cfg     *config.Config
	session *cli.Session
}

// open returns the user's ledger session, opening it on first use.
func (a *app) open(cmd *cobra.Command) (*cli.Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	if a.user == "" {
		return nil, errors.New("--user is required")
	}
	ctx := cmd.Context()
	s, err := cli.OpenSession(ctx, a.cfg, log.FromContext(ctx), a.user)
	if err != nil {
		return nil, err
	}
	a.session = s
	return s, nil
}

func (a *app) close() error {
	if a.session == nil {
		return nil
	}
	err := a.session.Close()
	a.session = nil
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Personal income, expense and budget ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cli.LoadEnvFile()
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			logger, err := cli.SetupLogger(cfg)
			if err != nil {
				return err
			}
			a.cfg = cfg
			cmd.SetContext(log.NewContext(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&a.user, "user", "u", "", "ledger owner")

	root.AddCommand(
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newBalanceCmd(a),
		newBudgetCmd(a),
		newSummaryCmd(a),
		newReportCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newCategoriesCmd(),
	)
	return root
}

func main() {
	ctx, cancel := cli.SignalContext(context.Background(), log.New(log.DefaultConfig()))
	defer cancel()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(1)
	}
}
