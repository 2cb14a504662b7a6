// Command librarian is the operator CLI: late-loan sweeps, bulk book import and account setup.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"library-api/internal/platform/db"
)

type app struct {
	configPath string
	cfg        *db.Config
	conn       *sqlx.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "librarian",
		Short:         "Library back-office tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.conn != nil {
				return a.conn.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "config/config.yaml", "path to config.yaml")

	root.AddCommand(
		newLateLoansCmd(a),
		newImportBooksCmd(a),
		newAccountCmd(a),
	)
	return root
}

// open は設定を読み込んで DB に接続し、スキーマを用意する
func (a *app) open(ctx context.Context) (*sqlx.DB, error) {
	if a.conn != nil {
		return a.conn, nil
	}
	cfg, err := db.LoadConfig(a.configPath)
	if err != nil {
		return nil, err
	}
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	a.cfg, a.conn = cfg, conn
	return conn, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
