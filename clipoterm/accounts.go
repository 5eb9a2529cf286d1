package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"clipo/clipoterm/internal/audit"
	"clipo/clipoterm/internal/storage"
)

func cmdAccounts(opts *options) *cli.Command {
	var email string

	emailFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "email",
			Usage:       "Account email",
			Required:    true,
			Destination: &email,
		}
	}

	return &cli.Command{
		Name:  "accounts",
		Usage: "Inspect locally stored accounts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored accounts",
				Action: func(ctx context.Context, c *cli.Command) error {
					store, auditor, err := openStores(opts, c)
					if err != nil {
						return err
					}
					defer auditor.Close()

					accounts, err := store.ListAccounts()
					if err != nil {
						return err
					}
					for _, acc := range accounts {
						status := "pending"
						if acc.Activated {
							status = "active"
						}
						fmt.Fprintf(c.Root().Writer, "%s  %-32s %-8s %s\n",
							acc.ID, acc.Email, status, acc.CreatedAt.Format(time.RFC3339))
					}
					return nil
				},
			},
			{
				Name:  "history",
				Usage: "Print the audit history of an account",
				Flags: []cli.Flag{emailFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					store, auditor, err := openStores(opts, c)
					if err != nil {
						return err
					}
					defer auditor.Close()

					acc, err := store.FindByEmail(email)
					if err != nil {
						return err
					}

					history, err := auditor.GetAccountHistory(acc.ID)
					if err != nil {
						return err
					}
					for _, entry := range history {
						fmt.Fprintf(c.Root().Writer, "%s  %-14s %v\n",
							entry.Timestamp.Format(time.RFC3339), entry.Action, entry.Details)
					}
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Delete an account",
				Flags: []cli.Flag{emailFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					store, auditor, err := openStores(opts, c)
					if err != nil {
						return err
					}
					defer auditor.Close()

					acc, err := store.FindByEmail(email)
					if err != nil {
						return err
					}
					if err := store.DeleteAccount(acc.ID); err != nil {
						return goerr.Wrap(err, "failed to delete account", goerr.V("email", email))
					}
					fmt.Fprintf(c.Root().Writer, "deleted %s\n", acc.Email)
					return nil
				},
			},
		},
	}
}

func openStores(opts *options, c *cli.Command) (*storage.Storage, *audit.AccountAuditor, error) {
	cfg, err := opts.load(c)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewStorage(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, err
	}

	auditor, err := audit.NewAccountAuditor(filepath.Join(cfg.Storage.DataDir, "audit"))
	if err != nil {
		return nil, nil, err
	}
	return store, auditor, nil
}
