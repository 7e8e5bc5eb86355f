package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dedezuli/mocha-API-sub002/internal/dbcheck"
	"github.com/Dedezuli/mocha-API-sub002/internal/syncwatch"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Follow legacy sync events",
	}

	wait := &cobra.Command{
		Use:   "wait [customerId]",
		Short: "Block until a sync event for the customer is published",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, _ := cmd.Flags().GetString("event")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			watcher, err := syncwatch.New(rt.cfg.Kafka, syncwatch.WithLogger(rt.log))
			if err != nil {
				return err
			}
			defer watcher.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			go func() {
				if err := watcher.Run(ctx); err != nil {
					rt.log.ErrorContext(ctx, "sync watcher stopped", "error", err)
				}
			}()

			got, err := watcher.WaitFor(ctx, args[0], event)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), got)
		},
	}
	wait.Flags().StringP("event", "e", newcore.EventCustomerRegistered, "event type to wait for")
	wait.Flags().Duration("timeout", time.Minute, "give up after this long")

	cmd.AddCommand(wait)
	return cmd
}

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Read back what a registration stored",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "newcore [customerId]",
		Short: "Print profile counts and product preference from the new-core database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			nc, err := dbcheck.OpenNewCore(ctx, rt.cfg.Database.NewCoreURL)
			if err != nil {
				return err
			}
			defer nc.Close()

			counts, err := nc.Counts(ctx, args[0])
			if err != nil {
				return err
			}
			docs, err := nc.LegalDocumentTypes(ctx, args[0])
			if err != nil {
				return err
			}
			pref, err := nc.ProductPreference(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"counts":            counts,
				"legalDocuments":    docs,
				"productPreference": pref,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "legacy [email]",
		Short: "Print the legacy mirror of a borrower",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			legacy, err := dbcheck.OpenLegacy(cmd.Context(), rt.cfg.Database.LegacyURL)
			if err != nil {
				return err
			}
			defer legacy.Close()

			b, err := legacy.Borrower(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	})
	return cmd
}
