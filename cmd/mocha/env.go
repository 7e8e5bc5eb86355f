package main

import (
	"fmt"
	"net/http"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
)

func envCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Inspect the selected environment",
	}
	cmd.AddCommand(envURLsCmd())
	cmd.AddCommand(envHeadersCmd())
	cmd.AddCommand(envBackofficeCmd())
	return cmd
}

func envURLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urls",
		Short: "Print the resolved base URL of every surface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			urls, err := rt.resolver.URLs()
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), urls)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, k := range environment.Kinds {
				fmt.Fprintf(tw, "%s\t%s\n", k, urls[k])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolP("json", "j", false, "output as JSON")
	return cmd
}

func envHeadersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headers [newcore|legacy|api-sync]",
		Short: "Print the auth headers a scheme would send now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			auth := authFromConfig(rt)
			token, _ := cmd.Flags().GetString("token")

			var h http.Header
			switch args[0] {
			case "newcore":
				h = auth.NewCore(token)
			case "legacy":
				h = auth.Legacy()
			case "api-sync":
				h = auth.APISync()
			default:
				return fmt.Errorf("unknown header scheme %q", args[0])
			}
			return printHeaders(cmd, h)
		},
	}
	cmd.Flags().StringP("token", "t", "", "access token for the newcore scheme")
	return cmd
}

func envBackofficeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backoffice-login",
		Short: "Log in to the legacy backoffice and print the session header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			baseURL, err := rt.resolver.URL(environment.KindBackofficeLegacy)
			if err != nil {
				return err
			}
			session, err := environment.LoginBackofficeLegacy(cmd.Context(), &http.Client{Timeout: rt.cfg.HTTPTimeout},
				baseURL, rt.cfg.Backoffice.Username, rt.cfg.Backoffice.Password)
			if err != nil {
				return err
			}
			return printHeaders(cmd, session.Header())
		},
	}
}

func printHeaders(cmd *cobra.Command, h http.Header) error {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range h[k] {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, v); err != nil {
				return err
			}
		}
	}
	return nil
}
