package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
	"github.com/Dedezuli/mocha-API-sub002/internal/httpclient"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/redis"
	"github.com/Dedezuli/mocha-API-sub002/internal/registration"
)

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a borrower and run the onboarding steps",
		Long: `Register a fresh borrower against the selected environment and print
the resulting registration as JSON.

Examples:
  ENV=staging mocha register --institutional
  ENV=staging mocha register --exclude all-except-verify-email
  ENV=staging mocha register --override productSelection=2 --override referralCode=QA01`,
		Args: cobra.NoArgs,
		RunE: runRegister,
	}

	cmd.Flags().BoolP("institutional", "i", false, "register an institutional borrower")
	cmd.Flags().StringSliceP("exclude", "x", nil, "steps to skip (step names, all, all-except-verify-email)")
	cmd.Flags().StringArrayP("override", "o", nil, "key=value merged over the registration body")
	cmd.Flags().Bool("lenient", false, "tolerate non-2xx step responses")

	return cmd
}

func runRegister(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	institutional, _ := cmd.Flags().GetBool("institutional")
	excludeTokens, _ := cmd.Flags().GetStringSlice("exclude")
	overrideTokens, _ := cmd.Flags().GetStringArray("override")
	lenient, _ := cmd.Flags().GetBool("lenient")

	exclude, err := registration.ParseExclusions(excludeTokens)
	if err != nil {
		return err
	}
	override, err := parseOverrides(overrideTokens)
	if err != nil {
		return err
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	otp, closeOTP, err := otpSource(ctx, rt)
	if err != nil {
		return err
	}
	defer closeOTP()

	client := httpclient.New(
		httpclient.WithTimeout(rt.cfg.HTTPTimeout),
		httpclient.WithLogger(rt.log),
	)
	composer, err := registration.New(client, rt.resolver, authFromConfig(rt),
		registration.WithOTPSource(otp),
		registration.WithStrict(rt.cfg.Strict && !lenient),
		registration.WithBatchLimit(rt.cfg.BatchLimit),
		registration.WithAdmin(registration.AdminCredentials{
			Username: rt.cfg.Backoffice.Username,
			Password: rt.cfg.Backoffice.Password,
		}),
		registration.WithLogger(rt.log),
	)
	if err != nil {
		return err
	}

	reg, err := composer.Register(ctx, registration.Request{
		Institutional: institutional,
		Exclude:       exclude,
		Override:      override,
	})
	if reg != nil {
		if printErr := printJSON(cmd.OutOrStdout(), reg); printErr != nil {
			return printErr
		}
	}
	return err
}

func authFromConfig(rt *runtime) environment.Auth {
	return environment.Auth{
		NewCoreKey:      rt.cfg.NewCore.Key,
		NewCoreSecret:   rt.cfg.NewCore.Secret,
		LegacyKey:       rt.cfg.Legacy.Key,
		LegacySecret:    rt.cfg.Legacy.Secret,
		APISyncUser:     rt.cfg.APISync.Username,
		APISyncPassword: rt.cfg.APISync.Password,
	}
}

// otpSource prefers the configured static code and falls back to the shared
// Redis cache.
func otpSource(ctx context.Context, rt *runtime) (registration.OTPSource, func(), error) {
	if rt.cfg.OTP.StaticCode != "" {
		return registration.StaticOTP(rt.cfg.OTP.StaticCode), func() {}, nil
	}
	client, err := redis.New(ctx, rt.cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return registration.StaticOTP(registration.DefaultOTP), func() {}, nil
	}
	return registration.NewRedisOTP(client), func() { _ = client.Close() }, nil
}

// parseOverrides reads key=value pairs. Values that parse as JSON keep their
// JSON type; anything else is a plain string.
func parseOverrides(tokens []string) (map[string]any, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(tokens))
	for _, tok := range tokens {
		key, raw, ok := strings.Cut(tok, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("override %q: want key=value", tok)
		}
		out[key] = overrideValue(raw)
	}
	return out, nil
}

func overrideValue(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}
