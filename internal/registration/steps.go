package registration

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
	"github.com/Dedezuli/mocha-API-sub002/internal/fixture"
	"github.com/Dedezuli/mocha-API-sub002/internal/httpclient"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

const (
	overrideProductKey = "productSelection"
	shareholderCount   = 2
)

// Statement counts per borrower kind.
const (
	individualEStatements            = 1
	institutionalEStatements         = 6
	individualFinancialStatements    = 1
	institutionalFinancialStatements = 2
)

// resolveProductSelection picks the product from the override map, falling
// back to Project Financing for institutions and OSF for individuals.
func resolveProductSelection(req Request) (newcore.ProductSelection, error) {
	raw, ok := req.Override[overrideProductKey]
	if !ok || raw == nil {
		if req.Institutional {
			return newcore.ProductProjectFinancing, nil
		}
		return newcore.ProductOSF, nil
	}

	var n int
	switch v := raw.(type) {
	case newcore.ProductSelection:
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidProductSelection, v)
		}
		n = int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidProductSelection, v)
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidProductSelection, v)
		}
		n = i
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidProductSelection, raw)
	}

	p := newcore.ProductSelection(n)
	if p != newcore.ProductOSF && p != newcore.ProductProjectFinancing {
		return 0, fmt.Errorf("%w: %d", ErrInvalidProductSelection, n)
	}
	return p, nil
}

// registrationBody generates the default registration payload and merges
// override over it. The product selection key is consumed by the product
// preference step and never sent here.
func registrationBody(override map[string]any) (map[string]any, error) {
	def := fixture.Registration(fixture.Email(), fixture.Username())
	body := map[string]any{
		"fullName":    def.FullName,
		"email":       def.Email,
		"username":    def.Username,
		"password":    def.Password,
		"phoneNumber": def.PhoneNumber,
		"agreement":   def.Agreement,
		"subscribe":   def.Subscribe,
	}
	for k, v := range override {
		if k == overrideProductKey {
			continue
		}
		body[k] = v
	}
	if email, _ := body["email"].(string); email == "" {
		return nil, ErrNoEmail
	}
	return body, nil
}

func (r *run) category() newcore.BorrowerCategory {
	if r.req.Institutional {
		return newcore.CategoryInstitutional
	}
	return newcore.CategoryIndividual
}

func (r *run) legalEntity() string {
	if r.req.Institutional {
		return newcore.EntityPT
	}
	return newcore.EntityIndividual
}

// expect turns a non-2xx answer into an error in strict mode. In lenient
// mode the answer is logged and the step counts as tolerated.
func (r *run) expect(ctx context.Context, resp *httpclient.Response) error {
	err := httpclient.CheckStatus(resp)
	if err == nil || r.c.strict {
		return err
	}
	r.tolerated.Store(true)
	r.c.logger.WarnContext(ctx, "tolerating unexpected status",
		"method", resp.Method,
		"url", resp.URL,
		"status", resp.Status,
		"customer_id", r.reg.Identity.CustomerID,
	)
	return nil
}

// send issues an authenticated new-core call against the service URL.
func (r *run) send(ctx context.Context, method, path string, body any) error {
	header := r.c.auth.NewCore(r.reg.Identity.AccessToken)
	resp, err := r.c.client.Do(ctx, method, r.serviceURL+path, header, body)
	if err != nil {
		return err
	}
	return r.expect(ctx, resp)
}

func (r *run) post(ctx context.Context, path string, body any) error {
	return r.send(ctx, http.MethodPost, path, body)
}

// batch posts every body to path with at most batchLimit calls in flight.
func batch[T any](ctx context.Context, r *run, path string, bodies []T) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.c.batchLimit)
	for _, b := range bodies {
		g.Go(func() error {
			return r.post(ctx, path, b)
		})
	}
	return g.Wait()
}

func (r *run) basicRegistration(ctx context.Context) error {
	resp, err := r.c.client.Post(ctx, r.serviceURL+newcore.PathRegistration, r.c.auth.NewCore(""), r.body)
	if err != nil {
		return err
	}
	if err := httpclient.CheckStatus(resp); err != nil {
		return err
	}

	var env newcore.Envelope[newcore.RegistrationData]
	if err := resp.Decode(&env); err != nil {
		return err
	}
	id := Identity{
		CustomerID:   env.Data.CustomerID,
		AccessToken:  env.Data.AccessToken,
		UserName:     env.Data.Username,
		EmailAddress: env.Data.Email,
	}
	if id.UserName == "" {
		id.UserName, _ = r.body["username"].(string)
	}
	if id.EmailAddress == "" {
		id.EmailAddress, _ = r.body["email"].(string)
	}
	if !id.Valid() {
		return ErrIncompleteIdentity
	}
	r.reg.Identity = id
	return nil
}

func (r *run) verifyOTP(ctx context.Context) error {
	code, err := r.c.otp.OTP(ctx, r.reg.Identity)
	if err != nil {
		return err
	}
	return r.post(ctx, newcore.PathOTPVerification, newcore.OTPVerificationRequest{OTP: code})
}

func (r *run) productPreference(ctx context.Context) error {
	return r.post(ctx, newcore.PathProductPreference, newcore.ProductPreferenceRequest{
		Category:         r.category(),
		LegalEntity:      r.legalEntity(),
		ProductSelection: r.product,
	})
}

func (r *run) updateUsername(ctx context.Context) error {
	return r.send(ctx, http.MethodPut, newcore.PathUsername, newcore.UsernameRequest{
		Username: r.reg.Identity.UserName,
		Category: r.category(),
	})
}

func (r *run) identification(ctx context.Context) error {
	return r.post(ctx, newcore.PathIdentification, fixture.Identification())
}

func (r *run) personalData(ctx context.Context) error {
	return r.post(ctx, newcore.PathPersonalData, fixture.PersonalData())
}

func (r *run) businessProfile(ctx context.Context) error {
	return r.post(ctx, newcore.PathBusinessProfile, fixture.BusinessProfile())
}

// legalDocumentTypes lists the documents for this borrower: NPWP always,
// SKDU unless excluded, and the institutional set for institutions.
func (r *run) legalDocumentTypes() []newcore.LegalDocumentType {
	types := []newcore.LegalDocumentType{newcore.DocNPWP}
	if !r.req.Exclude.Has(StepSKDU) {
		types = append(types, newcore.DocSKDU)
	}
	if r.req.Institutional {
		types = append(types, newcore.InstitutionalDocuments...)
	}
	return types
}

func (r *run) legalInformation(ctx context.Context) error {
	return r.post(ctx, newcore.PathLegalInformation, newcore.LegalInformationRequest{
		Documents: fixture.LegalDocuments(r.legalDocumentTypes()),
	})
}

func (r *run) bankInformation(ctx context.Context) error {
	holder, _ := r.body["fullName"].(string)
	if holder == "" {
		holder = fixture.FullName()
	}
	return r.post(ctx, newcore.PathBankInformation, fixture.BankInformation(holder))
}

func (r *run) eStatements(ctx context.Context) error {
	n := individualEStatements
	if r.req.Institutional {
		n = institutionalEStatements
	}
	return batch(ctx, r, newcore.PathEStatement, fixture.EStatements(r.c.now(), n))
}

func (r *run) financialStatements(ctx context.Context) error {
	n := individualFinancialStatements
	if r.req.Institutional {
		n = institutionalFinancialStatements
	}
	return batch(ctx, r, newcore.PathFinancialStatement, fixture.FinancialStatements(r.c.now(), n))
}

func (r *run) emergencyContact(ctx context.Context) error {
	return r.post(ctx, newcore.PathEmergencyContact, fixture.EmergencyContact())
}

func (r *run) shareholders(ctx context.Context) error {
	return r.post(ctx, newcore.PathShareholder, newcore.ShareholderInformationRequest{
		Shareholders: fixture.Shareholders(shareholderCount),
	})
}

// verifyEmail logs in to the backoffice as admin and flips the customer's
// email to verified.
func (r *run) verifyEmail(ctx context.Context) error {
	backendURL, err := r.c.urls.URL(environment.KindBackend)
	if err != nil {
		return err
	}

	resp, err := r.c.client.Post(ctx, backendURL+newcore.PathBackofficeLogin, r.c.auth.NewCore(""),
		newcore.BackofficeLoginRequest{Username: r.c.admin.Username, Password: r.c.admin.Password})
	if err != nil {
		return err
	}
	if err := r.expect(ctx, resp); err != nil {
		return fmt.Errorf("backoffice login: %w", err)
	}
	if !resp.OK() {
		return nil
	}

	var env newcore.Envelope[newcore.BackofficeLoginData]
	if err := resp.Decode(&env); err != nil {
		return err
	}
	if env.Data.Token == "" {
		return ErrNoAdminToken
	}

	path := newcore.WithCustomerID(newcore.PathEmailVerification, r.reg.Identity.CustomerID)
	resp, err = r.c.client.Put(ctx, backendURL+path, r.c.auth.NewCore(env.Data.Token),
		newcore.EmailVerificationRequest{Verified: true})
	if err != nil {
		return err
	}
	return r.expect(ctx, resp)
}
