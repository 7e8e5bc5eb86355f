package mockcore

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// LegacySessionCookie is set by the legacy backoffice form login.
const LegacySessionCookie = "BOSESSIONID"

var knownDocuments = map[newcore.LegalDocumentType]struct{}{
	newcore.DocNPWP:          {},
	newcore.DocSKDU:          {},
	newcore.DocSIUP:          {},
	newcore.DocAktaPendirian: {},
	newcore.DocAktaTerbaru:   {},
	newcore.DocSKMenkumham:   {},
	newcore.DocTDP:           {},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData[T any](w http.ResponseWriter, status int, data T) {
	writeJSON(w, status, newcore.Envelope[T]{
		Meta: newcore.Meta{Code: status, Message: http.StatusText(status)},
		Data: data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, newcore.Envelope[any]{
		Meta: newcore.Meta{Code: status, Message: message},
	})
}

// decode reads a JSON body into T, answering 400 on failure.
func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return v, false
	}
	return v, true
}

func credentialsMatch(gotUser, gotPass, wantUser, wantPass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(gotUser), []byte(wantUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(gotPass), []byte(wantPass)) == 1
	return userOK && passOK
}

// update applies fn to the authenticated customer and answers with the
// resulting snapshot.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(*newcore.CustomerSnapshot)) (newcore.CustomerSnapshot, bool) {
	snap, err := s.store.Update(r.Context(), subjectFrom(r.Context()), fn)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "customer not found")
		return snap, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return snap, false
	}
	writeData(w, http.StatusOK, snap)
	return snap, true
}

// publish sends a sync event. Failures are logged and never fail the request.
func (s *Server) publish(ctx context.Context, eventType string, snap newcore.CustomerSnapshot) {
	event := newcore.SyncEvent{
		Type:       eventType,
		CustomerID: snap.CustomerID,
		Email:      snap.Email,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish sync event",
			"event", eventType,
			"customer_id", snap.CustomerID,
			"error", err,
		)
		return
	}
	s.metrics.IncrementSyncPublished(eventType)
}

func (s *Server) handleRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := decode[newcore.RegistrationRequest](w, r)
	if !ok {
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "email, username and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			writeError(w, http.StatusUnprocessableEntity, "password is too long")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	snap := newcore.CustomerSnapshot{
		CustomerID: uuid.NewString(),
		Email:      req.Email,
		Username:   req.Username,
		Channel:    channelFromUserAgent(r.UserAgent()),
	}
	if err := s.store.Create(ctx, snap, hash); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.otp.Put(ctx, snap.CustomerID, s.otpCode); err != nil {
		s.logger.ErrorContext(ctx, "failed to issue otp", "customer_id", snap.CustomerID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	token, err := s.tokens.Issue(snap.CustomerID, RoleBorrower)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.metrics.IncrementCustomersCreated()
	s.logger.InfoContext(ctx, "customer registered",
		"customer_id", snap.CustomerID,
		"channel", snap.Channel,
		"request_id", chimw.GetReqID(ctx),
	)
	s.publish(ctx, newcore.EventCustomerRegistered, snap)

	writeData(w, http.StatusCreated, newcore.RegistrationData{
		CustomerID:  snap.CustomerID,
		AccessToken: token,
		Username:    snap.Username,
		Email:       snap.Email,
	})
}

func (s *Server) handleOTPVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := decode[newcore.OTPVerificationRequest](w, r)
	if !ok {
		return
	}
	want, err := s.otp.Get(ctx, subjectFrom(ctx))
	if err != nil {
		writeError(w, http.StatusBadRequest, "no otp pending")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.OTP), []byte(want)) != 1 {
		writeError(w, http.StatusBadRequest, "invalid otp")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.OTPVerified = true })
}

func (s *Server) handleProductPreference(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.ProductPreferenceRequest](w, r)
	if !ok {
		return
	}
	if req.ProductSelection != newcore.ProductOSF && req.ProductSelection != newcore.ProductProjectFinancing {
		writeError(w, http.StatusUnprocessableEntity, "unknown product selection")
		return
	}
	if req.Category != newcore.CategoryIndividual && req.Category != newcore.CategoryInstitutional {
		writeError(w, http.StatusUnprocessableEntity, "unknown borrower category")
		return
	}
	if req.LegalEntity == "" {
		writeError(w, http.StatusUnprocessableEntity, "legal entity is required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) {
		c.Category = req.Category
		c.LegalEntity = req.LegalEntity
		c.ProductSelection = req.ProductSelection
	})
}

func (s *Server) handleUsername(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.UsernameRequest](w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusUnprocessableEntity, "username is required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) {
		c.Username = req.Username
		if req.Category != 0 {
			c.Category = req.Category
		}
	})
}

func (s *Server) handleIdentification(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.IdentificationRequest](w, r)
	if !ok {
		return
	}
	if len(req.NIK) != 16 {
		writeError(w, http.StatusUnprocessableEntity, "nik must have 16 digits")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.HasIdentification = true })
}

func (s *Server) handlePersonalData(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.PersonalDataRequest](w, r)
	if !ok {
		return
	}
	if req.Address == "" || req.City == "" {
		writeError(w, http.StatusUnprocessableEntity, "address is required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.HasPersonalData = true })
}

func (s *Server) handleBusinessProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.BusinessProfileRequest](w, r)
	if !ok {
		return
	}
	if req.CompanyName == "" {
		writeError(w, http.StatusUnprocessableEntity, "company name is required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.HasBusinessProfile = true })
}

func (s *Server) handleLegalInformation(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.LegalInformationRequest](w, r)
	if !ok {
		return
	}
	types := make([]newcore.LegalDocumentType, 0, len(req.Documents))
	hasNPWP := false
	for _, doc := range req.Documents {
		if _, known := knownDocuments[doc.Type]; !known {
			writeError(w, http.StatusUnprocessableEntity, "unknown document type "+string(doc.Type))
			return
		}
		if doc.FileURL == "" {
			writeError(w, http.StatusUnprocessableEntity, "document file is required")
			return
		}
		hasNPWP = hasNPWP || doc.Type == newcore.DocNPWP
		types = append(types, doc.Type)
	}
	if !hasNPWP {
		writeError(w, http.StatusUnprocessableEntity, "npwp is required")
		return
	}
	snap, ok := s.update(w, r, func(c *newcore.CustomerSnapshot) { c.LegalDocuments = types })
	if ok {
		s.publish(r.Context(), newcore.EventCustomerLegalUpdated, snap)
	}
}

func (s *Server) handleBankInformation(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.BankInformationRequest](w, r)
	if !ok {
		return
	}
	if req.AccountNumber == "" || req.BankName == "" {
		writeError(w, http.StatusUnprocessableEntity, "bank account is required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.HasBankInformation = true })
}

func (s *Server) handleEStatement(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.StatementRequest](w, r)
	if !ok {
		return
	}
	if req.Month == "" || req.FileURL == "" {
		writeError(w, http.StatusUnprocessableEntity, "month and file are required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.EStatements++ })
}

func (s *Server) handleFinancialStatement(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.FinancialStatementRequest](w, r)
	if !ok {
		return
	}
	if req.Year <= 0 || req.FileURL == "" {
		writeError(w, http.StatusUnprocessableEntity, "year and file are required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.FinancialStatements++ })
}

func (s *Server) handleEmergencyContact(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.EmergencyContactRequest](w, r)
	if !ok {
		return
	}
	if req.Name == "" || req.PhoneNumber == "" {
		writeError(w, http.StatusUnprocessableEntity, "name and phone are required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.HasEmergencyContact = true })
}

func (s *Server) handleShareholder(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.ShareholderInformationRequest](w, r)
	if !ok {
		return
	}
	if len(req.Shareholders) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "at least one shareholder is required")
		return
	}
	s.update(w, r, func(c *newcore.CustomerSnapshot) { c.Shareholders += len(req.Shareholders) })
}

func (s *Server) handleBackofficeLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[newcore.BackofficeLoginRequest](w, r)
	if !ok {
		return
	}
	if !credentialsMatch(req.Username, req.Password, s.admin.Username, s.admin.Password) {
		s.logger.WarnContext(r.Context(), "backoffice login rejected", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.tokens.Issue(req.Username, RoleAdmin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, newcore.BackofficeLoginData{Token: token})
}

func (s *Server) handleEmailVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := decode[newcore.EmailVerificationRequest](w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "customerId")
	snap, err := s.store.Update(ctx, id, func(c *newcore.CustomerSnapshot) { c.EmailVerified = req.Verified })
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.logger.InfoContext(ctx, "email verification set",
		"customer_id", id,
		"verified", req.Verified,
		"admin", subjectFrom(ctx),
	)
	if req.Verified {
		s.publish(ctx, newcore.EventCustomerEmailVerified, snap)
	}
	writeData(w, http.StatusOK, snap)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "customerId"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, snap)
}

// handleLegacyLogin mimics the legacy backoffice form login: a redirect that
// carries the session cookie.
func (s *Server) handleLegacyLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if !credentialsMatch(r.PostFormValue("username"), r.PostFormValue("password"), s.admin.Username, s.admin.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LegacySessionCookie,
		Value:    uuid.NewString(),
		Path:     "/",
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
