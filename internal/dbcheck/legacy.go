package dbcheck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

// LegacyBorrower is the legacy platform's mirror of a new-core customer.
// Fields filled by an excluded step stay empty.
type LegacyBorrower struct {
	Email         string `json:"email"`
	NPWP          string `json:"npwp"`
	BankAccount   string `json:"bankAccount"`
	EmailVerified bool   `json:"emailVerified"`
}

// Legacy queries the legacy platform database.
type Legacy struct {
	db *sql.DB
}

// OpenLegacy connects and pings the legacy database.
func OpenLegacy(ctx context.Context, dsn string) (*Legacy, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open legacy database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping legacy database: %w", err)
	}
	return &Legacy{db: db}, nil
}

func (l *Legacy) Close() error {
	return l.db.Close()
}

// Borrower reads the mirrored borrower by email, case-insensitively.
func (l *Legacy) Borrower(ctx context.Context, email string) (LegacyBorrower, error) {
	var (
		b           LegacyBorrower
		npwp        sql.NullString
		bankAccount sql.NullString
	)
	err := l.db.QueryRowContext(ctx, `
		SELECT email, npwp_number, bank_account_number, email_verified
		FROM ms_borrower
		WHERE lower(email) = $1
	`, strings.ToLower(email)).Scan(&b.Email, &npwp, &bankAccount, &b.EmailVerified)
	if errors.Is(err, sql.ErrNoRows) {
		return LegacyBorrower{}, ErrNotFound
	}
	if err != nil {
		return LegacyBorrower{}, fmt.Errorf("read legacy borrower: %w", err)
	}
	b.NPWP = npwp.String
	b.BankAccount = bankAccount.String
	return b, nil
}
