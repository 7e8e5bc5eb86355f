// Package dbcheck reads back what a registration wrote so tests can assert on
// the databases behind the new-core service and the legacy platform.
package dbcheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

var (
	// ErrNoDSN is returned when a checker is opened without a connection string.
	ErrNoDSN = errors.New("database url is not set")
	// ErrNotFound is returned when the customer has no matching row.
	ErrNotFound = errors.New("customer row not found")
)

// ProfileCounts are the per-customer row counts of the repeated profile steps.
type ProfileCounts struct {
	LegalDocuments      int `json:"legalDocuments"`
	EStatements         int `json:"eStatements"`
	FinancialStatements int `json:"financialStatements"`
}

// ProductPreference is the stored result of the product preference step.
type ProductPreference struct {
	Category         newcore.BorrowerCategory `json:"category"`
	LegalEntity      string                   `json:"legalEntity"`
	ProductSelection newcore.ProductSelection `json:"productSelection"`
}

// NewCore queries the new-core onboarding database through a pgx pool.
type NewCore struct {
	pool *pgxpool.Pool
}

// OpenNewCore connects and pings the new-core database.
func OpenNewCore(ctx context.Context, dsn string) (*NewCore, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open new-core database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping new-core database: %w", err)
	}
	return &NewCore{pool: pool}, nil
}

func (n *NewCore) Close() {
	n.pool.Close()
}

// Counts returns how many legal documents and statements the customer has.
func (n *NewCore) Counts(ctx context.Context, customerID string) (ProfileCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM customer_legal_documents WHERE customer_id = $1),
			(SELECT COUNT(*) FROM customer_e_statements WHERE customer_id = $1),
			(SELECT COUNT(*) FROM customer_financial_statements WHERE customer_id = $1)
	`
	var c ProfileCounts
	err := n.pool.QueryRow(ctx, query, customerID).Scan(&c.LegalDocuments, &c.EStatements, &c.FinancialStatements)
	if err != nil {
		return ProfileCounts{}, fmt.Errorf("count profile rows: %w", err)
	}
	return c, nil
}

// LegalDocumentTypes lists the document types stored for the customer.
func (n *NewCore) LegalDocumentTypes(ctx context.Context, customerID string) ([]newcore.LegalDocumentType, error) {
	rows, err := n.pool.Query(ctx,
		`SELECT document_type FROM customer_legal_documents WHERE customer_id = $1 ORDER BY document_type`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("list legal documents: %w", err)
	}
	types, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list legal documents: %w", err)
	}
	out := make([]newcore.LegalDocumentType, 0, len(types))
	for _, t := range types {
		out = append(out, newcore.LegalDocumentType(t))
	}
	return out, nil
}

// ProductPreference reads the customer's product preference row.
func (n *NewCore) ProductPreference(ctx context.Context, customerID string) (ProductPreference, error) {
	var p ProductPreference
	err := n.pool.QueryRow(ctx,
		`SELECT category, legal_entity, product_selection FROM customer_product_preferences WHERE customer_id = $1`,
		customerID,
	).Scan(&p.Category, &p.LegalEntity, &p.ProductSelection)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProductPreference{}, ErrNotFound
	}
	if err != nil {
		return ProductPreference{}, fmt.Errorf("read product preference: %w", err)
	}
	return p, nil
}
