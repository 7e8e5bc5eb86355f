//go:build integration

package dbcheck_test

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dedezuli/mocha-API-sub002/internal/dbcheck"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
	"github.com/Dedezuli/mocha-API-sub002/pkg/testutil"
	"github.com/Dedezuli/mocha-API-sub002/pkg/testutil/containers"
)

const schema = `
CREATE TABLE customer_legal_documents (customer_id TEXT NOT NULL, document_type TEXT NOT NULL);
CREATE TABLE customer_e_statements (customer_id TEXT NOT NULL, month TEXT NOT NULL);
CREATE TABLE customer_financial_statements (customer_id TEXT NOT NULL, year INT NOT NULL);
CREATE TABLE customer_product_preferences (
	customer_id TEXT PRIMARY KEY,
	category INT NOT NULL,
	legal_entity TEXT NOT NULL,
	product_selection INT NOT NULL
);
CREATE TABLE ms_borrower (
	email TEXT PRIMARY KEY,
	npwp_number TEXT,
	bank_account_number TEXT,
	email_verified BOOLEAN NOT NULL DEFAULT FALSE
);
`

const seed = `
INSERT INTO customer_legal_documents VALUES ('c1', 'npwp'), ('c1', 'skdu'), ('c1', 'siup');
INSERT INTO customer_e_statements VALUES ('c1', '2026-09'), ('c1', '2026-08');
INSERT INTO customer_financial_statements VALUES ('c1', 2025);
INSERT INTO customer_product_preferences VALUES ('c1', 2, 'PT', 2);
INSERT INTO ms_borrower VALUES ('test.abc@investree.id', '123456789012345', NULL, TRUE);
`

func TestCheckersAgainstPostgres(t *testing.T) {
	pg := containers.NewPostgresContainer(t, "onboarding")
	ctx := testutil.Context(t)

	pool, err := pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, seed)
	require.NoError(t, err)

	nc, err := dbcheck.OpenNewCore(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	legacy, err := dbcheck.OpenLegacy(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = legacy.Close() })

	testutil.Given(t, "a seeded institutional customer", func(t *testing.T) {
		testutil.Then(t, "profile rows are counted", func(t *testing.T) {
			counts, err := nc.Counts(ctx, "c1")
			require.NoError(t, err)
			assert.Equal(t, dbcheck.ProfileCounts{LegalDocuments: 3, EStatements: 2, FinancialStatements: 1}, counts)
		})

		testutil.Then(t, "document types are listed in order", func(t *testing.T) {
			types, err := nc.LegalDocumentTypes(ctx, "c1")
			require.NoError(t, err)
			assert.Equal(t, []newcore.LegalDocumentType{newcore.DocNPWP, newcore.DocSIUP, newcore.DocSKDU}, types)
		})

		testutil.Then(t, "the product preference is read back", func(t *testing.T) {
			pref, err := nc.ProductPreference(ctx, "c1")
			require.NoError(t, err)
			assert.Equal(t, newcore.ProductProjectFinancing, pref.ProductSelection)
			assert.Equal(t, newcore.CategoryInstitutional, pref.Category)
			assert.Equal(t, newcore.EntityPT, pref.LegalEntity)
		})

		testutil.Then(t, "the legacy mirror keeps skipped fields empty", func(t *testing.T) {
			b, err := legacy.Borrower(ctx, "TEST.ABC@investree.id")
			require.NoError(t, err)
			assert.Equal(t, "123456789012345", b.NPWP)
			assert.Empty(t, b.BankAccount)
			assert.True(t, b.EmailVerified)
		})
	})

	testutil.Given(t, "an unknown customer", func(t *testing.T) {
		counts, err := nc.Counts(ctx, "missing")
		require.NoError(t, err)
		assert.Zero(t, counts)

		_, err = nc.ProductPreference(ctx, "missing")
		assert.ErrorIs(t, err, dbcheck.ErrNotFound)

		_, err = legacy.Borrower(ctx, "nobody@investree.id")
		assert.ErrorIs(t, err, dbcheck.ErrNotFound)
	})
}
