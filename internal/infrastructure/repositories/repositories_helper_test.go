package repositories

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		user_type TEXT NOT NULL DEFAULT 'INVESTOR',
		is_email_verified BOOLEAN NOT NULL DEFAULT 0,
		email_verification_token TEXT,
		email_verification_token_expiry DATETIME,
		password_reset_token_hash TEXT,
		password_reset_token_expiry DATETIME,
		refresh_token_hash TEXT,
		refresh_token_expiry DATETIME,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		date_of_birth DATETIME,
		nationality TEXT,
		address_line1 TEXT,
		address_line2 TEXT,
		city TEXT,
		state TEXT,
		postal_code TEXT,
		country TEXT,
		has_agreed_to_terms BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		created_by TEXT,
		updated_at DATETIME,
		updated_by TEXT,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX idx_users_email_active ON users(email) WHERE deleted_at IS NULL;`)
}

func createOnboardingTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE user_onboardings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		current_step INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		submitted_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE user_investment_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		investor_category TEXT NOT NULL,
		investment_objectives TEXT,
		risk_acknowledged BOOLEAN,
		retail_past_investment_percentage REAL,
		retail_future_investment_percentage REAL,
		sophisticated_angel_network_member BOOLEAN,
		sophisticated_multiple_unlisted_invested BOOLEAN,
		sophisticated_worked_in_private_equity BOOLEAN,
		sophisticated_director_of_large_company BOOLEAN,
		sophisticated_company_names TEXT,
		high_net_worth_income_over_100k BOOLEAN,
		high_net_worth_net_assets_over_250k BOOLEAN,
		high_net_worth_annual_income REAL,
		high_net_worth_net_assets REAL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE user_kycs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		id_type TEXT NOT NULL,
		national_id_number TEXT,
		bank_id_number TEXT,
		government_id_document_path TEXT,
		proof_of_address_document_path TEXT,
		selfie_document_path TEXT,
		income_proof_document_path TEXT,
		government_id_verified_at DATETIME,
		proof_of_address_verified_at DATETIME,
		selfie_verified_at DATETIME,
		income_verified_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
