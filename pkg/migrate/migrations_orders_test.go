package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medgrove/pharmacare-backend/pkg/migrate"
)

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders_and_payments.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS order_status_items",
		"CREATE TABLE IF NOT EXISTS payments",
		"CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled'))",
		"CHECK (payment_method IN ('credit_card', 'debit_card', 'paypal', 'cash', 'bank_transfer'))",
		"FOREIGN KEY (coupon_id) REFERENCES coupons(id) ON DELETE SET NULL",
		"DROP TABLE IF EXISTS payments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration dir failed validation: %v", err)
	}
}
