//go:build integration

package integration

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"github.com/Eursukkul/booking-microservice/adventure-service/pkg/database"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDB     *gorm.DB
	testLogger *logrus.Logger
)

var tables = []string{"vehicle_bookings", "vehicles", "adventure_bookings", "adventures"}

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "adventure_test_db"),
	)

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	dropTables()
	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("failed to migrate test database: %v", err)
	}

	testLogger = logrus.New()
	testLogger.SetOutput(io.Discard)

	code := m.Run()

	dropTables()
	os.Exit(code)
}

func dropTables() {
	for _, table := range tables {
		testDB.Exec("DROP TABLE IF EXISTS " + table + " CASCADE")
	}
}

func cleanTables() {
	for _, table := range tables {
		testDB.Exec("DELETE FROM " + table)
	}
	testDB.Exec("ALTER SEQUENCE IF EXISTS adventures_id_seq RESTART WITH 1")
	testDB.Exec("ALTER SEQUENCE IF EXISTS vehicles_id_seq RESTART WITH 1")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
