package testsupport

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"videoprofiles/internal"
	"videoprofiles/internal/config"
	"videoprofiles/internal/database"
	"videoprofiles/internal/profiles"
)

// testDBCache caches test databases by test name to allow multiple calls
// within the same test to share the same database
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// SetupTestDB creates a test database with the profiles schema in place.
// Uses a named in-memory database with cache=shared so every connection of the
// pool sees the same data. Caches the database by root test name so multiple
// calls within the same test return the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testName := t.Name()

	rootName := testName
	if idx := strings.Index(testName, "/"); idx > 0 {
		rootName = testName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	// One connection serializes writers the way a file database with a busy
	// timeout would, and keeps the in-memory database alive.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("testsupport: failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := profiles.EnsureSchema(db); err != nil {
		t.Fatalf("testsupport: failed to create profiles schema: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB.Close()
	})

	return db
}

// SetupTestDBManager wraps a fresh test database in a DBManager.
func SetupTestDBManager(t *testing.T) (*database.DBManager, *slog.Logger) {
	t.Helper()

	logger := GetLogger()
	db := SetupTestDB(t)
	return database.NewDBManagerWithConnection(db, logger), logger
}

// CleanProfiles removes every stored profile and resets the id sequence.
func CleanProfiles(db *gorm.DB) {
	db.Transaction(func(tx *gorm.DB) error {
		tx.Exec("DELETE FROM profiles")
		tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", "profiles")
		return nil
	})
}

// CountProfiles returns how many stored profiles use username.
func CountProfiles(t *testing.T, db *gorm.DB, username string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&profiles.Profile{}).Where("username = ?", username).Count(&count).Error)
	return count
}

// FindProfile loads the stored profile for username.
func FindProfile(t *testing.T, db *gorm.DB, username string) profiles.Profile {
	t.Helper()

	var profile profiles.Profile
	require.NoError(t, db.Where("username = ?", username).First(&profile).Error)
	return profile
}

// CreateTestProfile inserts a profile directly, bypassing the submitter.
func CreateTestProfile(t *testing.T, db *gorm.DB, username string) profiles.Profile {
	t.Helper()

	profile := profiles.Profile{
		FullName: "Test " + username,
		Username: username,
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

// CandidateValues returns a minimal valid key-to-value mapping for username.
func CandidateValues(username string) map[string]any {
	return map[string]any{
		"full_name": "Test " + username,
		"username":  username,
		"email":     username + "@example.com",
	}
}

// TestConfig returns a configuration for the test environment.
func TestConfig() *config.Config {
	return &config.Config{
		AppName:           "videoprofiles",
		AppPort:           "0",
		Environment:       config.Test,
		LogLevel:          config.LogLevelError,
		MaxUploadSizeInMb: 4,
		DatabaseType:      config.SQLiteDatabase,
	}
}

// CreateMinimalTestApp creates a fiber app with all routes mounted on db.
func CreateMinimalTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	logger := GetLogger()
	dbManager := database.NewDBManagerWithConnection(db, logger)

	app := internal.NewServer(TestConfig(), logger)
	internal.MountAppRoutes(app, TestConfig(), dbManager, logger)
	return app
}

// GetLogger returns a test logger
func GetLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}
