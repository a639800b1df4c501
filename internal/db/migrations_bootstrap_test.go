package db

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "flaretrack-clean.db")
	database := openSQLiteForTest(t, databasePath)

	for _, table := range []string{
		"users",
		"daily_records",
		"symptom_entries",
		"food_entries",
		"exercise_entries",
		"activity_entries",
		"prediction_records",
	} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist after migrations", table)
		}
	}

	recordColumns := loadTableColumns(t, database, "daily_records")
	if _, exists := recordColumns["sleep_hours"]; !exists {
		t.Fatal("expected daily_records.sleep_hours column to exist after migrations")
	}
	predictionColumns := loadTableColumns(t, database, "prediction_records")
	for _, column := range []string{"score", "band", "predicted_at", "actual_flare", "correct"} {
		if _, exists := predictionColumns[column]; !exists {
			t.Fatalf("expected prediction_records.%s column to exist after migrations", column)
		}
	}

	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "flaretrack-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestDailyRecordUniquePerUserAndDate(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "flaretrack-unique.db"))

	if err := database.Exec(
		`INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		"unique@example.com", "hash",
	).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}

	insertRecord := `INSERT INTO daily_records (user_id, date, created_at, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	if err := database.Exec(insertRecord, "2026-03-10").Error; err != nil {
		t.Fatalf("insert first record: %v", err)
	}
	if err := database.Exec(insertRecord, "2026-03-10").Error; err == nil {
		t.Fatal("expected unique index to reject a second record for the same user and date")
	}
}

func openSQLiteForTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	expectedVersions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		expectedVersions = append(expectedVersions, migration.Version)
	}

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	actualVersions := make([]string, 0, len(rows))
	for _, row := range rows {
		actualVersions = append(actualVersions, row.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}
