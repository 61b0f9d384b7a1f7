//go:build integration

package advice

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and runs migrations
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	connStr := fmt.Sprintf("postgres://postgres:password@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	// Wait for database to be ready
	for i := 0; i < 30; i++ {
		if err := db.Ping(); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Run migrations
	migrationSQL, err := os.ReadFile("../migrations/000001_advice_rules.up.sql")
	if err != nil {
		t.Fatalf("Failed to read migration file: %v", err)
	}

	if _, err := db.Exec(string(migrationSQL)); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		db.Close()
		postgres.Terminate(ctx)
	}

	return db, cleanup
}

func TestPostgresStoreCRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPostgresRuleStore(db)

	rule := &Rule{
		ID:         "hydration",
		Name:       "Hydration",
		Expression: "true",
		Icon:       "💧",
		Title:      "Stay Hydrated",
		Text:       "Drink water through the day.",
		Priority:   140,
		Active:     true,
	}

	if err := store.Add(rule); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := store.Add(rule); err == nil {
		t.Error("Add() accepted a duplicate ID, want error")
	}

	got, err := store.Get("hydration")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Title != "Stay Hydrated" || got.Text != "Drink water through the day." {
		t.Errorf("Get() returned %+v, want the inserted rule", got)
	}

	got.Title = "Hydrate Well"
	got.Active = false
	if err := store.Update(got); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	updated, err := store.Get("hydration")
	if err != nil {
		t.Fatalf("Get() after update failed: %v", err)
	}
	if updated.Title != "Hydrate Well" || updated.Active {
		t.Errorf("Update() did not apply: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("Update() did not advance updated_at")
	}

	active, err := store.ListActive()
	if err != nil {
		t.Fatalf("ListActive() failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("ListActive() returned %d rules after deactivation, want 0", len(active))
	}

	if err := store.Delete("hydration"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := store.Delete("hydration"); err == nil {
		t.Error("Delete() succeeded twice, want error")
	}
	if _, err := store.Get("hydration"); err == nil {
		t.Error("Get() succeeded after delete, want error")
	}
}

func TestPostgresStoreOrdering(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPostgresRuleStore(db)

	seed := []*Rule{
		{ID: "c", Name: "c", Expression: "true", Priority: 20, Active: true},
		{ID: "a", Name: "a", Expression: "true", Priority: 10, Active: true},
		{ID: "b", Name: "b", Expression: "true", Priority: 10, Active: false},
	}
	for _, r := range seed {
		if err := store.Add(r); err != nil {
			t.Fatalf("Add(%s) failed: %v", r.ID, err)
		}
	}

	all, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	wantAll := []string{"a", "b", "c"}
	if len(all) != len(wantAll) {
		t.Fatalf("List() returned %d rules, want %d", len(all), len(wantAll))
	}
	for i, id := range wantAll {
		if all[i].ID != id {
			t.Errorf("List()[%d] = %s, want %s", i, all[i].ID, id)
		}
	}

	active, err := store.ListActive()
	if err != nil {
		t.Fatalf("ListActive() failed: %v", err)
	}
	wantActive := []string{"a", "c"}
	if len(active) != len(wantActive) {
		t.Fatalf("ListActive() returned %d rules, want %d", len(active), len(wantActive))
	}
	for i, id := range wantActive {
		if active[i].ID != id {
			t.Errorf("ListActive()[%d] = %s, want %s", i, active[i].ID, id)
		}
	}
}

func TestPostgresStoreSeed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPostgresRuleStore(db)

	if err := store.Seed(DefaultRules()); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}

	rules, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(rules) != 8 {
		t.Fatalf("seeded %d rules, want 8", len(rules))
	}

	// Seeding again must be a no-op on a populated table.
	if err := store.Seed(DefaultRules()); err != nil {
		t.Fatalf("second Seed() failed: %v", err)
	}
	rules, _ = store.List()
	if len(rules) != 8 {
		t.Errorf("second Seed() changed the table, %d rules", len(rules))
	}

	// The engine must compile everything the database holds.
	if _, err := NewEngine(store); err != nil {
		t.Fatalf("NewEngine() over seeded store failed: %v", err)
	}
}
