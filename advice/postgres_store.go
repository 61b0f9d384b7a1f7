package advice

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRuleStore implements RuleStore backed by PostgreSQL. It lets
// operators adjust recommendation copy and triggers without redeploying;
// see migrations/ for the advice_rules table.
type PostgresRuleStore struct {
	db *sql.DB
}

// NewPostgresRuleStore creates a PostgreSQL-backed rule store.
func NewPostgresRuleStore(db *sql.DB) *PostgresRuleStore {
	return &PostgresRuleStore{db: db}
}

// Add inserts a new rule.
func (s *PostgresRuleStore) Add(rule *Rule) error {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM advice_rules WHERE id = $1)
	`, rule.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check rule existence: %w", err)
	}
	if exists {
		return fmt.Errorf("rule with ID %s already exists", rule.ID)
	}

	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO advice_rules (id, name, expression, icon, title, body, priority, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, rule.ID, rule.Name, rule.Expression, rule.Icon, rule.Title, rule.Text,
		rule.Priority, rule.Active, rule.CreatedAt, rule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}

	return nil
}

// Get retrieves a rule by ID.
func (s *PostgresRuleStore) Get(id string) (*Rule, error) {
	var rule Rule
	err := s.db.QueryRow(`
		SELECT id, name, expression, icon, title, body, priority, active, created_at, updated_at
		FROM advice_rules
		WHERE id = $1
	`, id).Scan(
		&rule.ID,
		&rule.Name,
		&rule.Expression,
		&rule.Icon,
		&rule.Title,
		&rule.Text,
		&rule.Priority,
		&rule.Active,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return &rule, nil
}

// List returns every rule ordered by ascending priority.
func (s *PostgresRuleStore) List() ([]*Rule, error) {
	return s.list(false)
}

// ListActive returns active rules in display (priority) order.
func (s *PostgresRuleStore) ListActive() ([]*Rule, error) {
	return s.list(true)
}

func (s *PostgresRuleStore) list(activeOnly bool) ([]*Rule, error) {
	query := `
		SELECT id, name, expression, icon, title, body, priority, active, created_at, updated_at
		FROM advice_rules
	`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY priority ASC, id ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		var r Rule
		if err := rows.Scan(&r.ID, &r.Name, &r.Expression, &r.Icon, &r.Title,
			&r.Text, &r.Priority, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

// Update modifies an existing rule, preserving its created_at timestamp.
func (s *PostgresRuleStore) Update(rule *Rule) error {
	rule.UpdatedAt = time.Now()

	result, err := s.db.Exec(`
		UPDATE advice_rules
		SET name = $1, expression = $2, icon = $3, title = $4, body = $5,
		    priority = $6, active = $7, updated_at = $8
		WHERE id = $9
	`, rule.Name, rule.Expression, rule.Icon, rule.Title, rule.Text,
		rule.Priority, rule.Active, rule.UpdatedAt, rule.ID)

	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule with ID %s not found", rule.ID)
	}

	return nil
}

// Delete removes a rule.
func (s *PostgresRuleStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM advice_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule with ID %s not found", id)
	}

	return nil
}

// Seed inserts the given rules if the table is empty, so a fresh database
// starts with the built-in recommendation set.
func (s *PostgresRuleStore) Seed(rules []*Rule) error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM advice_rules`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, rule := range rules {
		if err := s.Add(rule); err != nil {
			return err
		}
	}
	return nil
}
