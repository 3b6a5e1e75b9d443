package postgres

import (
	"context"
	"fmt"

	"github.com/jangbu-dev/jangbu/engine/common"
)

// LoadRules returns every enabled classification rule joined with its
// category, ordered by (priority, id) so that ties resolve deterministically.
// The result feeds the rule engine as-is.
func (db *DB) LoadRules(ctx context.Context) ([]common.Rule, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.keyword, r.target, r.priority,
		       c.name, c.level1, c.level2, c.level3, c.is_fixed
		FROM category_rules r
		JOIN categories c ON c.id = r.category_id
		WHERE r.is_enabled
		ORDER BY r.priority ASC, r.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	defer rows.Close()

	var ruleList []common.Rule
	for rows.Next() {
		r := common.Rule{IsEnabled: true}
		if err := rows.Scan(
			&r.Keyword, &r.Target, &r.Priority,
			&r.Category, &r.CategoryL1, &r.CategoryL2, &r.CategoryL3, &r.IsFixed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		ruleList = append(ruleList, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	return ruleList, nil
}

// GetOrCreateCategory finds an existing category by name or creates a new one
func (db *DB) GetOrCreateCategory(ctx context.Context, name string) (string, error) {
	var id string

	err := db.Pool.QueryRow(ctx, `
		SELECT id FROM categories WHERE name = $1
	`, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create category: %w", err)
	}

	return id, nil
}

// CreateRule attaches a keyword rule to a category
func (db *DB) CreateRule(ctx context.Context, categoryID string, rule common.Rule) (string, error) {
	target := rule.Target
	if target == "" {
		target = "any"
	}

	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO category_rules (category_id, keyword, target, priority, is_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, categoryID, rule.Keyword, target, rule.Priority, rule.IsEnabled).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create rule: %w", err)
	}

	return id, nil
}
