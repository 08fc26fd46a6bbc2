package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/misehero/HeroWizzard-version2/src/models"
)

var ErrRuleNotFound = errors.New("category rule not found")

const ruleColumns = `
	id, name, description, match_type, match_mode, match_value,
	case_sensitive, priority, assignments, is_active,
	created_at, updated_at, created_by`

// The sparse assignment set is stored as one JSON column; it is read and
// written as a whole, never queried by field.

func scanRule(rows *sql.Rows) (*models.CategoryRule, error) {
	var r models.CategoryRule
	var id, matchType, matchMode, assignments string

	if err := rows.Scan(
		&id, &r.Name, &r.Description, &matchType, &matchMode, &r.MatchValue,
		&r.CaseSensitive, &r.Priority, &assignments, &r.IsActive,
		&r.CreatedAt, &r.UpdatedAt, &r.CreatedBy,
	); err != nil {
		return nil, err
	}

	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid rule id %q: %w", id, err)
	}
	r.MatchType = models.MatchType(matchType)
	r.MatchMode = models.MatchMode(matchMode)
	if assignments != "" {
		if err := json.Unmarshal([]byte(assignments), &r.Assign); err != nil {
			return nil, fmt.Errorf("invalid assignments for rule %s: %w", r.ID, err)
		}
	}
	return &r, nil
}

func queryRules(db DBTX, query string, args ...interface{}) ([]models.CategoryRule, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.CategoryRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *r)
	}
	return rules, rows.Err()
}

// ListActiveRules returns active rules already in evaluation order: tier
// first, then ascending priority, with creation time breaking priority ties.
func ListActiveRules(db DBTX) ([]models.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules
		WHERE is_active = 1
		ORDER BY
			CASE match_type WHEN 'protiucet' THEN 0 WHEN 'merchant' THEN 1 ELSE 2 END,
			priority ASC, created_at ASC`
	return queryRules(db, query)
}

// ListAllRules returns every rule for the management UI, active or not.
func ListAllRules(db DBTX) ([]models.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules
		ORDER BY
			CASE match_type WHEN 'protiucet' THEN 0 WHEN 'merchant' THEN 1 ELSE 2 END,
			priority ASC, created_at ASC`
	return queryRules(db, query)
}

func GetRuleByID(db DBTX, id uuid.UUID) (*models.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules WHERE id = ?`
	rows, err := db.Query(query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrRuleNotFound
	}
	return scanRule(rows)
}

func InsertRule(db DBTX, r *models.CategoryRule) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	assignments, err := json.Marshal(r.Assign)
	if err != nil {
		return fmt.Errorf("encoding rule assignments: %w", err)
	}
	query := `INSERT INTO category_rules (` + ruleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.Exec(query,
		r.ID.String(), r.Name, r.Description, string(r.MatchType), string(r.MatchMode), r.MatchValue,
		r.CaseSensitive, r.Priority, string(assignments), r.IsActive,
		r.CreatedAt, r.UpdatedAt, r.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("inserting rule: %w", err)
	}
	return nil
}

func UpdateRule(db DBTX, r *models.CategoryRule) error {
	r.UpdatedAt = time.Now().UTC()

	assignments, err := json.Marshal(r.Assign)
	if err != nil {
		return fmt.Errorf("encoding rule assignments: %w", err)
	}
	query := `UPDATE category_rules SET
		name = ?, description = ?, match_type = ?, match_mode = ?, match_value = ?,
		case_sensitive = ?, priority = ?, assignments = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	res, err := db.Exec(query,
		r.Name, r.Description, string(r.MatchType), string(r.MatchMode), r.MatchValue,
		r.CaseSensitive, r.Priority, string(assignments), r.IsActive, r.UpdatedAt,
		r.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating rule %s: %w", r.ID, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func DeleteRule(db DBTX, id uuid.UUID) error {
	res, err := db.Exec(`DELETE FROM category_rules WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting rule %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRuleNotFound
	}
	return nil
}
