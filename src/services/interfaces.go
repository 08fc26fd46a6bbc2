// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"

	"github.com/misehero/HeroWizzard-version2/src/models"
)

// Common service errors.
var (
	ErrParsingFailed = errors.New("csv parsing failed")
	ErrImportFailed  = errors.New("import failed")
	ErrRuleNotFound  = errors.New("rule not found")
)

// ImportService runs the bank-statement import pipeline and persists its
// results.
type ImportService interface {
	// ImportCSV ingests one statement export and returns the finalized
	// batch summary. Row-level failures are recorded in the batch, never
	// escalated; only whole-file conditions (undecodable content,
	// unrecognized format) produce an error.
	ImportCSV(fileReader io.Reader, filename string, actor string) (*models.ImportBatch, error)
}

// RuleService owns the active-rule snapshot and bulk rule application.
type RuleService interface {
	ActiveRules() ([]models.CategoryRule, error)
	InvalidateRuleCache()

	// ApplyToUncategorized re-runs the rule hierarchy over stored
	// transactions (all of them when applyAll is set, otherwise only rows
	// still missing P/V or Druh) and reports how many changed.
	ApplyToUncategorized(applyAll bool, actor string) (int, error)

	// TestRule evaluates a rule draft against recent transactions without
	// persisting anything, for the rule-editor preview.
	TestRule(rule models.CategoryRule, limit int) ([]models.Transaction, error)
}

// InvoiceService imports iDoklad invoice exports.
type InvoiceService interface {
	ImportIDoklad(fileReader io.Reader, filename string, actor string) (*models.ImportBatch, error)
}
