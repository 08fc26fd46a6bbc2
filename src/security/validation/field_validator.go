// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/models"
	"github.com/shopspring/decimal"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxRuleNameLength      = 100
	MaxMatchValueLength    = 500
	MaxDescriptionLength   = 1024
	MaxCurrencyCodeLength  = 3
	MaxRegexPatternLength  = 500
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// --- Rule Validators ---

// ValidateMatchType checks the rule tier name.
func ValidateMatchType(s string) error {
	switch models.MatchType(s) {
	case models.MatchProtiucet, models.MatchMerchant, models.MatchKeyword:
		return nil
	}
	return fmt.Errorf("%w: match_type must be one of protiucet, merchant, keyword; got '%s'", ErrValidationFailed, s)
}

// ValidateMatchMode checks the comparison mode name.
func ValidateMatchMode(s string) error {
	switch models.MatchMode(s) {
	case models.ModeExact, models.ModeContains, models.ModeRegex:
		return nil
	}
	return fmt.Errorf("%w: match_mode must be one of exact, contains, regex; got '%s'", ErrValidationFailed, s)
}

// ValidateRegexPattern compiles the pattern so a broken rule is rejected at
// save time instead of being skipped on every import.
func ValidateRegexPattern(pattern string) error {
	if err := ValidateStringMaxLength(pattern, MaxRegexPatternLength, "match_value"); err != nil {
		return err
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("%w: match_value is not a valid regular expression: %v", ErrValidationFailed, err)
	}
	return nil
}

// ValidateRule runs all rule field checks: name, tier, mode, match value and
// the percentage assignments.
func ValidateRule(r *models.CategoryRule) error {
	if err := ValidateStringNotEmpty(r.Name, "name"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(r.Name, MaxRuleNameLength, "name"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(r.Description, MaxDescriptionLength, "description"); err != nil {
		return err
	}
	if err := ValidateMatchType(string(r.MatchType)); err != nil {
		return err
	}
	if err := ValidateMatchMode(string(r.MatchMode)); err != nil {
		return err
	}
	if err := ValidateStringNotEmpty(r.MatchValue, "match_value"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(r.MatchValue, MaxMatchValueLength, "match_value"); err != nil {
		return err
	}
	if r.MatchMode == models.ModeRegex {
		if err := ValidateRegexPattern(r.MatchValue); err != nil {
			return err
		}
	}
	if r.Assign.IsEmpty() {
		return fmt.Errorf("%w: rule must assign at least one field", ErrValidationFailed)
	}
	return ValidateKmenSplitAssignments(r.Assign)
}

// ValidateKmenSplitAssignments checks the percentage fields a rule sets: each
// in [0,100], and when all four are present they must sum to exactly 0 or 100.
// A partial set cannot be summed, the rest of the split lives on the
// transaction.
func ValidateKmenSplitAssignments(a models.RuleAssignments) error {
	hundred := decimal.NewFromInt(100)
	pcts := []*decimal.Decimal{a.MhPct, a.SkPct, a.XpPct, a.FrPct}

	assigned := 0
	sum := decimal.Zero
	for _, p := range pcts {
		if p == nil {
			continue
		}
		if p.IsNegative() || p.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage assignments must be between 0 and 100, got %s", ErrValidationFailed, p)
		}
		assigned++
		sum = sum.Add(*p)
	}
	if assigned == len(pcts) && !sum.IsZero() && !sum.Equal(hundred) {
		return fmt.Errorf("%w: a full tribe split must sum to exactly 0 or 100, got %s", ErrValidationFailed, sum)
	}
	return nil
}

// --- Date Validator ---

// ValidateDateString checks if a string is a valid date in "YYYY-MM-DD"
// format, the format the list filters use.
func ValidateDateString(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD): %v", ErrValidationFailed, fieldName, s, err)
	}
	return t, nil
}

// --- Specific Format Validators ---

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrencyCode checks if currency code is 3 uppercase letters.
func ValidateCurrencyCode(s string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxCurrencyCodeLength, "Currency Code"); err != nil {
		return err
	}
	if !currencyCodeRegex.MatchString(trimmed) {
		logger.L.Warn("Currency code in unexpected format", "value", s)
		return fmt.Errorf("%w: Currency Code ('%s') is not in the expected format (3 uppercase letters)", ErrValidationFailed, s)
	}
	return nil
}
