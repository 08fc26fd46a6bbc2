// backend/src/processors/categorizer.go
package processors

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/models"
)

// Categorizer evaluates the active category rules against canonical
// transactions. Rules are bucketed per tier and kept in priority order
// (stable, so equal priorities fall back to definition order).
//
// Patterns come from non-engineering users; Go's RE2 regexp engine runs in
// linear time, so a hostile pattern cannot stall the import.
type Categorizer struct {
	tiers map[models.MatchType][]models.CategoryRule
}

// RuleWarning records a rule that could not be evaluated for a row, most
// commonly an invalid regex. The rule is skipped for that row only.
type RuleWarning struct {
	RuleName string
	Message  string
}

func NewCategorizer(rules []models.CategoryRule) *Categorizer {
	tiers := make(map[models.MatchType][]models.CategoryRule, len(models.MatchTypeOrder))
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		tiers[rule.MatchType] = append(tiers[rule.MatchType], rule)
	}
	for matchType := range tiers {
		bucket := tiers[matchType]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Priority < bucket[j].Priority
		})
	}
	return &Categorizer{tiers: tiers}
}

// Categorize runs the three-tier hierarchy against the transaction:
// counterparty account first, then merchant name, then keywords over the
// joined message/note/counterparty text. The first tier that yields a match
// short-circuits the rest; within a tier the first matching rule in priority
// order wins and only that rule's assignments are applied. When no rule set
// the P/V flag it is derived from the amount sign afterwards.
func (c *Categorizer) Categorize(t *models.Transaction) (*models.CategoryRule, []RuleWarning) {
	var warnings []RuleWarning
	var matched *models.CategoryRule

	if t.CisloProtiuctu != "" {
		matched = c.findMatch(models.MatchProtiucet, t.CisloProtiuctu, &warnings)
	}
	if matched == nil && t.NazevMerchanta != "" {
		matched = c.findMatch(models.MatchMerchant, t.NazevMerchanta, &warnings)
	}
	if matched == nil {
		if searchText := t.KeywordSearchText(); searchText != "" {
			matched = c.findMatch(models.MatchKeyword, searchText, &warnings)
		}
	}

	if matched != nil {
		matched.ApplyTo(t)
	}
	t.DerivePrijemVydaj()
	return matched, warnings
}

func (c *Categorizer) findMatch(matchType models.MatchType, searchValue string, warnings *[]RuleWarning) *models.CategoryRule {
	for i := range c.tiers[matchType] {
		rule := &c.tiers[matchType][i]
		ok, err := ruleMatches(rule, searchValue)
		if err != nil {
			logger.L.Warn("Rule could not be evaluated", "rule", rule.Name, "error", err)
			*warnings = append(*warnings, RuleWarning{RuleName: rule.Name, Message: err.Error()})
			continue
		}
		if ok {
			return rule
		}
	}
	return nil
}

func ruleMatches(rule *models.CategoryRule, searchValue string) (bool, error) {
	pattern := rule.MatchValue
	target := searchValue
	if !rule.CaseSensitive {
		pattern = strings.ToLower(pattern)
		target = strings.ToLower(target)
	}

	switch rule.MatchMode {
	case models.ModeExact:
		return pattern == target, nil
	case models.ModeContains:
		return strings.Contains(target, pattern), nil
	case models.ModeRegex:
		expr := rule.MatchValue
		if !rule.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return false, fmt.Errorf("invalid regex pattern %q: %w", rule.MatchValue, err)
		}
		return re.MatchString(searchValue), nil
	default:
		return false, nil
	}
}

// ApplyRules re-runs categorization over existing transactions, as used by
// the bulk apply-to-uncategorized operation. It returns only the rows whose
// categorization actually changed, plus their count. Matching semantics are
// identical to import-time categorization.
func (c *Categorizer) ApplyRules(txs []models.Transaction) ([]models.Transaction, int) {
	var changed []models.Transaction
	for i := range txs {
		before := [4]string{
			string(txs[i].PrijemVydaj), txs[i].Druh, txs[i].Detail, string(txs[i].Kmen),
		}
		c.Categorize(&txs[i])
		after := [4]string{
			string(txs[i].PrijemVydaj), txs[i].Druh, txs[i].Detail, string(txs[i].Kmen),
		}
		if before != after {
			changed = append(changed, txs[i])
		}
	}
	return changed, len(changed)
}
