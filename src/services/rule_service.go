// backend/src/services/rule_service.go
package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/misehero/HeroWizzard-version2/src/database"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/model"
	"github.com/misehero/HeroWizzard-version2/src/models"
	"github.com/misehero/HeroWizzard-version2/src/processors"
)

const ckActiveRules = "active_rules"

type ruleServiceImpl struct {
	ruleCache *cache.Cache
}

func NewRuleService(ruleCache *cache.Cache) RuleService {
	return &ruleServiceImpl{ruleCache: ruleCache}
}

// ActiveRules returns the active rule set in evaluation order, cached
// until a rule is created, updated or deleted.
func (s *ruleServiceImpl) ActiveRules() ([]models.CategoryRule, error) {
	if cached, found := s.ruleCache.Get(ckActiveRules); found {
		if rules, ok := cached.([]models.CategoryRule); ok {
			return rules, nil
		}
	}

	rules, err := model.ListActiveRules(database.DB)
	if err != nil {
		return nil, fmt.Errorf("error loading active rules: %w", err)
	}
	s.ruleCache.Set(ckActiveRules, rules, cache.DefaultExpiration)
	return rules, nil
}

func (s *ruleServiceImpl) InvalidateRuleCache() {
	s.ruleCache.Delete(ckActiveRules)
}

func (s *ruleServiceImpl) ApplyToUncategorized(applyAll bool, actor string) (int, error) {
	start := time.Now()
	logger.L.Info("ApplyToUncategorized START", "applyAll", applyAll, "actor", actor)

	rules, err := s.ActiveRules()
	if err != nil {
		return 0, err
	}

	var txs []models.Transaction
	if applyAll {
		txs, err = model.ListTransactions(database.DB, model.TransactionFilter{})
	} else {
		txs, err = model.ListUncategorizedTransactions(database.DB)
	}
	if err != nil {
		return 0, fmt.Errorf("error loading transactions for rule application: %w", err)
	}

	categorizer := processors.NewCategorizer(rules)
	changed, changedCount := categorizer.ApplyRules(txs)
	if changedCount == 0 {
		logger.L.Info("ApplyToUncategorized END", "changed", 0, "duration", time.Since(start))
		return 0, nil
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	for i := range changed {
		changed[i].UpdatedBy = actor
		if err := model.UpdateTransactionCategorization(dbTx, &changed[i]); err != nil {
			return 0, fmt.Errorf("error persisting recategorized transaction %s: %w", changed[i].ID, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing rule application: %w", err)
	}

	logger.L.Info("ApplyToUncategorized END", "changed", changedCount, "duration", time.Since(start))
	return changedCount, nil
}

// TestRule runs a draft rule alone over the most recent transactions and
// returns the rows it would match. Nothing is written.
func (s *ruleServiceImpl) TestRule(rule models.CategoryRule, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rule.IsActive = true
	categorizer := processors.NewCategorizer([]models.CategoryRule{rule})

	txs, err := model.ListRecentTransactions(database.DB, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading transactions for rule test: %w", err)
	}

	matched := make([]models.Transaction, 0)
	for i := range txs {
		probe := txs[i]
		if hit, _ := categorizer.Categorize(&probe); hit != nil {
			matched = append(matched, txs[i])
		}
	}
	return matched, nil
}
