package processors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/models"
)

func init() {
	logger.InitLogger("error")
}

func makeRule(name string, matchType models.MatchType, mode models.MatchMode, value string, priority int, assign models.RuleAssignments) models.CategoryRule {
	return models.CategoryRule{
		Name:       name,
		MatchType:  matchType,
		MatchMode:  mode,
		MatchValue: value,
		Priority:   priority,
		Assign:     assign,
		IsActive:   true,
	}
}

func TestCategorizeTierPrecedence(t *testing.T) {
	rules := []models.CategoryRule{
		makeRule("by-keyword", models.MatchKeyword, models.ModeContains, "najem", 1,
			models.RuleAssignments{Druh: "keyword-druh"}),
		makeRule("by-merchant", models.MatchMerchant, models.ModeContains, "tesco", 1,
			models.RuleAssignments{Druh: "merchant-druh"}),
		makeRule("by-protiucet", models.MatchProtiucet, models.ModeExact, "123/0100", 1,
			models.RuleAssignments{Druh: "protiucet-druh"}),
	}
	c := NewCategorizer(rules)

	t.Run("protiucet beats merchant and keyword", func(t *testing.T) {
		tx := &models.Transaction{
			CisloProtiuctu: "123/0100",
			NazevMerchanta: "TESCO",
			PoznamkaZprava: "najem",
		}
		matched, warnings := c.Categorize(tx)
		require.NotNil(t, matched)
		assert.Empty(t, warnings)
		assert.Equal(t, "by-protiucet", matched.Name)
		assert.Equal(t, "protiucet-druh", tx.Druh)
	})

	t.Run("merchant beats keyword when protiucet misses", func(t *testing.T) {
		tx := &models.Transaction{
			CisloProtiuctu: "999/9999",
			NazevMerchanta: "TESCO",
			PoznamkaZprava: "najem",
		}
		matched, _ := c.Categorize(tx)
		require.NotNil(t, matched)
		assert.Equal(t, "by-merchant", matched.Name)
	})

	t.Run("keyword tier searches message, note and counterparty name", func(t *testing.T) {
		tx := &models.Transaction{NazevProtiuctu: "Najemnik s.r.o.", VlastniPoznamka: "najem brezen"}
		matched, _ := c.Categorize(tx)
		require.NotNil(t, matched)
		assert.Equal(t, "by-keyword", matched.Name)
	})

	t.Run("no match leaves categorization empty", func(t *testing.T) {
		tx := &models.Transaction{PoznamkaZprava: "nic zajimaveho"}
		matched, _ := c.Categorize(tx)
		assert.Nil(t, matched)
		assert.Equal(t, "", tx.Druh)
	})
}

func TestCategorizePriorityOrder(t *testing.T) {
	t.Run("lower priority number wins", func(t *testing.T) {
		rules := []models.CategoryRule{
			makeRule("late", models.MatchKeyword, models.ModeContains, "najem", 10,
				models.RuleAssignments{Druh: "late-druh"}),
			makeRule("early", models.MatchKeyword, models.ModeContains, "najem", 1,
				models.RuleAssignments{Druh: "early-druh"}),
		}
		tx := &models.Transaction{PoznamkaZprava: "najem"}
		matched, _ := NewCategorizer(rules).Categorize(tx)
		require.NotNil(t, matched)
		assert.Equal(t, "early", matched.Name)
	})

	t.Run("equal priority keeps definition order", func(t *testing.T) {
		rules := []models.CategoryRule{
			makeRule("first", models.MatchKeyword, models.ModeContains, "najem", 5,
				models.RuleAssignments{Druh: "first-druh"}),
			makeRule("second", models.MatchKeyword, models.ModeContains, "najem", 5,
				models.RuleAssignments{Druh: "second-druh"}),
		}
		tx := &models.Transaction{PoznamkaZprava: "najem"}
		matched, _ := NewCategorizer(rules).Categorize(tx)
		require.NotNil(t, matched)
		assert.Equal(t, "first", matched.Name)
	})

	t.Run("only the winning rule applies, no merging", func(t *testing.T) {
		rules := []models.CategoryRule{
			makeRule("winner", models.MatchKeyword, models.ModeContains, "najem", 1,
				models.RuleAssignments{Druh: "winner-druh"}),
			makeRule("loser", models.MatchKeyword, models.ModeContains, "najem", 2,
				models.RuleAssignments{Druh: "loser-druh", Detail: "loser-detail", Kmen: models.KmenMH}),
		}
		tx := &models.Transaction{PoznamkaZprava: "najem"}
		_, _ = NewCategorizer(rules).Categorize(tx)
		assert.Equal(t, "winner-druh", tx.Druh)
		assert.Equal(t, "", tx.Detail)
		assert.Equal(t, models.Kmen(""), tx.Kmen)
	})
}

func TestCategorizeMatchModes(t *testing.T) {
	t.Run("exact is case-insensitive by default", func(t *testing.T) {
		rules := []models.CategoryRule{
			makeRule("r", models.MatchMerchant, models.ModeExact, "tesco", 1,
				models.RuleAssignments{Druh: "d"}),
		}
		tx := &models.Transaction{NazevMerchanta: "TESCO"}
		matched, _ := NewCategorizer(rules).Categorize(tx)
		assert.NotNil(t, matched)
	})

	t.Run("case sensitive exact", func(t *testing.T) {
		rule := makeRule("r", models.MatchMerchant, models.ModeExact, "tesco", 1,
			models.RuleAssignments{Druh: "d"})
		rule.CaseSensitive = true
		tx := &models.Transaction{NazevMerchanta: "TESCO"}
		matched, _ := NewCategorizer([]models.CategoryRule{rule}).Categorize(tx)
		assert.Nil(t, matched)
	})

	t.Run("regex mode", func(t *testing.T) {
		rules := []models.CategoryRule{
			makeRule("r", models.MatchKeyword, models.ModeRegex, `najem\s+\d{2}/\d{4}`, 1,
				models.RuleAssignments{Druh: "d"}),
		}
		tx := &models.Transaction{PoznamkaZprava: "najem 03/2024"}
		matched, _ := NewCategorizer(rules).Categorize(tx)
		assert.NotNil(t, matched)
	})

	t.Run("invalid regex skips rule with warning, later rules still run", func(t *testing.T) {
		rules := []models.CategoryRule{
			makeRule("broken", models.MatchKeyword, models.ModeRegex, "najem[", 1,
				models.RuleAssignments{Druh: "broken-druh"}),
			makeRule("fallback", models.MatchKeyword, models.ModeContains, "najem", 2,
				models.RuleAssignments{Druh: "fallback-druh"}),
		}
		tx := &models.Transaction{PoznamkaZprava: "najem"}
		matched, warnings := NewCategorizer(rules).Categorize(tx)
		require.NotNil(t, matched)
		assert.Equal(t, "fallback", matched.Name)
		require.Len(t, warnings, 1)
		assert.Equal(t, "broken", warnings[0].RuleName)
	})

	t.Run("inactive rules never match", func(t *testing.T) {
		rule := makeRule("off", models.MatchKeyword, models.ModeContains, "najem", 1,
			models.RuleAssignments{Druh: "d"})
		rule.IsActive = false
		tx := &models.Transaction{PoznamkaZprava: "najem"}
		matched, _ := NewCategorizer([]models.CategoryRule{rule}).Categorize(tx)
		assert.Nil(t, matched)
	})
}

func TestCategorizePrijemVydajDerivation(t *testing.T) {
	t.Run("derived from sign when no rule sets it", func(t *testing.T) {
		tx := &models.Transaction{Castka: decimal.NewFromInt(-100)}
		NewCategorizer(nil).Categorize(tx)
		assert.Equal(t, models.Vydaj, tx.PrijemVydaj)

		tx = &models.Transaction{Castka: decimal.NewFromInt(100)}
		NewCategorizer(nil).Categorize(tx)
		assert.Equal(t, models.Prijem, tx.PrijemVydaj)
	})

	t.Run("zero amount stays unset", func(t *testing.T) {
		tx := &models.Transaction{}
		NewCategorizer(nil).Categorize(tx)
		assert.Equal(t, models.PrijemVydaj(""), tx.PrijemVydaj)
	})

	t.Run("explicit rule assignment wins over sign", func(t *testing.T) {
		rules := []models.CategoryRule{
			makeRule("refund", models.MatchKeyword, models.ModeContains, "vratka", 1,
				models.RuleAssignments{PrijemVydaj: models.Vydaj}),
		}
		tx := &models.Transaction{PoznamkaZprava: "vratka zbozi", Castka: decimal.NewFromInt(100)}
		NewCategorizer(rules).Categorize(tx)
		assert.Equal(t, models.Vydaj, tx.PrijemVydaj)
	})
}

func TestApplyRulesReturnsOnlyChangedRows(t *testing.T) {
	rules := []models.CategoryRule{
		makeRule("r", models.MatchKeyword, models.ModeContains, "najem", 1,
			models.RuleAssignments{Druh: "bydleni"}),
	}
	c := NewCategorizer(rules)

	txs := []models.Transaction{
		{PoznamkaZprava: "najem brezen", Castka: decimal.NewFromInt(-100)},
		{PoznamkaZprava: "nic", PrijemVydaj: models.Vydaj, Castka: decimal.NewFromInt(-50)},
		{PoznamkaZprava: "najem duben", Druh: "bydleni", PrijemVydaj: models.Vydaj, Castka: decimal.NewFromInt(-100)},
	}

	changed, count := c.ApplyRules(txs)
	assert.Equal(t, 1, count)
	require.Len(t, changed, 1)
	assert.Equal(t, "najem brezen", changed[0].PoznamkaZprava)
	assert.Equal(t, "bydleni", changed[0].Druh)
	assert.Equal(t, models.Vydaj, changed[0].PrijemVydaj)
}
