package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/models"
)

func init() {
	logger.InitLogger("error")
}

const genericStatement = `Datum;Účet;Typ;Poznámka/Zpráva;VS;Částka;Id transakce
15.03.2024;123456789/0100;Platba;najem brezen;2024;-15 000,00;TX-001
16.03.2024;123456789/0100;Platba;faktura 42;;12 500,00;TX-002
17.03.2024;123456789/0100;Platba;spatna castka;;abc;TX-003
18.03.2024;123456789/0100;Platba;nakup;;-350,50;TX-004
19.03.2024;123456789/0100;Platba;prevod;;-1 000,00;TX-005
`

func TestRunPipelineGenericStatement(t *testing.T) {
	batch, txs, err := RunPipeline([]byte(genericStatement), nil, nil, "vypis.csv", "tester")
	require.NoError(t, err)

	assert.Equal(t, "generic", batch.DetectedFormat)
	assert.Equal(t, models.BatchCompleted, batch.Status)
	assert.Equal(t, 5, batch.TotalRows)
	assert.Equal(t, 4, batch.ImportedCount)
	assert.Equal(t, 0, batch.SkippedCount)
	assert.Equal(t, 1, batch.ErrorCount)
	require.Len(t, batch.ErrorDetails, 1)
	assert.Equal(t, 3, batch.ErrorDetails[0].Row)

	require.Len(t, txs, 4)
	for _, tx := range txs {
		assert.Equal(t, batch.ID, tx.ImportBatchID)
		assert.Equal(t, "tester", tx.CreatedBy)
		assert.Equal(t, models.StatusImportovano, tx.Status)
		assert.NotEqual(t, "", tx.ID.String())
	}
	// Sign-derived P/V on uncategorized rows.
	assert.Equal(t, models.Vydaj, txs[0].PrijemVydaj)
	assert.Equal(t, models.Prijem, txs[1].PrijemVydaj)
}

func TestRunPipelineDuplicateSuppression(t *testing.T) {
	t.Run("existing keys are skipped", func(t *testing.T) {
		existing := map[string]struct{}{
			"TX-001": {}, "TX-002": {}, "TX-004": {}, "TX-005": {},
		}
		batch, txs, err := RunPipeline([]byte(genericStatement), existing, nil, "vypis.csv", "tester")
		require.NoError(t, err)
		assert.Equal(t, 4, batch.SkippedCount)
		assert.Equal(t, 0, batch.ImportedCount)
		assert.Equal(t, 1, batch.ErrorCount)
		assert.Empty(t, txs)
	})

	t.Run("duplicate within one file is skipped", func(t *testing.T) {
		content := "Datum;Částka;Id transakce\n" +
			"15.03.2024;-100,00;TX-001\n" +
			"15.03.2024;-100,00;TX-001\n"
		batch, txs, err := RunPipeline([]byte(content), nil, nil, "vypis.csv", "tester")
		require.NoError(t, err)
		assert.Equal(t, 1, batch.ImportedCount)
		assert.Equal(t, 1, batch.SkippedCount)
		assert.Len(t, txs, 1)
	})

	t.Run("rows without a natural key are never deduplicated", func(t *testing.T) {
		content := strings.Join([]string{
			"Typ účtu;Číslo účtu;IBAN;BIC",
			"Běžný účet;111222333;CZ65;CTASCZ22",
			"",
			"Datum zaúčtování;Protiúčet;Platba/Vklad;Částka;Měna",
			"15.03.2024;444555666;Platba;-100,00;CZK",
			"15.03.2024;444555666;Platba;-100,00;CZK",
		}, "\n")
		batch, txs, err := RunPipeline([]byte(content), nil, nil, "creditas.csv", "tester")
		require.NoError(t, err)
		assert.Equal(t, "creditas", batch.DetectedFormat)
		assert.Equal(t, 2, batch.ImportedCount)
		assert.Equal(t, 0, batch.SkippedCount)
		assert.Len(t, txs, 2)
	})
}

func TestRunPipelineCategorization(t *testing.T) {
	rules := []models.CategoryRule{
		{
			Name: "najem", MatchType: models.MatchKeyword, MatchMode: models.ModeContains,
			MatchValue: "najem", Priority: 1, IsActive: true,
			Assign: models.RuleAssignments{Druh: "bydleni", Kmen: models.KmenMH},
		},
	}
	_, txs, err := RunPipeline([]byte(genericStatement), nil, rules, "vypis.csv", "tester")
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, "bydleni", txs[0].Druh)
	assert.Equal(t, models.KmenMH, txs[0].Kmen)
	assert.Equal(t, "", txs[1].Druh)
}

func TestRunPipelineRuleWarnings(t *testing.T) {
	rules := []models.CategoryRule{
		{
			Name: "broken", MatchType: models.MatchKeyword, MatchMode: models.ModeRegex,
			MatchValue: "najem[", Priority: 1, IsActive: true,
			Assign: models.RuleAssignments{Druh: "x"},
		},
	}
	batch, _, err := RunPipeline([]byte(genericStatement), nil, rules, "vypis.csv", "tester")
	require.NoError(t, err)
	assert.Equal(t, models.BatchCompleted, batch.Status)
	assert.NotEmpty(t, batch.Warnings)
	assert.Contains(t, batch.Warnings[0].Message, "broken")
}

func TestRunPipelineFailures(t *testing.T) {
	t.Run("unknown format yields a failed batch", func(t *testing.T) {
		content := "Date,Amount\n2024-03-15,100.00\n"
		batch, txs, err := RunPipeline([]byte(content), nil, nil, "foreign.csv", "tester")
		require.Error(t, err)
		assert.Nil(t, txs)
		assert.Equal(t, models.BatchFailed, batch.Status)
		require.Len(t, batch.ErrorDetails, 1)
		assert.Equal(t, 0, batch.ErrorDetails[0].Row)
	})

	t.Run("empty file yields a failed batch", func(t *testing.T) {
		batch, _, err := RunPipeline(nil, nil, nil, "empty.csv", "tester")
		require.Error(t, err)
		assert.Equal(t, models.BatchFailed, batch.Status)
	})

	t.Run("trailing blank lines are not counted as rows", func(t *testing.T) {
		content := "Datum;Částka\n15.03.2024;-100,00\n;\n;\n"
		batch, _, err := RunPipeline([]byte(content), nil, nil, "vypis.csv", "tester")
		require.NoError(t, err)
		assert.Equal(t, 1, batch.TotalRows)
		assert.Equal(t, 1, batch.ImportedCount)
	})
}

func TestDedupIndex(t *testing.T) {
	idx := newDedupIndex(map[string]struct{}{"A": {}})

	assert.True(t, idx.Seen("A"))
	assert.False(t, idx.Seen("B"))
	idx.Add("B")
	assert.True(t, idx.Seen("B"))

	// Empty keys are exempt from dedup entirely.
	assert.False(t, idx.Seen(""))
	idx.Add("")
	assert.False(t, idx.Seen(""))
}
