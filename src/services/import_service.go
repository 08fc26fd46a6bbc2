// backend/src/services/import_service.go
package services

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/misehero/HeroWizzard-version2/src/database"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/model"
	"github.com/misehero/HeroWizzard-version2/src/models"
	"github.com/misehero/HeroWizzard-version2/src/parsers"
	"github.com/misehero/HeroWizzard-version2/src/processors"
	"github.com/misehero/HeroWizzard-version2/src/security/validation"
)

const (
	ckRecentBatches        = "agg_recent_batches"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

const statementDelimiter = ';'

// scrubTransactionText cleans the free-text columns of an imported row:
// unprintable characters are stripped, HTML is removed when a field trips the
// XSS scanner, and formula-leading values are neutralized so a later CSV
// export cannot execute in a spreadsheet.
func scrubTransactionText(t *models.Transaction, contextID string) {
	for _, field := range []*string{
		&t.PoznamkaZprava, &t.VlastniPoznamka, &t.NazevProtiuctu, &t.NazevMerchanta,
	} {
		if *field == "" {
			continue
		}
		cleaned := validation.StripUnprintable(*field)
		if err := validation.CheckXSSPatterns(cleaned, "text", contextID); err != nil {
			cleaned = validation.SanitizeText(cleaned)
		}
		*field = validation.SanitizeForFormulaInjection(cleaned)
	}
}

type importServiceImpl struct {
	ruleService RuleService
	reportCache *cache.Cache
}

func NewImportService(ruleService RuleService, reportCache *cache.Cache) ImportService {
	return &importServiceImpl{
		ruleService: ruleService,
		reportCache: reportCache,
	}
}

// RunPipeline is the import pipeline proper: a pure transformation of
// (file bytes, existing natural keys, active rules) into categorized
// transactions plus a batch summary. It touches no storage, so concurrent
// imports are safe as long as each gets a consistent key snapshot; the
// database uniqueness constraint on the natural key remains the final
// arbiter between racing batches.
//
// The returned batch is always usable for persistence: on a whole-file
// failure it carries the failed status and the reason, alongside a non-nil
// error.
func RunPipeline(
	fileBytes []byte,
	existingKeys map[string]struct{},
	rules []models.CategoryRule,
	filename string,
	actor string,
) (*models.ImportBatch, []models.Transaction, error) {
	batch := &models.ImportBatch{
		ID:        uuid.New(),
		Filename:  filename,
		Status:    models.BatchProcessing,
		StartedAt: time.Now().UTC(),
		CreatedBy: actor,
	}

	fail := func(err error) (*models.ImportBatch, []models.Transaction, error) {
		batch.Status = models.BatchFailed
		batch.ErrorDetails = append(batch.ErrorDetails, models.RowError{Row: 0, Message: err.Error()})
		batch.CompletedAt = time.Now().UTC()
		return batch, nil, err
	}

	content, err := parsers.DecodeBytes(fileBytes)
	if err != nil {
		return fail(err)
	}
	rows, err := parsers.ReadAllRows(content, statementDelimiter)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrParsingFailed, err))
	}
	profile, headerIdx, err := parsers.DetectProfile(rows)
	if err != nil {
		return fail(err)
	}
	batch.DetectedFormat = profile.Name
	logger.L.Info("Detected bank CSV format", "format", profile.Name, "filename", filename)

	headers := rows[headerIdx]
	categorizer := processors.NewCategorizer(rules)
	dedup := newDedupIndex(existingKeys)

	var imported []models.Transaction
	rowNum := 0

	for _, row := range rows[headerIdx+1:] {
		if parsers.IsBlankRow(row) {
			continue
		}
		fields := profile.MapRow(headers, row)
		if len(fields) == 0 {
			continue
		}
		rowNum++

		tx, err := parsers.BuildTransaction(fields)
		if err != nil {
			batch.ErrorCount++
			batch.ErrorDetails = append(batch.ErrorDetails, models.RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		scrubTransactionText(tx, batch.ID.String())

		key := profile.NaturalKey(tx)
		if dedup.Seen(key) {
			batch.SkippedCount++
			continue
		}
		dedup.Add(key)

		_, warnings := categorizer.Categorize(tx)
		for _, w := range warnings {
			batch.Warnings = append(batch.Warnings, models.RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("rule %q skipped: %s", w.RuleName, w.Message),
			})
		}

		tx.ID = uuid.New()
		tx.ImportBatchID = batch.ID
		tx.CreatedBy = actor
		tx.UpdatedBy = actor

		imported = append(imported, *tx)
		batch.ImportedCount++
	}

	batch.TotalRows = rowNum
	batch.Status = models.BatchCompleted
	batch.CompletedAt = time.Now().UTC()
	return batch, imported, nil
}

// ImportCSV reads the upload, runs the pipeline against the current rule and
// key snapshots and persists the accepted rows together with the batch
// record in one database transaction. A single bad row never aborts the
// batch; whole-file failures are persisted as a failed batch for the audit
// trail.
func (s *importServiceImpl) ImportCSV(fileReader io.Reader, filename string, actor string) (*models.ImportBatch, error) {
	start := time.Now()
	logger.L.Info("ImportCSV START", "filename", filename, "actor", actor)

	fileBytes, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrImportFailed, err)
	}

	existingKeys, err := model.ExistingTransactionKeys(database.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: loading dedup snapshot: %v", ErrImportFailed, err)
	}
	rules, err := s.ruleService.ActiveRules()
	if err != nil {
		return nil, fmt.Errorf("%w: loading rules: %v", ErrImportFailed, err)
	}

	batch, txs, runErr := RunPipeline(fileBytes, existingKeys, rules, filename, actor)
	if runErr != nil {
		if insertErr := model.InsertImportBatch(database.DB, batch); insertErr != nil {
			logger.L.Error("Failed to record failed import batch", "batchID", batch.ID, "error", insertErr)
		}
		return batch, runErr
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	// The batch row goes first: transactions reference it.
	if err := model.InsertImportBatch(dbTx, batch); err != nil {
		return nil, fmt.Errorf("failed to record import batch: %w", err)
	}
	for i := range txs {
		if err := model.InsertTransaction(dbTx, &txs[i]); err != nil {
			return nil, fmt.Errorf("error inserting transaction (row batch %s): %w", batch.ID, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing import: %w", err)
	}

	s.reportCache.Delete(ckRecentBatches)
	logger.L.Info("ImportCSV END",
		"filename", filename,
		"format", batch.DetectedFormat,
		"total", batch.TotalRows,
		"imported", batch.ImportedCount,
		"skipped", batch.SkippedCount,
		"errors", batch.ErrorCount,
		"duration", time.Since(start),
	)
	return batch, nil
}
