// backend/src/services/invoice_service.go
package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/misehero/HeroWizzard-version2/src/database"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/model"
	"github.com/misehero/HeroWizzard-version2/src/models"
	"github.com/misehero/HeroWizzard-version2/src/parsers"
	"github.com/misehero/HeroWizzard-version2/src/security/validation"
)

const idokladFormatName = "IDOKLAD"

// iDoklad exports are comma separated and use US-style dates, unlike the
// bank statements.
const idokladDelimiter = ','

var idokladDateLayouts = []string{"01/02/2006", "02.01.2006", "2006-01-02"}

// Column headers of the iDoklad issued-invoices export.
var idokladFields = map[string]string{
	"Číslo dokladu":       "cislo_dokladu",
	"Popis":               "popis",
	"Číslo objednávky":    "cislo_objednavky",
	"Řada":                "rada",
	"Název/Jméno":         "nazev_jmeno",
	"IČ":                  "ic",
	"DIČ / IČ DPH":        "dic_ic_dph",
	"DIČ (SK)":            "dic_sk",
	"Vystaveno":           "vystaveno",
	"Splatnost":           "splatnost",
	"DUZP":                "duzp",
	"Datum platby":        "datum_platby",
	"Celkem s DPH":        "celkem_s_dph",
	"Celkem bez DPH":      "celkem_bez_dph",
	"DPH":                 "dph",
	"Měna":                "mena",
	"Stav úhrady":         "stav_uhrady",
	"Uhrazená částka":     "uhrazena_castka",
	"Variabilní symbol":   "variabilni_symbol",
	"Exportováno":         "exportovano",
	"Odesláno odběrateli": "odeslano_odberateli",
	"Odesláno účetnímu":   "odeslano_uctovnemu",
}

type invoiceServiceImpl struct{}

func NewInvoiceService() InvoiceService {
	return &invoiceServiceImpl{}
}

func parseIDokladDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range idokladDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", parsers.ErrMalformedDate, raw)
}

func parseIDokladAmount(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := parsers.ParseAmount(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseIDokladBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "Ano")
}

func buildInvoice(fields map[string]string) (*models.IDokladInvoice, error) {
	cislo := strings.TrimSpace(fields["cislo_dokladu"])
	if cislo == "" {
		return nil, fmt.Errorf("missing cislo_dokladu")
	}

	inv := &models.IDokladInvoice{
		CisloDokladu:       cislo,
		Popis:              fields["popis"],
		CisloObjednavky:    fields["cislo_objednavky"],
		Rada:               fields["rada"],
		NazevJmeno:         fields["nazev_jmeno"],
		IC:                 fields["ic"],
		DicIcDph:           fields["dic_ic_dph"],
		DicSk:              fields["dic_sk"],
		Mena:               fields["mena"],
		StavUhrady:         fields["stav_uhrady"],
		VariabilniSymbol:   fields["variabilni_symbol"],
		Exportovano:        parseIDokladBool(fields["exportovano"]),
		OdeslanoOdberateli: fields["odeslano_odberateli"],
		OdeslanoUctovnemu:  parseIDokladBool(fields["odeslano_uctovnemu"]),
	}
	if inv.Mena == "" {
		inv.Mena = "CZK"
	}
	if err := validation.ValidateCurrencyCode(inv.Mena); err != nil {
		return nil, err
	}

	var err error
	if inv.Vystaveno, err = parseIDokladDate(fields["vystaveno"]); err != nil {
		return nil, fmt.Errorf("vystaveno: %w", err)
	}
	if inv.Splatnost, err = parseIDokladDate(fields["splatnost"]); err != nil {
		return nil, fmt.Errorf("splatnost: %w", err)
	}
	if inv.Duzp, err = parseIDokladDate(fields["duzp"]); err != nil {
		return nil, fmt.Errorf("duzp: %w", err)
	}
	if inv.DatumPlatby, err = parseIDokladDate(fields["datum_platby"]); err != nil {
		return nil, fmt.Errorf("datum_platby: %w", err)
	}
	if inv.CelkemSDph, err = parseIDokladAmount(fields["celkem_s_dph"]); err != nil {
		return nil, fmt.Errorf("celkem_s_dph: %w", err)
	}
	if inv.CelkemBezDph, err = parseIDokladAmount(fields["celkem_bez_dph"]); err != nil {
		return nil, fmt.Errorf("celkem_bez_dph: %w", err)
	}
	if inv.Dph, err = parseIDokladAmount(fields["dph"]); err != nil {
		return nil, fmt.Errorf("dph: %w", err)
	}
	if inv.UhrazenaCastka, err = parseIDokladAmount(fields["uhrazena_castka"]); err != nil {
		return nil, fmt.Errorf("uhrazena_castka: %w", err)
	}
	return inv, nil
}

// ImportIDoklad ingests an iDoklad issued-invoices CSV export. Rows are
// deduplicated on the invoice number, both against the database and within
// the file itself.
func (s *invoiceServiceImpl) ImportIDoklad(fileReader io.Reader, filename string, actor string) (*models.ImportBatch, error) {
	start := time.Now()
	logger.L.Info("ImportIDoklad START", "filename", filename, "actor", actor)

	batch := &models.ImportBatch{
		ID:             uuid.New(),
		Filename:       filename,
		DetectedFormat: idokladFormatName,
		Status:         models.BatchProcessing,
		StartedAt:      time.Now().UTC(),
		CreatedBy:      actor,
	}

	fail := func(err error) (*models.ImportBatch, error) {
		batch.Status = models.BatchFailed
		batch.ErrorDetails = append(batch.ErrorDetails, models.RowError{Row: 0, Message: err.Error()})
		batch.CompletedAt = time.Now().UTC()
		if insertErr := model.InsertImportBatch(database.DB, batch); insertErr != nil {
			logger.L.Error("Failed to record failed invoice import batch", "batchID", batch.ID, "error", insertErr)
		}
		return batch, err
	}

	fileBytes, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrImportFailed, err)
	}
	content, err := parsers.DecodeBytes(fileBytes)
	if err != nil {
		return fail(err)
	}
	rows, err := parsers.ReadAllRows(content, idokladDelimiter)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrParsingFailed, err))
	}
	if len(rows) == 0 {
		return fail(fmt.Errorf("%w: empty file", ErrParsingFailed))
	}

	headers := rows[0]
	colIdx := make(map[int]string)
	for i, h := range headers {
		if field, ok := idokladFields[strings.TrimSpace(h)]; ok {
			colIdx[i] = field
		}
	}
	if len(colIdx) == 0 {
		return fail(fmt.Errorf("%w: not an iDoklad export", parsers.ErrUnknownFormat))
	}

	existing, err := model.ExistingInvoiceNumbers(database.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: loading invoice dedup snapshot: %v", ErrImportFailed, err)
	}
	dedup := newDedupIndex(existing)

	var invoices []models.IDokladInvoice
	rowNum := 0
	for _, row := range rows[1:] {
		if parsers.IsBlankRow(row) {
			continue
		}
		rowNum++

		fields := make(map[string]string)
		for i, field := range colIdx {
			if i < len(row) {
				fields[field] = strings.TrimSpace(row[i])
			}
		}

		inv, err := buildInvoice(fields)
		if err != nil {
			batch.ErrorCount++
			batch.ErrorDetails = append(batch.ErrorDetails, models.RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if dedup.Seen(inv.CisloDokladu) {
			batch.SkippedCount++
			continue
		}
		dedup.Add(inv.CisloDokladu)

		inv.ID = uuid.New()
		inv.ImportBatchID = batch.ID
		inv.CreatedBy = actor
		invoices = append(invoices, *inv)
		batch.ImportedCount++
	}

	batch.TotalRows = rowNum
	batch.Status = models.BatchCompleted
	batch.CompletedAt = time.Now().UTC()

	dbTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	// The batch row goes first: invoices reference it.
	if err := model.InsertImportBatch(dbTx, batch); err != nil {
		return nil, fmt.Errorf("failed to record import batch: %w", err)
	}
	for i := range invoices {
		if err := model.InsertInvoice(dbTx, &invoices[i]); err != nil {
			return nil, fmt.Errorf("error inserting invoice %s: %w", invoices[i].CisloDokladu, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing invoice import: %w", err)
	}

	logger.L.Info("ImportIDoklad END",
		"filename", filename,
		"total", batch.TotalRows,
		"imported", batch.ImportedCount,
		"skipped", batch.SkippedCount,
		"errors", batch.ErrorCount,
		"duration", time.Since(start),
	)
	return batch, nil
}
