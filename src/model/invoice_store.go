package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/misehero/HeroWizzard-version2/src/models"
)

const invoiceColumns = `
	id, cislo_dokladu, popis, cislo_objednavky, rada,
	nazev_jmeno, ic, dic_ic_dph, dic_sk,
	vystaveno, splatnost, duzp, datum_platby,
	celkem_s_dph, celkem_bez_dph, dph, mena,
	stav_uhrady, uhrazena_castka, variabilni_symbol,
	exportovano, odeslano_odberateli, odeslano_uctovnemu,
	import_batch_id, created_at, created_by`

func InsertInvoice(db DBTX, inv *models.IDokladInvoice) error {
	inv.CreatedAt = time.Now().UTC()
	query := `INSERT INTO idoklad_invoices (` + invoiceColumns + `) VALUES (
		?, ?, ?, ?, ?,
		?, ?, ?, ?,
		?, ?, ?, ?,
		?, ?, ?, ?,
		?, ?, ?,
		?, ?, ?,
		?, ?, ?)`
	_, err := db.Exec(query,
		inv.ID.String(), inv.CisloDokladu, inv.Popis, inv.CisloObjednavky, inv.Rada,
		inv.NazevJmeno, inv.IC, inv.DicIcDph, inv.DicSk,
		nullTimeArg(inv.Vystaveno), nullTimeArg(inv.Splatnost), nullTimeArg(inv.Duzp), nullTimeArg(inv.DatumPlatby),
		nullDecimalArg(inv.CelkemSDph), nullDecimalArg(inv.CelkemBezDph), nullDecimalArg(inv.Dph), inv.Mena,
		inv.StavUhrady, nullDecimalArg(inv.UhrazenaCastka), inv.VariabilniSymbol,
		inv.Exportovano, inv.OdeslanoOdberateli, inv.OdeslanoUctovnemu,
		inv.ImportBatchID.String(), inv.CreatedAt, inv.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("inserting invoice %s: %w", inv.CisloDokladu, err)
	}
	return nil
}

// ExistingInvoiceNumbers returns the set of document numbers already stored,
// the dedup snapshot for an invoice import.
func ExistingInvoiceNumbers(db DBTX) (map[string]struct{}, error) {
	rows, err := db.Query(`SELECT cislo_dokladu FROM idoklad_invoices`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numbers := make(map[string]struct{})
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers[n] = struct{}{}
	}
	return numbers, rows.Err()
}

func scanInvoice(rows *sql.Rows) (*models.IDokladInvoice, error) {
	var inv models.IDokladInvoice
	var id, batchID string
	var vystaveno, splatnost, duzp, datumPlatby sql.NullTime
	var celkemS, celkemBez, dph, uhrazena sql.NullString

	if err := rows.Scan(
		&id, &inv.CisloDokladu, &inv.Popis, &inv.CisloObjednavky, &inv.Rada,
		&inv.NazevJmeno, &inv.IC, &inv.DicIcDph, &inv.DicSk,
		&vystaveno, &splatnost, &duzp, &datumPlatby,
		&celkemS, &celkemBez, &dph, &inv.Mena,
		&inv.StavUhrady, &uhrazena, &inv.VariabilniSymbol,
		&inv.Exportovano, &inv.OdeslanoOdberateli, &inv.OdeslanoUctovnemu,
		&batchID, &inv.CreatedAt, &inv.CreatedBy,
	); err != nil {
		return nil, err
	}

	var err error
	if inv.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid invoice id %q: %w", id, err)
	}
	if inv.ImportBatchID, err = uuid.Parse(batchID); err != nil {
		return nil, fmt.Errorf("invalid import_batch_id %q: %w", batchID, err)
	}
	inv.Vystaveno = scanNullTime(vystaveno)
	inv.Splatnost = scanNullTime(splatnost)
	inv.Duzp = scanNullTime(duzp)
	inv.DatumPlatby = scanNullTime(datumPlatby)
	if inv.CelkemSDph, err = scanNullDecimal(celkemS); err != nil {
		return nil, err
	}
	if inv.CelkemBezDph, err = scanNullDecimal(celkemBez); err != nil {
		return nil, err
	}
	if inv.Dph, err = scanNullDecimal(dph); err != nil {
		return nil, err
	}
	if inv.UhrazenaCastka, err = scanNullDecimal(uhrazena); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoices returns invoices newest-first by issue date, optionally
// filtered by variable symbol (the link key to bank transactions).
func ListInvoices(db DBTX, variabilniSymbol string, limit int) ([]models.IDokladInvoice, error) {
	if limit <= 0 {
		limit = 200
	}
	query := `SELECT ` + invoiceColumns + ` FROM idoklad_invoices`
	var args []interface{}
	if variabilniSymbol != "" {
		query += ` WHERE variabilni_symbol = ?`
		args = append(args, variabilniSymbol)
	}
	query += ` ORDER BY vystaveno DESC, created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.IDokladInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}
