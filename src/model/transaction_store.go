package model

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/models"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const transactionColumns = `
	id, datum, ucet, typ, poznamka_zprava, variabilni_symbol, castka,
	datum_zauctovani, cislo_protiuctu, nazev_protiuctu, typ_transakce,
	konstantni_symbol, specificky_symbol, puvodni_castka, puvodni_mena,
	poplatky, id_transakce, vlastni_poznamka, nazev_merchanta, mesto, mena,
	banka_protiuctu, reference,
	status, prijem_vydaj, vlastni_nevlastni, dane, druh, detail, kmen,
	mh_pct, sk_pct, xp_pct, fr_pct, projekt_id, produkt_id, podskupina_id,
	is_active, import_batch_id, created_at, updated_at, created_by, updated_by`

// InsertTransaction writes a fully built transaction row. Timestamps are
// stamped here so callers never have to remember them.
func InsertTransaction(db DBTX, t *models.Transaction) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES (
		?, ?, ?, ?, ?, ?, ?,
		?, ?, ?, ?,
		?, ?, ?, ?,
		?, ?, ?, ?, ?, ?,
		?, ?,
		?, ?, ?, ?, ?, ?, ?,
		?, ?, ?, ?, ?, ?, ?,
		?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query,
		t.ID.String(), t.Datum, t.Ucet, t.Typ, t.PoznamkaZprava, t.VariabilniSymbol, decimalArg(t.Castka),
		nullTimeArg(t.DatumZauctovani), t.CisloProtiuctu, t.NazevProtiuctu, t.TypTransakce,
		t.KonstantniSymbol, t.SpecifickySymbol, nullDecimalArg(t.PuvodniCastka), t.PuvodniMena,
		nullDecimalArg(t.Poplatky), t.IDTransakce, t.VlastniPoznamka, t.NazevMerchanta, t.Mesto, t.Mena,
		t.BankaProtiuctu, t.Reference,
		string(t.Status), string(t.PrijemVydaj), string(t.VlastniNevlastni), t.Dane, t.Druh, t.Detail, string(t.Kmen),
		decimalArg(t.MhPct), decimalArg(t.SkPct), decimalArg(t.XpPct), decimalArg(t.FrPct), t.ProjektID, t.ProduktID, t.PodskupinaID,
		t.IsActive, t.ImportBatchID.String(), t.CreatedAt, t.UpdatedAt, t.CreatedBy, t.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (*models.Transaction, error) {
	var t models.Transaction
	var id, batchID string
	var castka, mh, sk, xp, fr string
	var datumZauct sql.NullTime
	var puvodniCastka, poplatky sql.NullString
	var status, pv, vn, kmen string

	if err := rows.Scan(
		&id, &t.Datum, &t.Ucet, &t.Typ, &t.PoznamkaZprava, &t.VariabilniSymbol, &castka,
		&datumZauct, &t.CisloProtiuctu, &t.NazevProtiuctu, &t.TypTransakce,
		&t.KonstantniSymbol, &t.SpecifickySymbol, &puvodniCastka, &t.PuvodniMena,
		&poplatky, &t.IDTransakce, &t.VlastniPoznamka, &t.NazevMerchanta, &t.Mesto, &t.Mena,
		&t.BankaProtiuctu, &t.Reference,
		&status, &pv, &vn, &t.Dane, &t.Druh, &t.Detail, &kmen,
		&mh, &sk, &xp, &fr, &t.ProjektID, &t.ProduktID, &t.PodskupinaID,
		&t.IsActive, &batchID, &t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &t.UpdatedBy,
	); err != nil {
		return nil, err
	}

	var err error
	if t.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid transaction id %q: %w", id, err)
	}
	if t.ImportBatchID, err = uuid.Parse(batchID); err != nil {
		return nil, fmt.Errorf("invalid import_batch_id %q: %w", batchID, err)
	}
	if t.Castka, err = scanDecimal(castka); err != nil {
		return nil, err
	}
	if t.MhPct, err = scanDecimal(mh); err != nil {
		return nil, err
	}
	if t.SkPct, err = scanDecimal(sk); err != nil {
		return nil, err
	}
	if t.XpPct, err = scanDecimal(xp); err != nil {
		return nil, err
	}
	if t.FrPct, err = scanDecimal(fr); err != nil {
		return nil, err
	}
	if t.PuvodniCastka, err = scanNullDecimal(puvodniCastka); err != nil {
		return nil, err
	}
	if t.Poplatky, err = scanNullDecimal(poplatky); err != nil {
		return nil, err
	}
	t.DatumZauctovani = scanNullTime(datumZauct)
	t.Status = models.Status(status)
	t.PrijemVydaj = models.PrijemVydaj(pv)
	t.VlastniNevlastni = models.VlastniNevlastni(vn)
	t.Kmen = models.Kmen(kmen)
	return &t, nil
}

func queryTransactions(db DBTX, query string, args ...interface{}) ([]models.Transaction, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	Status      models.Status
	PrijemVydaj models.PrijemVydaj
	Kmen        models.Kmen
	ProjektID   string
	BatchID     string
	DateFrom    *time.Time
	DateTo      *time.Time
	Search      string
	Limit       int
	Offset      int
}

// ListTransactions returns active transactions newest-first, optionally
// filtered. The free-text search covers the note, own note, counterparty and
// merchant columns.
func ListTransactions(db DBTX, f TransactionFilter) ([]models.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE is_active = 1`)
	var args []interface{}

	if f.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, string(f.Status))
	}
	if f.PrijemVydaj != "" {
		sb.WriteString(` AND prijem_vydaj = ?`)
		args = append(args, string(f.PrijemVydaj))
	}
	if f.Kmen != "" {
		sb.WriteString(` AND kmen = ?`)
		args = append(args, string(f.Kmen))
	}
	if f.ProjektID != "" {
		sb.WriteString(` AND projekt_id = ?`)
		args = append(args, f.ProjektID)
	}
	if f.BatchID != "" {
		sb.WriteString(` AND import_batch_id = ?`)
		args = append(args, f.BatchID)
	}
	if f.DateFrom != nil {
		sb.WriteString(` AND datum >= ?`)
		args = append(args, *f.DateFrom)
	}
	if f.DateTo != nil {
		sb.WriteString(` AND datum <= ?`)
		args = append(args, *f.DateTo)
	}
	if f.Search != "" {
		sb.WriteString(` AND (poznamka_zprava LIKE ? OR vlastni_poznamka LIKE ? OR nazev_protiuctu LIKE ? OR nazev_merchanta LIKE ?)`)
		like := "%" + f.Search + "%"
		args = append(args, like, like, like, like)
	}

	sb.WriteString(` ORDER BY datum DESC, created_at DESC`)
	if f.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
		if f.Offset > 0 {
			sb.WriteString(` OFFSET ?`)
			args = append(args, f.Offset)
		}
	}
	return queryTransactions(db, sb.String(), args...)
}

// ListUncategorizedTransactions returns active rows still missing the basic
// categorization (P/V or Druh), the target set of the bulk rule apply.
func ListUncategorizedTransactions(db DBTX) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE is_active = 1 AND (prijem_vydaj = '' OR druh = '')
		ORDER BY datum DESC, created_at DESC`
	return queryTransactions(db, query)
}

// ListRecentTransactions returns the newest active rows, used by the
// rule-test preview.
func ListRecentTransactions(db DBTX, limit int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE is_active = 1
		ORDER BY datum DESC, created_at DESC LIMIT ?`
	return queryTransactions(db, query, limit)
}

// GetTransactionByID fetches a single transaction, active or not.
func GetTransactionByID(db DBTX, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`
	rows, err := db.Query(query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrTransactionNotFound
	}
	return scanTransaction(rows)
}

// ExistingTransactionKeys returns the set of natural keys (id_transakce)
// already present, the dedup snapshot an import runs against. Empty keys are
// never stored in the set.
func ExistingTransactionKeys(db DBTX) (map[string]struct{}, error) {
	rows, err := db.Query(`SELECT id_transakce FROM transactions WHERE id_transakce != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}

// UpdateTransactionCategorization persists the app-owned columns of a
// transaction. Bank columns are deliberately not part of the UPDATE; the
// import is the only writer of those.
func UpdateTransactionCategorization(db DBTX, t *models.Transaction) error {
	t.UpdatedAt = time.Now().UTC()
	query := `UPDATE transactions SET
		status = ?, prijem_vydaj = ?, vlastni_nevlastni = ?, dane = ?,
		druh = ?, detail = ?, kmen = ?,
		mh_pct = ?, sk_pct = ?, xp_pct = ?, fr_pct = ?,
		projekt_id = ?, produkt_id = ?, podskupina_id = ?,
		vlastni_poznamka = ?, is_active = ?,
		updated_at = ?, updated_by = ?
		WHERE id = ?`
	res, err := db.Exec(query,
		string(t.Status), string(t.PrijemVydaj), string(t.VlastniNevlastni), t.Dane,
		t.Druh, t.Detail, string(t.Kmen),
		decimalArg(t.MhPct), decimalArg(t.SkPct), decimalArg(t.XpPct), decimalArg(t.FrPct),
		t.ProjektID, t.ProduktID, t.PodskupinaID,
		t.VlastniPoznamka, t.IsActive,
		t.UpdatedAt, t.UpdatedBy,
		t.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating transaction %s: %w", t.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		logger.L.Warn("RowsAffected unavailable after transaction update", "id", t.ID, "error", err)
		return nil
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
