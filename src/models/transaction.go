// backend/src/models/transaction.go
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the workflow state of a transaction.
type Status string

const (
	StatusImportovano Status = "importovano"
	StatusZpracovano  Status = "zpracovano"
	StatusSchvaleno   Status = "schvaleno"
	StatusUpraveno    Status = "upraveno"
	StatusChyba       Status = "chyba"
)

// PrijemVydaj marks a transaction as income ("P") or expense ("V").
type PrijemVydaj string

const (
	Prijem PrijemVydaj = "P"
	Vydaj  PrijemVydaj = "V"
)

// VlastniNevlastni is the ownership flag.
type VlastniNevlastni string

const (
	Vlastni      VlastniNevlastni = "V"
	Nevlastni    VlastniNevlastni = "N"
	OwnershipNil VlastniNevlastni = "-"
)

// Kmen is one of the four cost-bearing tribes.
type Kmen string

const (
	KmenMH Kmen = "MH"
	KmenSK Kmen = "SK"
	KmenXP Kmen = "XP"
	KmenFR Kmen = "FR"
)

var (
	ErrInvalidKmenSplit   = errors.New("kmen percentages must sum to exactly 0 or 100")
	ErrPrijemVydajSign    = errors.New("P/V flag disagrees with amount sign")
	ErrInvalidPercentage  = errors.New("percentage must be between 0 and 100")
	ErrMissingDatum       = errors.New("datum is required")
	ErrMissingCastka      = errors.New("castka is required")
)

// Transaction is the canonical representation of one imported bank-statement
// line: 22 bank columns filled once by the import pipeline and never mutated
// afterwards, plus 14 app columns owned by rules and users.
type Transaction struct {
	ID uuid.UUID `json:"id"`

	// --- Bank columns (write-once at import) ---
	Datum            time.Time        `json:"datum"`
	Ucet             string           `json:"ucet"`
	Typ              string           `json:"typ"`
	PoznamkaZprava   string           `json:"poznamka_zprava"`
	VariabilniSymbol string           `json:"variabilni_symbol"`
	Castka           decimal.Decimal  `json:"castka"`
	DatumZauctovani  *time.Time       `json:"datum_zauctovani,omitempty"`
	CisloProtiuctu   string           `json:"cislo_protiuctu"`
	NazevProtiuctu   string           `json:"nazev_protiuctu"`
	TypTransakce     string           `json:"typ_transakce"`
	KonstantniSymbol string           `json:"konstantni_symbol"`
	SpecifickySymbol string           `json:"specificky_symbol"`
	PuvodniCastka    *decimal.Decimal `json:"puvodni_castka,omitempty"`
	PuvodniMena      string           `json:"puvodni_mena"`
	Poplatky         *decimal.Decimal `json:"poplatky,omitempty"`
	IDTransakce      string           `json:"id_transakce"`
	VlastniPoznamka  string           `json:"vlastni_poznamka"`
	NazevMerchanta   string           `json:"nazev_merchanta"`
	Mesto            string           `json:"mesto"`
	Mena             string           `json:"mena"`
	BankaProtiuctu   string           `json:"banka_protiuctu"`
	Reference        string           `json:"reference"`

	// --- App columns (rules or users, never the parser) ---
	Status           Status           `json:"status"`
	PrijemVydaj      PrijemVydaj      `json:"prijem_vydaj"`
	VlastniNevlastni VlastniNevlastni `json:"vlastni_nevlastni"`
	Dane             bool             `json:"dane"`
	Druh             string           `json:"druh"`
	Detail           string           `json:"detail"`
	Kmen             Kmen             `json:"kmen"`
	MhPct            decimal.Decimal  `json:"mh_pct"`
	SkPct            decimal.Decimal  `json:"sk_pct"`
	XpPct            decimal.Decimal  `json:"xp_pct"`
	FrPct            decimal.Decimal  `json:"fr_pct"`
	ProjektID        string           `json:"projekt_id"`
	ProduktID        string           `json:"produkt_id"`
	PodskupinaID     string           `json:"podskupina_id"`

	IsActive      bool      `json:"is_active"`
	ImportBatchID uuid.UUID `json:"import_batch_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by"`
	UpdatedBy     string    `json:"updated_by"`
}

// Validate enforces the invariants that guard every persisted transaction:
// each tribe percentage in [0,100], the four summing to exactly 0 or exactly
// 100, and the P/V flag (when set) agreeing with the sign of the amount.
// Violations are reported, never silently corrected.
func (t *Transaction) Validate() error {
	hundred := decimal.NewFromInt(100)
	for _, pct := range []decimal.Decimal{t.MhPct, t.SkPct, t.XpPct, t.FrPct} {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("%w: got %s", ErrInvalidPercentage, pct)
		}
	}
	sum := t.MhPct.Add(t.SkPct).Add(t.XpPct).Add(t.FrPct)
	if !sum.IsZero() && !sum.Equal(hundred) {
		return fmt.Errorf("%w: sum is %s", ErrInvalidKmenSplit, sum)
	}

	if t.PrijemVydaj == Prijem && t.Castka.IsNegative() {
		return fmt.Errorf("%w: negative amount marked as prijem", ErrPrijemVydajSign)
	}
	if t.PrijemVydaj == Vydaj && t.Castka.IsPositive() {
		return fmt.Errorf("%w: positive amount marked as vydaj", ErrPrijemVydajSign)
	}
	return nil
}

// DerivePrijemVydaj fills the P/V flag from the amount sign when no rule or
// user has set it. An explicit value is never overridden, even one that
// disagrees with the sign; that conflict belongs to Validate.
func (t *Transaction) DerivePrijemVydaj() {
	if t.PrijemVydaj != "" || t.Castka.IsZero() {
		return
	}
	if t.Castka.IsPositive() {
		t.PrijemVydaj = Prijem
	} else {
		t.PrijemVydaj = Vydaj
	}
}

// KeywordSearchText is the source text the keyword rule tier matches against:
// bank message, own note and counterparty name joined with spaces.
func (t *Transaction) KeywordSearchText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{t.PoznamkaZprava, t.VlastniPoznamka, t.NazevProtiuctu} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// IsCategorized reports whether the basic categorization has been assigned.
func (t *Transaction) IsCategorized() bool {
	return t.PrijemVydaj != "" && t.Druh != ""
}

// KmenSplitAssigned reports whether the tribe split adds up to a full 100%.
func (t *Transaction) KmenSplitAssigned() bool {
	return t.MhPct.Add(t.SkPct).Add(t.XpPct).Add(t.FrPct).Equal(decimal.NewFromInt(100))
}
