// backend/src/models/invoice.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IDokladInvoice is one invoice row from an iDoklad accounting export.
// Invoices live next to bank transactions and are matched to them later via
// the variable symbol; the import only stores them, deduplicated by document
// number.
type IDokladInvoice struct {
	ID uuid.UUID `json:"id"`

	CisloDokladu    string `json:"cislo_dokladu"`
	Popis           string `json:"popis"`
	CisloObjednavky string `json:"cislo_objednavky"`
	Rada            string `json:"rada"`

	NazevJmeno string `json:"nazev_jmeno"`
	IC         string `json:"ic"`
	DicIcDph   string `json:"dic_ic_dph"`
	DicSk      string `json:"dic_sk"`

	Vystaveno   *time.Time `json:"vystaveno,omitempty"`
	Splatnost   *time.Time `json:"splatnost,omitempty"`
	Duzp        *time.Time `json:"duzp,omitempty"`
	DatumPlatby *time.Time `json:"datum_platby,omitempty"`

	CelkemSDph   *decimal.Decimal `json:"celkem_s_dph,omitempty"`
	CelkemBezDph *decimal.Decimal `json:"celkem_bez_dph,omitempty"`
	Dph          *decimal.Decimal `json:"dph,omitempty"`
	Mena         string           `json:"mena"`

	StavUhrady      string           `json:"stav_uhrady"`
	UhrazenaCastka  *decimal.Decimal `json:"uhrazena_castka,omitempty"`
	VariabilniSymbol string          `json:"variabilni_symbol"`

	Exportovano       bool   `json:"exportovano"`
	OdeslanoOdberateli string `json:"odeslano_odberateli"`
	OdeslanoUctovnemu bool   `json:"odeslano_uctovnemu"`

	ImportBatchID uuid.UUID `json:"import_batch_id"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
}
