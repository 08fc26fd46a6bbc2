// backend/src/models/rule.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchType selects the rule tier. Tiers are evaluated strictly in the order
// protiucet, merchant, keyword; the first tier that yields a match wins.
type MatchType string

const (
	MatchProtiucet MatchType = "protiucet"
	MatchMerchant  MatchType = "merchant"
	MatchKeyword   MatchType = "keyword"
)

// MatchTypeOrder is the fixed tier evaluation order.
var MatchTypeOrder = []MatchType{MatchProtiucet, MatchMerchant, MatchKeyword}

// MatchMode selects how MatchValue is compared with the tier's source text.
type MatchMode string

const (
	ModeExact    MatchMode = "exact"
	ModeContains MatchMode = "contains"
	ModeRegex    MatchMode = "regex"
)

// RuleAssignments is the sparse set of categorization fields a rule writes on
// match. Zero values ("" / nil) mean "leave the field alone".
type RuleAssignments struct {
	PrijemVydaj      PrijemVydaj      `json:"set_prijem_vydaj,omitempty"`
	VlastniNevlastni VlastniNevlastni `json:"set_vlastni_nevlastni,omitempty"`
	Dane             *bool            `json:"set_dane,omitempty"`
	Druh             string           `json:"set_druh,omitempty"`
	Detail           string           `json:"set_detail,omitempty"`
	Kmen             Kmen             `json:"set_kmen,omitempty"`
	MhPct            *decimal.Decimal `json:"set_mh_pct,omitempty"`
	SkPct            *decimal.Decimal `json:"set_sk_pct,omitempty"`
	XpPct            *decimal.Decimal `json:"set_xp_pct,omitempty"`
	FrPct            *decimal.Decimal `json:"set_fr_pct,omitempty"`
	ProjektID        string           `json:"set_projekt_id,omitempty"`
	ProduktID        string           `json:"set_produkt_id,omitempty"`
	PodskupinaID     string           `json:"set_podskupina_id,omitempty"`
}

// IsEmpty reports whether the rule assigns nothing at all.
func (a RuleAssignments) IsEmpty() bool {
	return a.PrijemVydaj == "" && a.VlastniNevlastni == "" && a.Dane == nil &&
		a.Druh == "" && a.Detail == "" && a.Kmen == "" &&
		a.MhPct == nil && a.SkPct == nil && a.XpPct == nil && a.FrPct == nil &&
		a.ProjektID == "" && a.ProduktID == "" && a.PodskupinaID == ""
}

// CategoryRule is one auto-categorization rule: a predicate (type, mode,
// value, case sensitivity) plus the assignments applied on match. Lower
// priority numbers are evaluated first within a tier.
type CategoryRule struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	MatchType     MatchType       `json:"match_type"`
	MatchMode     MatchMode       `json:"match_mode"`
	MatchValue    string          `json:"match_value"`
	CaseSensitive bool            `json:"case_sensitive"`
	Priority      int             `json:"priority"`
	Assign        RuleAssignments `json:"assign"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CreatedBy     string          `json:"created_by"`
}

// ApplyTo writes the rule's non-empty assignments onto the transaction.
// Fields the rule does not set keep their current value.
func (r *CategoryRule) ApplyTo(t *Transaction) {
	a := r.Assign
	if a.PrijemVydaj != "" {
		t.PrijemVydaj = a.PrijemVydaj
	}
	if a.VlastniNevlastni != "" {
		t.VlastniNevlastni = a.VlastniNevlastni
	}
	if a.Dane != nil {
		t.Dane = *a.Dane
	}
	if a.Druh != "" {
		t.Druh = a.Druh
	}
	if a.Detail != "" {
		t.Detail = a.Detail
	}
	if a.Kmen != "" {
		t.Kmen = a.Kmen
	}
	if a.MhPct != nil {
		t.MhPct = *a.MhPct
	}
	if a.SkPct != nil {
		t.SkPct = *a.SkPct
	}
	if a.XpPct != nil {
		t.XpPct = *a.XpPct
	}
	if a.FrPct != nil {
		t.FrPct = *a.FrPct
	}
	if a.ProjektID != "" {
		t.ProjektID = a.ProjektID
	}
	if a.ProduktID != "" {
		t.ProduktID = a.ProduktID
	}
	if a.PodskupinaID != "" {
		t.PodskupinaID = a.PodskupinaID
	}
}
