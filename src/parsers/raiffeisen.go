// backend/src/parsers/raiffeisen.go
package parsers

import "strings"

// Header that appears twice in Raiffeisen exports: the first occurrence is
// the original amount, the second the original currency.
const raiffeisenDupHeader = "Původní částka a měna"

// raiffeisenProfile covers Raiffeisen Bank exports. Quirks: dates come as
// "DD.MM.YYYY HH:MM", the original-amount column name is duplicated, and a
// second own-note column only applies when the first one is empty.
var raiffeisenProfile = &BankProfile{
	Name:          "raiffeisen",
	required:      []string{"Datum provedení", "Zaúčtovaná částka", "Název obchodníka"},
	hasNaturalKey: true,
	fields: map[string]string{
		"Datum provedení":     "datum",
		"Datum zaúčtování":    "datum_zauctovani",
		"Číslo účtu":          "ucet",
		"Název účtu":          fieldSkip,
		"Kategorie transakce": "typ",
		"Číslo protiúčtu":     "cislo_protiuctu",
		"Název protiúčtu":     "nazev_protiuctu",
		"Typ transakce":       "typ_transakce",
		"Zpráva":              "poznamka_zprava",
		"Poznámka":            "vlastni_poznamka",
		"VS":                  "variabilni_symbol",
		"KS":                  "konstantni_symbol",
		"SS":                  "specificky_symbol",
		"Zaúčtovaná částka":   "castka",
		"Měna účtu":           "mena",
		"Poplatek":            "poplatky",
		"Id transakce":        "id_transakce",
		"Vlastní poznámka":    "_vlastni_poznamka_override",
		"Název obchodníka":    "nazev_merchanta",
		"Město":               "mesto",
	},
	postProcess: raiffeisenPostProcess,
}

func raiffeisenPostProcess(mapped, staged map[string]string, headers, row []string) {
	// The duplicated original-amount header has to be resolved positionally.
	var dupIdx []int
	for idx, header := range headers {
		if strings.TrimSpace(header) == raiffeisenDupHeader {
			dupIdx = append(dupIdx, idx)
		}
	}
	if len(dupIdx) >= 2 {
		if dupIdx[0] < len(row) {
			if v := strings.TrimSpace(row[dupIdx[0]]); v != "" {
				mapped["puvodni_castka"] = v
			}
		}
		if dupIdx[1] < len(row) {
			if v := strings.TrimSpace(row[dupIdx[1]]); v != "" {
				mapped["puvodni_mena"] = v
			}
		}
	}

	// "Vlastní poznámka" only fills the own note when "Poznámka" left it empty.
	if override := staged["_vlastni_poznamka_override"]; override != "" && mapped["vlastni_poznamka"] == "" {
		mapped["vlastni_poznamka"] = override
	}
}
