// backend/src/parsers/generic.go
package parsers

// genericProfile covers the common Czech bank export layout: transaction
// header on the first line, one visible block of six columns and a hidden
// block of sixteen. Several header tokens have short and long spellings
// depending on the export dialog used.
var genericProfile = &BankProfile{
	Name:          "generic",
	required:      []string{"Datum", "Částka"},
	hasNaturalKey: true,
	fields: map[string]string{
		"Datum":             "datum",
		"Účet":              "ucet",
		"Typ":               "typ",
		"Poznámka/Zpráva":   "poznamka_zprava",
		"Poznámka/zpráva":   "poznamka_zprava",
		"VS":                "variabilni_symbol",
		"Variabilní symbol": "variabilni_symbol",
		"Částka":            "castka",

		"Datum zaúčtování": "datum_zauctovani",
		"Číslo protiúčtu":  "cislo_protiuctu",
		"Název protiúčtu":  "nazev_protiuctu",
		"Typ transakce":    "typ_transakce",
		"KS":               "konstantni_symbol",
		"Konstantní symbol": "konstantni_symbol",
		"SS":                "specificky_symbol",
		"Specifický symbol": "specificky_symbol",
		"Původní částka":    "puvodni_castka",
		"Původní měna":      "puvodni_mena",
		"Poplatky":          "poplatky",
		"Id transakce":      "id_transakce",
		"ID transakce":      "id_transakce",
		"Vlastní poznámka":  "vlastni_poznamka",
		"Název merchanta":   "nazev_merchanta",
		"Město":             "mesto",
		"Měna":              "mena",
		"Banka protiúčtu":   "banka_protiuctu",
		"Reference":         "reference",
	},
}
