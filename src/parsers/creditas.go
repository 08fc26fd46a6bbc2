// backend/src/parsers/creditas.go
package parsers

// creditasProfile covers Creditas exports. The file starts with a three-row
// account-metadata block (headers, values, blank separator); the detector
// recognizes the block by its signature tokens and finds the transaction
// header on a later line. Account number and bank code arrive in separate
// columns and are joined into the "account/bank" form used everywhere else.
//
// Creditas supplies no bank transaction id, so this profile has no natural
// key: re-importing the same file duplicates its rows. Known gap of the
// export format.
//
// "Datum provedení" is consistently empty in these files; "Datum zaúčtování"
// is used as the fallback for the required date.
var creditasProfile = &BankProfile{
	Name:          "creditas",
	required:      []string{"Částka", "Protiúčet", "Platba/Vklad"},
	prelude:       []string{"Typ účtu", "IBAN", "BIC"},
	hasNaturalKey: false,
	fields: map[string]string{
		"Můj účet":              "_ucet",
		"Můj účet-banka":        "_ucet_banka",
		"Název mého účtu":       fieldSkip,
		"Datum zaúčtování":      "datum_zauctovani",
		"Datum provedení":       "datum",
		"Protiúčet":             "_protiucet",
		"Protiúčet-banka":       "_protiucet_banka",
		"Název protiúčtu":       "nazev_protiuctu",
		"Kód transakce":         "typ",
		"VS":                    "variabilni_symbol",
		"SS":                    "specificky_symbol",
		"KS":                    "konstantni_symbol",
		"E2E":                   "reference",
		"Zpráva pro protistranu": "poznamka_zprava",
		"Poznámka":              "vlastni_poznamka",
		"Platba/Vklad":          fieldSkip,
		"Částka":                "castka",
		"Měna":                  "mena",
		"Kategorie":             fieldSkip,
	},
	postProcess: creditasPostProcess,
}

func creditasPostProcess(mapped, staged map[string]string, headers, row []string) {
	ucet := staged["_ucet"]
	ucetBanka := staged["_ucet_banka"]
	switch {
	case ucet != "" && ucetBanka != "":
		mapped["ucet"] = ucet + "/" + ucetBanka
	case ucet != "":
		mapped["ucet"] = ucet
	}

	protiucet := staged["_protiucet"]
	protiucetBanka := staged["_protiucet_banka"]
	if protiucet != "" {
		if protiucetBanka != "" {
			mapped["cislo_protiuctu"] = protiucet + "/" + protiucetBanka
		} else {
			mapped["cislo_protiuctu"] = protiucet
		}
	}
	if protiucetBanka != "" {
		mapped["banka_protiuctu"] = protiucetBanka
	}

	if mapped["datum"] == "" && mapped["datum_zauctovani"] != "" {
		mapped["datum"] = mapped["datum_zauctovani"]
	}
}
