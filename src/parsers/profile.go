// backend/src/parsers/profile.go
package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/misehero/HeroWizzard-version2/src/models"
)

var (
	ErrUnknownFormat        = errors.New("unrecognized bank CSV format")
	ErrMissingRequiredField = errors.New("missing required field")
)

// Sentinel values in a profile field dictionary. Fields whose canonical name
// starts with "_" are staged for the profile's post-processing hook instead
// of being copied into the row directly.
const fieldSkip = "_skip"

// maxPreludeScan bounds how far past an account-metadata block the detector
// looks for the real transaction header.
const maxPreludeScan = 10

// BankProfile describes one supported bank CSV layout: the header tokens
// that identify it, the header-to-canonical-field dictionary used by the row
// mapper, and whether the bank supplies a transaction id usable as a natural
// key for duplicate suppression.
type BankProfile struct {
	Name string

	// required header tokens; all must be present (case-insensitive) for
	// the profile to claim the file.
	required []string

	// prelude tokens identify an account-metadata block that precedes the
	// real header (Creditas exports). Empty for header-first formats.
	prelude []string

	fields map[string]string

	// hasNaturalKey marks profiles whose rows carry a bank transaction id.
	// Profiles without one never participate in duplicate suppression; that
	// is a documented data-quality gap of those exports, not a defect here.
	hasNaturalKey bool

	postProcess func(mapped, staged map[string]string, headers, row []string)
}

// Profiles is the fixed detection order. The first structural match wins, so
// the more specific layouts come before the generic fallback.
var Profiles = []*BankProfile{creditasProfile, raiffeisenProfile, genericProfile}

func headerSet(header []string) map[string]struct{} {
	set := make(map[string]struct{}, len(header))
	for _, h := range header {
		set[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	return set
}

func (p *BankProfile) matchesHeader(header []string) bool {
	set := headerSet(header)
	for _, token := range p.required {
		if _, ok := set[strings.ToLower(token)]; !ok {
			return false
		}
	}
	return true
}

func (p *BankProfile) matchesPrelude(line []string) bool {
	if len(p.prelude) == 0 {
		return false
	}
	set := headerSet(line)
	for _, token := range p.prelude {
		if _, ok := set[strings.ToLower(token)]; !ok {
			return false
		}
	}
	return true
}

// NaturalKey extracts the duplicate-suppression key for a mapped row. An
// empty string means "no key": the row is exempt from dedup entirely.
func (p *BankProfile) NaturalKey(t *models.Transaction) string {
	if !p.hasNaturalKey {
		return ""
	}
	return t.IDTransakce
}

// DetectProfile classifies a parsed CSV file. It first checks the top row
// against each profile's required tokens in declaration order; if none match
// and the top row looks like a known account-metadata block, it retries
// detection on the following lines. Failure is terminal for the whole file.
func DetectProfile(rows [][]string) (*BankProfile, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%w: empty file", ErrUnknownFormat)
	}
	for _, p := range Profiles {
		if p.matchesHeader(rows[0]) {
			return p, 0, nil
		}
	}
	for _, p := range Profiles {
		if !p.matchesPrelude(rows[0]) {
			continue
		}
		limit := len(rows)
		if limit > maxPreludeScan {
			limit = maxPreludeScan
		}
		for idx := 1; idx < limit; idx++ {
			for _, q := range Profiles {
				if q.matchesHeader(rows[idx]) {
					return q, idx, nil
				}
			}
		}
	}
	return nil, 0, ErrUnknownFormat
}

// MapRow maps one data row to canonical field values using the profile
// dictionary. Unmapped columns are ignored; staged "_" fields are handed to
// the profile's post-processing hook (account joining and the like).
func (p *BankProfile) MapRow(headers []string, row []string) map[string]string {
	mapped := make(map[string]string)
	staged := make(map[string]string)

	for idx, header := range headers {
		if idx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[idx])
		field, ok := p.fields[strings.TrimSpace(header)]
		if !ok || field == fieldSkip {
			continue
		}
		if strings.HasPrefix(field, "_") {
			staged[field] = value
			continue
		}
		if value == "" {
			continue
		}
		mapped[field] = value
	}

	if p.postProcess != nil {
		p.postProcess(mapped, staged, headers, row)
	}
	return mapped
}

// BuildTransaction converts mapped field values to a typed transaction,
// applying the locale parsers to date and amount columns. Date and amount
// are required; their absence (or malformed content) is a row-level error
// for the caller to record, never a batch abort.
func BuildTransaction(fields map[string]string) (*models.Transaction, error) {
	t := &models.Transaction{
		Mena:             "CZK",
		Status:           models.StatusImportovano,
		VlastniNevlastni: models.OwnershipNil,
		IsActive:         true,
	}

	if _, ok := fields["datum"]; !ok {
		return nil, fmt.Errorf("%w: datum", ErrMissingRequiredField)
	}
	if _, ok := fields["castka"]; !ok {
		return nil, fmt.Errorf("%w: castka", ErrMissingRequiredField)
	}

	for field, raw := range fields {
		switch field {
		case "datum":
			d, err := ParseDate(raw, "")
			if err != nil {
				return nil, err
			}
			t.Datum = d
		case "datum_zauctovani":
			d, err := ParseDate(raw, "")
			if err != nil {
				return nil, err
			}
			t.DatumZauctovani = &d
		case "castka":
			a, err := ParseAmount(raw)
			if err != nil {
				return nil, err
			}
			t.Castka = a
		case "puvodni_castka":
			a, err := ParseAmount(raw)
			if err != nil {
				return nil, err
			}
			t.PuvodniCastka = &a
		case "poplatky":
			a, err := ParseAmount(raw)
			if err != nil {
				return nil, err
			}
			t.Poplatky = &a
		case "ucet":
			t.Ucet = raw
		case "typ":
			t.Typ = raw
		case "poznamka_zprava":
			t.PoznamkaZprava = raw
		case "variabilni_symbol":
			t.VariabilniSymbol = raw
		case "cislo_protiuctu":
			t.CisloProtiuctu = raw
		case "nazev_protiuctu":
			t.NazevProtiuctu = raw
		case "typ_transakce":
			t.TypTransakce = raw
		case "konstantni_symbol":
			t.KonstantniSymbol = raw
		case "specificky_symbol":
			t.SpecifickySymbol = raw
		case "puvodni_mena":
			t.PuvodniMena = raw
		case "id_transakce":
			t.IDTransakce = raw
		case "vlastni_poznamka":
			t.VlastniPoznamka = raw
		case "nazev_merchanta":
			t.NazevMerchanta = raw
		case "mesto":
			t.Mesto = raw
		case "mena":
			t.Mena = raw
		case "banka_protiuctu":
			t.BankaProtiuctu = raw
		case "reference":
			t.Reference = raw
		}
	}
	return t, nil
}

// ReadAllRows parses CSV content into rows. Bank exports have ragged rows,
// so no fixed field count is enforced.
func ReadAllRows(content string, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}
	return rows, nil
}

// IsBlankRow reports whether every cell of the row is empty or whitespace.
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
