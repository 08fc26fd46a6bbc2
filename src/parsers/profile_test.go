package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProfile(t *testing.T) {
	t.Run("generic header on first row", func(t *testing.T) {
		rows := [][]string{
			{"Datum", "Účet", "Typ", "Poznámka/Zpráva", "VS", "Částka"},
			{"15.03.2024", "123/0100", "Platba", "nájem", "2024", "-15 000,00"},
		}
		p, headerIdx, err := DetectProfile(rows)
		require.NoError(t, err)
		assert.Equal(t, "generic", p.Name)
		assert.Equal(t, 0, headerIdx)
	})

	t.Run("raiffeisen wins over generic", func(t *testing.T) {
		rows := [][]string{
			{"Datum provedení", "Datum zaúčtování", "Číslo účtu", "Zaúčtovaná částka", "Název obchodníka", "Id transakce"},
		}
		p, headerIdx, err := DetectProfile(rows)
		require.NoError(t, err)
		assert.Equal(t, "raiffeisen", p.Name)
		assert.Equal(t, 0, headerIdx)
	})

	t.Run("creditas header found after prelude block", func(t *testing.T) {
		rows := [][]string{
			{"Typ účtu", "Číslo účtu", "IBAN", "BIC"},
			{"Běžný účet", "123456789", "CZ6520100000000123456789", "CTASCZ22"},
			{""},
			{"Můj účet", "Datum zaúčtování", "Protiúčet", "Platba/Vklad", "Částka", "Měna"},
		}
		p, headerIdx, err := DetectProfile(rows)
		require.NoError(t, err)
		assert.Equal(t, "creditas", p.Name)
		assert.Equal(t, 3, headerIdx)
	})

	t.Run("unknown format", func(t *testing.T) {
		rows := [][]string{
			{"Date", "Amount", "Description"},
			{"2024-03-15", "100.00", "groceries"},
		}
		_, _, err := DetectProfile(rows)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("empty file", func(t *testing.T) {
		_, _, err := DetectProfile(nil)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("header match is case-insensitive", func(t *testing.T) {
		rows := [][]string{{"DATUM", "ČÁSTKA"}}
		p, _, err := DetectProfile(rows)
		require.NoError(t, err)
		assert.Equal(t, "generic", p.Name)
	})
}

func TestGenericProfileMapRow(t *testing.T) {
	headers := []string{"Datum", "Účet", "Typ", "Poznámka/Zpráva", "VS", "Částka", "Id transakce"}
	row := []string{"15.03.2024", "123456789/0100", "Odchozí platba", "nájem březen", "2024", "-15 000,00", "TX-001"}

	fields := genericProfile.MapRow(headers, row)
	tx, err := BuildTransaction(fields)
	require.NoError(t, err)

	assert.Equal(t, "123456789/0100", tx.Ucet)
	assert.Equal(t, "Odchozí platba", tx.Typ)
	assert.Equal(t, "nájem březen", tx.PoznamkaZprava)
	assert.Equal(t, "2024", tx.VariabilniSymbol)
	assert.Equal(t, "TX-001", tx.IDTransakce)
	assert.Equal(t, "-15000", tx.Castka.String())
	assert.Equal(t, "TX-001", genericProfile.NaturalKey(tx))
}

func TestRaiffeisenDuplicateAmountHeader(t *testing.T) {
	headers := []string{
		"Datum provedení", "Zaúčtovaná částka", "Měna účtu",
		"Původní částka a měna", "Původní částka a měna",
		"Název obchodníka", "Id transakce",
	}
	row := []string{"15.03.2024 10:05", "-250,00", "CZK", "-10,00", "EUR", "AMAZON", "RB-42"}

	fields := raiffeisenProfile.MapRow(headers, row)
	tx, err := BuildTransaction(fields)
	require.NoError(t, err)

	require.NotNil(t, tx.PuvodniCastka)
	assert.Equal(t, "-10", tx.PuvodniCastka.String())
	assert.Equal(t, "EUR", tx.PuvodniMena)
	assert.Equal(t, "AMAZON", tx.NazevMerchanta)
	assert.Equal(t, "RB-42", raiffeisenProfile.NaturalKey(tx))
}

func TestRaiffeisenOwnNoteOverride(t *testing.T) {
	headers := []string{"Datum provedení", "Zaúčtovaná částka", "Poznámka", "Vlastní poznámka", "Název obchodníka"}

	t.Run("override fills empty note", func(t *testing.T) {
		row := []string{"15.03.2024", "-100,00", "", "ze spořicího", "TESCO"}
		fields := raiffeisenProfile.MapRow(headers, row)
		assert.Equal(t, "ze spořicího", fields["vlastni_poznamka"])
	})

	t.Run("existing note wins", func(t *testing.T) {
		row := []string{"15.03.2024", "-100,00", "původní", "ze spořicího", "TESCO"}
		fields := raiffeisenProfile.MapRow(headers, row)
		assert.Equal(t, "původní", fields["vlastni_poznamka"])
	})
}

func TestCreditasAccountJoining(t *testing.T) {
	headers := []string{
		"Můj účet", "Můj účet-banka", "Datum zaúčtování", "Datum provedení",
		"Protiúčet", "Protiúčet-banka", "Název protiúčtu", "Platba/Vklad", "Částka", "Měna",
	}
	row := []string{"111222333", "2250", "14.03.2024", "", "444555666", "0100", "Dodavatel s.r.o.", "Platba", "-1 200,00", "CZK"}

	fields := creditasProfile.MapRow(headers, row)
	tx, err := BuildTransaction(fields)
	require.NoError(t, err)

	assert.Equal(t, "111222333/2250", tx.Ucet)
	assert.Equal(t, "444555666/0100", tx.CisloProtiuctu)
	assert.Equal(t, "0100", tx.BankaProtiuctu)
	// Empty "Datum provedení" falls back to the booking date.
	assert.Equal(t, "2024-03-14", tx.Datum.Format("2006-01-02"))
	require.NotNil(t, tx.DatumZauctovani)

	// No bank transaction id in the export, so no dedup key.
	assert.Equal(t, "", creditasProfile.NaturalKey(tx))
}

func TestBuildTransactionRequiredFields(t *testing.T) {
	t.Run("missing date", func(t *testing.T) {
		_, err := BuildTransaction(map[string]string{"castka": "100,00"})
		assert.ErrorIs(t, err, ErrMissingRequiredField)
	})

	t.Run("missing amount", func(t *testing.T) {
		_, err := BuildTransaction(map[string]string{"datum": "15.03.2024"})
		assert.ErrorIs(t, err, ErrMissingRequiredField)
	})

	t.Run("malformed amount is a row error", func(t *testing.T) {
		_, err := BuildTransaction(map[string]string{"datum": "15.03.2024", "castka": "n/a"})
		assert.ErrorIs(t, err, ErrMalformedNumber)
	})

	t.Run("defaults", func(t *testing.T) {
		tx, err := BuildTransaction(map[string]string{"datum": "15.03.2024", "castka": "100,00"})
		require.NoError(t, err)
		assert.Equal(t, "CZK", tx.Mena)
		assert.True(t, tx.IsActive)
	})
}

func TestReadAllRowsRaggedRows(t *testing.T) {
	content := "Datum;Částka\n15.03.2024;100,00;extra\n16.03.2024;200,00\n"
	rows, err := ReadAllRows(content, ';')
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 3)
	assert.Len(t, rows[2], 2)
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, IsBlankRow([]string{"", "  ", "\t"}))
	assert.True(t, IsBlankRow(nil))
	assert.False(t, IsBlankRow([]string{"", "x"}))
}
