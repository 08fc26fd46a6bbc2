package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDokladDate(t *testing.T) {
	t.Run("US-style date", func(t *testing.T) {
		got, err := parseIDokladDate("03/15/2024")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("ambiguous date resolves as month first", func(t *testing.T) {
		got, err := parseIDokladDate("01/02/2024")
		require.NoError(t, err)
		assert.Equal(t, time.January, got.Month())
		assert.Equal(t, 2, got.Day())
	})

	t.Run("czech date fallback", func(t *testing.T) {
		got, err := parseIDokladDate("15.03.2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("iso fallback", func(t *testing.T) {
		got, err := parseIDokladDate("2024-03-15")
		require.NoError(t, err)
		assert.Equal(t, time.March, got.Month())
	})

	t.Run("empty means absent", func(t *testing.T) {
		got, err := parseIDokladDate("  ")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("garbage is an error", func(t *testing.T) {
		_, err := parseIDokladDate("soon")
		assert.Error(t, err)
	})
}

func TestParseIDokladBool(t *testing.T) {
	assert.True(t, parseIDokladBool("Ano"))
	assert.True(t, parseIDokladBool("ano "))
	assert.False(t, parseIDokladBool("Ne"))
	assert.False(t, parseIDokladBool(""))
}

func TestBuildInvoice(t *testing.T) {
	t.Run("complete row", func(t *testing.T) {
		inv, err := buildInvoice(map[string]string{
			"cislo_dokladu":     "20240042",
			"popis":             "Konzultace",
			"nazev_jmeno":       "Klient s.r.o.",
			"ic":                "12345678",
			"vystaveno":         "03/15/2024",
			"splatnost":         "03/29/2024",
			"celkem_s_dph":      "12 100,00",
			"celkem_bez_dph":    "10 000,00",
			"dph":               "2 100,00",
			"mena":              "CZK",
			"stav_uhrady":       "Uhrazeno",
			"uhrazena_castka":   "12 100,00",
			"variabilni_symbol": "20240042",
			"exportovano":       "Ano",
			"odeslano_uctovnemu": "Ne",
		})
		require.NoError(t, err)
		assert.Equal(t, "20240042", inv.CisloDokladu)
		assert.Equal(t, "Klient s.r.o.", inv.NazevJmeno)
		require.NotNil(t, inv.Vystaveno)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *inv.Vystaveno)
		require.NotNil(t, inv.CelkemSDph)
		assert.Equal(t, "12100", inv.CelkemSDph.String())
		assert.True(t, inv.Exportovano)
		assert.False(t, inv.OdeslanoUctovnemu)
	})

	t.Run("invoice number is required", func(t *testing.T) {
		_, err := buildInvoice(map[string]string{"popis": "bez cisla"})
		assert.Error(t, err)
	})

	t.Run("currency defaults to CZK", func(t *testing.T) {
		inv, err := buildInvoice(map[string]string{"cislo_dokladu": "1"})
		require.NoError(t, err)
		assert.Equal(t, "CZK", inv.Mena)
	})

	t.Run("absent optional amounts stay nil", func(t *testing.T) {
		inv, err := buildInvoice(map[string]string{"cislo_dokladu": "1"})
		require.NoError(t, err)
		assert.Nil(t, inv.CelkemSDph)
		assert.Nil(t, inv.DatumPlatby)
	})

	t.Run("malformed amount is a row error", func(t *testing.T) {
		_, err := buildInvoice(map[string]string{"cislo_dokladu": "1", "dph": "n/a"})
		assert.Error(t, err)
	})
}
