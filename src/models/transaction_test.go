package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func pct(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestTransactionValidateKmenSplit(t *testing.T) {
	tests := []struct {
		name    string
		mh, sk  int64
		xp, fr  int64
		wantErr error
	}{
		{name: "all zero is valid", mh: 0, sk: 0, xp: 0, fr: 0},
		{name: "even split to 100", mh: 25, sk: 25, xp: 25, fr: 25},
		{name: "two-way split to 100", mh: 50, sk: 50, xp: 0, fr: 0},
		{name: "single tribe takes all", mh: 100, sk: 0, xp: 0, fr: 0},
		{name: "partial sum rejected", mh: 10, sk: 10, xp: 10, fr: 10, wantErr: ErrInvalidKmenSplit},
		{name: "oversum rejected", mh: 60, sk: 60, xp: 0, fr: 0, wantErr: ErrInvalidKmenSplit},
		{name: "single percentage over 100", mh: 150, sk: 0, xp: 0, fr: 0, wantErr: ErrInvalidPercentage},
		{name: "negative percentage", mh: -10, sk: 110, xp: 0, fr: 0, wantErr: ErrInvalidPercentage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{MhPct: pct(tt.mh), SkPct: pct(tt.sk), XpPct: pct(tt.xp), FrPct: pct(tt.fr)}
			err := tx.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionValidateSignAgreement(t *testing.T) {
	t.Run("prijem with negative amount rejected", func(t *testing.T) {
		tx := Transaction{PrijemVydaj: Prijem, Castka: decimal.NewFromInt(-100)}
		assert.ErrorIs(t, tx.Validate(), ErrPrijemVydajSign)
	})

	t.Run("vydaj with positive amount rejected", func(t *testing.T) {
		tx := Transaction{PrijemVydaj: Vydaj, Castka: decimal.NewFromInt(100)}
		assert.ErrorIs(t, tx.Validate(), ErrPrijemVydajSign)
	})

	t.Run("matching signs pass", func(t *testing.T) {
		tx := Transaction{PrijemVydaj: Vydaj, Castka: decimal.NewFromInt(-100)}
		assert.NoError(t, tx.Validate())
		tx = Transaction{PrijemVydaj: Prijem, Castka: decimal.NewFromInt(100)}
		assert.NoError(t, tx.Validate())
	})

	t.Run("zero amount allowed with either flag", func(t *testing.T) {
		tx := Transaction{PrijemVydaj: Vydaj}
		assert.NoError(t, tx.Validate())
		tx = Transaction{PrijemVydaj: Prijem}
		assert.NoError(t, tx.Validate())
	})

	t.Run("unset flag skips the sign check", func(t *testing.T) {
		tx := Transaction{Castka: decimal.NewFromInt(-100)}
		assert.NoError(t, tx.Validate())
	})
}

func TestDerivePrijemVydaj(t *testing.T) {
	t.Run("positive derives prijem", func(t *testing.T) {
		tx := Transaction{Castka: decimal.NewFromInt(500)}
		tx.DerivePrijemVydaj()
		assert.Equal(t, Prijem, tx.PrijemVydaj)
	})

	t.Run("negative derives vydaj", func(t *testing.T) {
		tx := Transaction{Castka: decimal.NewFromInt(-500)}
		tx.DerivePrijemVydaj()
		assert.Equal(t, Vydaj, tx.PrijemVydaj)
	})

	t.Run("zero amount is a no-op", func(t *testing.T) {
		tx := Transaction{}
		tx.DerivePrijemVydaj()
		assert.Equal(t, PrijemVydaj(""), tx.PrijemVydaj)
	})

	t.Run("explicit value never overridden", func(t *testing.T) {
		tx := Transaction{PrijemVydaj: Prijem, Castka: decimal.NewFromInt(-500)}
		tx.DerivePrijemVydaj()
		assert.Equal(t, Prijem, tx.PrijemVydaj)
	})
}

func TestKeywordSearchText(t *testing.T) {
	tx := Transaction{PoznamkaZprava: "najem", VlastniPoznamka: "brezen", NazevProtiuctu: "Pronajimatel"}
	assert.Equal(t, "najem brezen Pronajimatel", tx.KeywordSearchText())

	tx = Transaction{VlastniPoznamka: "brezen"}
	assert.Equal(t, "brezen", tx.KeywordSearchText())

	tx = Transaction{}
	assert.Equal(t, "", tx.KeywordSearchText())
}

func TestKmenSplitAssigned(t *testing.T) {
	tx := Transaction{MhPct: pct(100)}
	assert.True(t, tx.KmenSplitAssigned())

	tx = Transaction{MhPct: pct(50), SkPct: pct(50)}
	assert.True(t, tx.KmenSplitAssigned())

	tx = Transaction{}
	assert.False(t, tx.KmenSplitAssigned())

	tx = Transaction{MhPct: pct(50)}
	assert.False(t, tx.KmenSplitAssigned())
}
