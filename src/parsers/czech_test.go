package parsers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "thousands space and decimal comma", raw: "1 234,56", want: "1234.56"},
		{name: "non-breaking space separator", raw: "1 234,56", want: "1234.56"},
		{name: "single decimal digit", raw: "1234,5", want: "1234.5"},
		{name: "negative amount", raw: "-2 500,00", want: "-2500"},
		{name: "explicit plus sign", raw: "+100,00", want: "100"},
		{name: "plain integer", raw: "42", want: "42"},
		{name: "quoted value", raw: "\"1 000,00\"", want: "1000"},
		{name: "dot already decimal", raw: "15.50", want: "15.5"},
		{name: "letters", raw: "abc", wantErr: true},
		{name: "currency suffix", raw: "100 Kč", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedNumber)
				return
			}
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, want.Equal(got), "want %s got %s", want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		hint    string
		want    time.Time
		wantErr bool
	}{
		{name: "czech date", raw: "15.03.2024", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "datetime variant drops time", raw: "15.03.2024 14:32", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "slash variant", raw: "15/03/2024", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "iso date", raw: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding whitespace", raw: "  15.03.2024 ", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "impossible calendar date", raw: "31.04.2024", wantErr: true},
		{name: "hint narrows accepted layouts", raw: "15.03.2024", hint: "2006-01-02", wantErr: true},
		{name: "hint matching layout", raw: "2024-03-15", hint: "2006-01-02", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", raw: "not a date", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw, tt.hint)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}
