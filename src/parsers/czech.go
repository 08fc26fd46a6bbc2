// backend/src/parsers/czech.go
package parsers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedNumber = errors.New("malformed number")
	ErrMalformedDate   = errors.New("malformed date")
)

// amountPattern accepts what is left of a Czech amount after separator
// cleanup: an optional sign, digits, optional decimal part.
var amountPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// dateLayouts are tried in order. Bank exports mix plain dates with the
// Raiffeisen datetime variant; the time component is discarded.
var dateLayouts = []string{
	"02.01.2006",
	"02.01.2006 15:04",
	"02/01/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseAmount converts a Czech-formatted amount string ("1 234,56", with a
// regular or non-breaking space as thousands separator and a decimal comma)
// into a decimal. Any residual non-numeric character fails with
// ErrMalformedNumber.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "\"")
	cleaned = strings.NewReplacer(" ", "", " ", "").Replace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	if !amountPattern.MatchString(cleaned) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	return d, nil
}

// ParseDate parses a date string in one of the supported bank formats. A
// non-empty layoutHint narrows the attempt to that single layout. The result
// is truncated to midnight UTC; impossible calendar dates (31.04.) are
// rejected, not clamped.
func ParseDate(raw string, layoutHint string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	layouts := dateLayouts
	if layoutHint != "" {
		layouts = []string{layoutHint}
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		y, m, d := parsed.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
}
