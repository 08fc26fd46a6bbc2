package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/csv"))
	assert.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	assert.NoError(t, ValidateClientContentType("application/vnd.ms-excel"))
	assert.Error(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.Error(t, ValidateClientContentType("application/pdf"))
	assert.Error(t, ValidateClientContentType(""))
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	t.Run("plain csv accepted", func(t *testing.T) {
		r := bytes.NewReader([]byte("Datum;Částka\n15.03.2024;-100,00\n"))
		_, err := ValidateFileContentByMagicBytes(r)
		assert.NoError(t, err)
	})

	t.Run("windows-1250 content accepted", func(t *testing.T) {
		// cp1250 bytes are invalid UTF-8 but still legitimate text.
		data := []byte{0xC8, 0xE1, 0x73, 0x74, 0x6B, 0x61, ';', '1', '0', '0', '\n'}
		r := bytes.NewReader(data)
		_, err := ValidateFileContentByMagicBytes(r)
		assert.NoError(t, err)
	})

	t.Run("null bytes rejected", func(t *testing.T) {
		r := bytes.NewReader([]byte{'P', 'K', 0x03, 0x04, 0x00, 0x00})
		_, err := ValidateFileContentByMagicBytes(r)
		assert.Error(t, err)
	})

	t.Run("empty file rejected", func(t *testing.T) {
		r := bytes.NewReader(nil)
		_, err := ValidateFileContentByMagicBytes(r)
		assert.Error(t, err)
	})

	t.Run("read pointer reset after inspection", func(t *testing.T) {
		content := []byte("Datum;Částka\n")
		r := bytes.NewReader(content)
		_, err := ValidateFileContentByMagicBytes(r)
		require.NoError(t, err)

		rest := make([]byte, len(content))
		n, _ := r.Read(rest)
		assert.Equal(t, len(content), n)
	})
}
