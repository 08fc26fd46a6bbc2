package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBytes(t *testing.T) {
	t.Run("plain utf-8 passes through", func(t *testing.T) {
		got, err := DecodeBytes([]byte("Datum;Částka\n"))
		require.NoError(t, err)
		assert.Equal(t, "Datum;Částka\n", got)
	})

	t.Run("utf-8 BOM is stripped", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Datum;Částka")...)
		got, err := DecodeBytes(data)
		require.NoError(t, err)
		assert.Equal(t, "Datum;Částka", got)
	})

	t.Run("windows-1250 fallback", func(t *testing.T) {
		// "Částka" in cp1250: Č=0xC8, á=0xE1, s=0x73, t=0x74, k=0x6B, a=0x61
		data := []byte{0xC8, 0xE1, 0x73, 0x74, 0x6B, 0x61}
		got, err := DecodeBytes(data)
		require.NoError(t, err)
		assert.Equal(t, "Částka", got)
	})

	t.Run("cp1250 diacritics round correctly", func(t *testing.T) {
		// "řeč" in cp1250: ř=0xF8, e=0x65, č=0xE8
		got, err := DecodeBytes([]byte{0xF8, 0x65, 0xE8})
		require.NoError(t, err)
		assert.Equal(t, "řeč", got)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := DecodeBytes(nil)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})
}
