package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "pfbeta/internal/errors"
)

func TestCanonicalize(t *testing.T) {
	t.Run("basic extraction", func(t *testing.T) {
		table := RawTable{
			{"ISIN Code", "No. of Units", "Market Value (Rs.)"},
			{"INE123456789", "100", "5,000.50"},
			{"INF987654321", "0", "10000"},
		}

		got, err := Canonicalize(table)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, CanonicalRow{ISIN: "INE123456789", Quantity: 100, Amount: 5000.50}, got[0])
		assert.Equal(t, CanonicalRow{ISIN: "INF987654321", Quantity: 0, Amount: 10000}, got[1])
	})

	t.Run("missing isin column", func(t *testing.T) {
		table := RawTable{
			{"Scheme", "Units", "Value"},
			{"Some Fund", "10", "100"},
		}
		_, err := Canonicalize(table)
		assert.ErrorIs(t, err, apierrors.ErrISINColumnMissing)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := Canonicalize(RawTable{})
		assert.ErrorIs(t, err, apierrors.ErrISINColumnMissing)
	})

	t.Run("missing quantity and amount columns default to zero", func(t *testing.T) {
		table := RawTable{
			{"ISIN"},
			{"INE123456789"},
		}
		got, err := Canonicalize(table)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Zero(t, got[0].Quantity)
		assert.Zero(t, got[0].Amount)
	})

	t.Run("non-numeric cells coerce to zero", func(t *testing.T) {
		table := RawTable{
			{"ISIN", "Qty", "Amount"},
			{"INE123456789", "N/A", "-"},
		}
		got, err := Canonicalize(table)
		require.NoError(t, err)
		assert.Zero(t, got[0].Quantity)
		assert.Zero(t, got[0].Amount)
	})

	t.Run("blank rows dropped, order preserved", func(t *testing.T) {
		table := RawTable{
			{"ISIN", "Qty", "Amount"},
			{"INE111111111", "1", "10"},
			{"", "", ""},
			{"INE222222222", "2", "20"},
		}
		got, err := Canonicalize(table)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "INE111111111", got[0].ISIN)
		assert.Equal(t, "INE222222222", got[1].ISIN)
	})

	t.Run("ragged rows read as empty cells", func(t *testing.T) {
		table := RawTable{
			{"ISIN", "Qty", "Amount"},
			{"INE123456789", "5"}, // amount cell missing entirely
		}
		got, err := Canonicalize(table)
		require.NoError(t, err)
		assert.Equal(t, 5.0, got[0].Quantity)
		assert.Zero(t, got[0].Amount)
	})

	t.Run("column order does not matter", func(t *testing.T) {
		a := RawTable{
			{"ISIN", "Qty", "Amount"},
			{"INE123456789", "7", "70"},
		}
		b := RawTable{
			{"Amount", "ISIN", "Qty"},
			{"70", "INE123456789", "7"},
		}

		gotA, err := Canonicalize(a)
		require.NoError(t, err)
		gotB, err := Canonicalize(b)
		require.NoError(t, err)
		assert.Equal(t, gotA, gotB)
	})

	t.Run("isin normalized to upper case", func(t *testing.T) {
		table := RawTable{
			{"isin"},
			{"  ine123456789 "},
		}
		got, err := Canonicalize(table)
		require.NoError(t, err)
		assert.Equal(t, "INE123456789", got[0].ISIN)
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"100", 100},
		{"1,234,567.89", 1234567.89},
		{" 42.5 ", 42.5},
		{"", 0},
		{"N/A", 0},
		{"-", 0},
		{"-10.5", -10.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNumber(tt.input))
		})
	}
}
