package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeDatetimeFromDicomDate(t *testing.T) {
	t.Run("Date And Time Are Combined", func(t *testing.T) {
		result, err := MakeDatetimeFromDicomDate("20240115", "143000")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC), result)
	})

	t.Run("Missing Time Defaults To Midnight", func(t *testing.T) {
		result, err := MakeDatetimeFromDicomDate("20240115", "")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("Malformed Time Defaults To Midnight", func(t *testing.T) {
		result, err := MakeDatetimeFromDicomDate("20240115", "99xx")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("Fractional Seconds Are Preserved", func(t *testing.T) {
		result, err := MakeDatetimeFromDicomDate("20240115", "143000.250000")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 15, 14, 30, 0, 250000000, time.UTC), result)
	})

	t.Run("Truncated Time Components", func(t *testing.T) {
		result, err := MakeDatetimeFromDicomDate("20240115", "1430")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC), result)
	})

	t.Run("Invalid Date Fails", func(t *testing.T) {
		_, err := MakeDatetimeFromDicomDate("2024-01-15", "143000")

		assert.Error(t, err)
	})
}

func TestParseOrthancTimestamp(t *testing.T) {
	t.Run("Last Update Format", func(t *testing.T) {
		result, err := ParseOrthancTimestamp("20240301T101502")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.March, 1, 10, 15, 2, 0, time.UTC), result)
	})

	t.Run("Missing Separator Fails", func(t *testing.T) {
		_, err := ParseOrthancTimestamp("20240301101502")

		assert.Error(t, err)
	})
}
