package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	p := Paginate(1, 5, 2)
	require.Equal(t, 1, p.CurrentPage)
	require.True(t, p.HasNextPage)
	require.False(t, p.HasPreviousPage)
	require.Equal(t, 2, p.NextPage)
	require.Equal(t, 3, p.LastPage)

	p = Paginate(2, 5, 2)
	require.True(t, p.HasNextPage)
	require.True(t, p.HasPreviousPage)
	require.Equal(t, 1, p.PreviousPage)

	p = Paginate(3, 5, 2)
	require.False(t, p.HasNextPage)
	require.True(t, p.HasPreviousPage)
	require.Equal(t, 3, p.LastPage)
}

func TestPaginateExactFit(t *testing.T) {
	p := Paginate(2, 4, 2)
	require.False(t, p.HasNextPage)
	require.Equal(t, 2, p.LastPage)
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(1, 0, 2)
	require.False(t, p.HasNextPage)
	require.False(t, p.HasPreviousPage)
	require.Equal(t, 0, p.LastPage)
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Offset(1, 2))
	require.Equal(t, 2, Offset(2, 2))
	require.Equal(t, 0, Offset(0, 2))
	require.Equal(t, 0, Offset(-3, 2))
}

func TestParseIntDefault(t *testing.T) {
	require.Equal(t, 1, ParseIntDefault("", 1))
	require.Equal(t, 4, ParseIntDefault("4", 1))
	require.Equal(t, 1, ParseIntDefault("abc", 1))
}

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "11", FormatMoney(11))
	require.Equal(t, "12.99", FormatMoney(12.99))
	require.Equal(t, "0.5", FormatMoney(0.5))
}
