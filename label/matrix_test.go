package label

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dense = [][]int{
	{1, 0, -1},
	{0, 0, 0},
	{0, 1, 0},
	{-1, -1, 1},
}

func TestFromDense(t *testing.T) {
	m, err := FromDense(dense, 3)
	require.NoError(t, err)

	rows, cols := m.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 6, m.NNZ())
	assert.Equal(t, dense, m.Dense())
	assert.Equal(t, -1, m.At(0, 2))
	assert.Equal(t, 0, m.At(1, 1))
	assert.Equal(t, []int{1, 0, 0, -1}, m.Col(0))

	assert.Panics(t, func() { m.At(4, 0) })
	assert.Panics(t, func() { m.At(0, 3) })

	_, err = FromDense([][]int{{1, 2}, {1}}, 2)
	assert.ErrorIs(t, err, ErrShape)
}

func TestRowsAndVStack(t *testing.T) {
	m, err := FromDense(dense, 3)
	require.NoError(t, err)

	top, bottom := m.Rows(0, 2), m.Rows(2, 4)
	assert.Equal(t, dense[:2], top.Dense())
	assert.Equal(t, dense[2:], bottom.Dense())

	empty := m.Rows(1, 1)
	r, c := empty.Shape()
	assert.Equal(t, 0, r)
	assert.Equal(t, 3, c)

	back, err := VStack(top, empty, bottom)
	require.NoError(t, err)
	assert.True(t, m.Equal(back))

	_, err = VStack(m, Zeros(1, 2))
	assert.ErrorIs(t, err, ErrShape)

	assert.Panics(t, func() { m.Rows(3, 5) })
}

func TestWriteMatrixMarket(t *testing.T) {
	m, err := FromDense([][]int{{1, 0}, {0, -1}}, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteMatrixMarket(&buf))

	want := "%%MatrixMarket matrix coordinate integer general\n" +
		"2 2 2\n" +
		"1 1 1\n" +
		"2 2 -1\n"
	assert.Equal(t, want, buf.String())
}
