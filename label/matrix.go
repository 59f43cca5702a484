package label

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var ErrShape = errors.New("matrix shape mismatch")

// Matrix is an integer sparse matrix in compressed sparse row form. A Matrix
// is immutable.
type Matrix struct {
	rows, cols int

	// row i is indices[indptr[i]:indptr[i+1]], in ascending column order
	indptr  []int
	indices []int
	data    []int
}

// Zeros returns an empty rows x cols matrix.
func Zeros(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, indptr: make([]int, rows+1)}
}

// FromDense builds a matrix from rows of length cols. Zeros are not stored.
func FromDense(dense [][]int, cols int) (*Matrix, error) {
	m := Zeros(len(dense), cols)
	for i, row := range dense {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), cols)
		}

		for j, v := range row {
			if v != 0 {
				m.indices = append(m.indices, j)
				m.data = append(m.data, v)
			}
		}
		m.indptr[i+1] = len(m.indices)
	}
	return m, nil
}

// Shape returns the number of rows and columns.
func (m *Matrix) Shape() (int, int) {
	return m.rows, m.cols
}

// NNZ is the number of stored (non zero) values.
func (m *Matrix) NNZ() int {
	return len(m.data)
}

// At returns the value at row i, column j. It panics outside the matrix.
func (m *Matrix) At(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("label: index (%d,%d) out of matrix %dx%d", i, j, m.rows, m.cols))
	}

	for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
		if m.indices[k] == j {
			return m.data[k]
		}
	}
	return 0
}

// Row returns the dense row i.
func (m *Matrix) Row(i int) []int {
	row := make([]int, m.cols)
	for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
		row[m.indices[k]] = m.data[k]
	}
	return row
}

// Dense returns the matrix as rows of columns.
func (m *Matrix) Dense() [][]int {
	dense := make([][]int, m.rows)
	for i := range dense {
		dense[i] = m.Row(i)
	}
	return dense
}

// Col returns the dense column j.
func (m *Matrix) Col(j int) []int {
	col := make([]int, m.rows)
	for i := range col {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			if m.indices[k] == j {
				col[i] = m.data[k]
			}
		}
	}
	return col
}

// Rows returns the rows [i, j) as a new matrix.
func (m *Matrix) Rows(i, j int) *Matrix {
	if i < 0 || j > m.rows || j < i {
		panic(fmt.Sprintf("label: rows [%d,%d) out of matrix with %d rows", i, j, m.rows))
	}

	start, end := m.indptr[i], m.indptr[j]
	out := &Matrix{
		rows:    j - i,
		cols:    m.cols,
		indptr:  make([]int, j-i+1),
		indices: append([]int(nil), m.indices[start:end]...),
		data:    append([]int(nil), m.data[start:end]...),
	}
	for k := range out.indptr {
		out.indptr[k] = m.indptr[i+k] - start
	}
	return out
}

// VStack stacks the matrices vertically, in order. All must have the same
// number of columns.
func VStack(ms ...*Matrix) (*Matrix, error) {
	if len(ms) == 0 {
		return Zeros(0, 0), nil
	}

	cols := ms[0].cols
	out := Zeros(0, cols)
	for _, m := range ms {
		if m.cols != cols {
			return nil, fmt.Errorf("%w: %d columns, want %d", ErrShape, m.cols, cols)
		}

		base := len(out.indices)
		for _, p := range m.indptr[1:] {
			out.indptr = append(out.indptr, base+p)
		}
		out.indices = append(out.indices, m.indices...)
		out.data = append(out.data, m.data...)
		out.rows += m.rows
	}
	return out, nil
}

// Equal reports whether both matrices have the same shape and values.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols || m.NNZ() != other.NNZ() {
		return false
	}

	for i := range m.indptr {
		if m.indptr[i] != other.indptr[i] {
			return false
		}
	}
	for k := range m.data {
		if m.indices[k] != other.indices[k] || m.data[k] != other.data[k] {
			return false
		}
	}
	return true
}

// WriteMatrixMarket writes the matrix in Matrix Market coordinate format,
// one based.
func (m *Matrix) WriteMatrixMarket(w io.Writer) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("%%MatrixMarket matrix coordinate integer general\n")
	fmt.Fprintf(bw, "%d %d %d\n", m.rows, m.cols, m.NNZ())
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			fmt.Fprintf(bw, "%d %d %d\n", i+1, m.indices[k]+1, m.data[k])
		}
	}

	return bw.Flush()
}
