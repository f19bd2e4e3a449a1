package transport

import (
	"context"
	"math"
)

// csrMatrix is a square sparse matrix in compressed sparse row form.
// Duplicate entries for the same (row, col) are allowed and sum during
// multiplication, so parallel throats need no merging at assembly time.
type csrMatrix struct {
	n      int
	rowPtr []int
	colIdx []int
	vals   []float64
}

func (m *csrMatrix) mulVec(dst, x []float64) {
	for i := 0; i < m.n; i++ {
		sum := 0.0
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sum += m.vals[k] * x[m.colIdx[k]]
		}
		dst[i] = sum
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// conjGrad solves A x = b for symmetric positive definite A, starting from
// x = 0. It returns the solution and the number of iterations used, or
// ErrNoConvergence if the residual does not drop below tol * ||b|| within
// maxIter iterations.
func conjGrad(ctx context.Context, a *csrMatrix, b []float64, tol float64, maxIter int) ([]float64, int, error) {
	n := a.n
	x := make([]float64, n)
	r := make([]float64, n)
	copy(r, b)

	bNorm := math.Sqrt(dot(b, b))
	if bNorm == 0 {
		return x, 0, nil
	}
	threshold := tol * bNorm

	p := make([]float64, n)
	copy(p, r)
	ap := make([]float64, n)
	rs := dot(r, r)

	for iter := 0; iter < maxIter; iter++ {
		if math.Sqrt(rs) <= threshold {
			return x, iter, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, iter, err
		}

		a.mulVec(ap, p)
		alpha := rs / dot(p, ap)
		for i := 0; i < n; i++ {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}

		rsNew := dot(r, r)
		beta := rsNew / rs
		for i := 0; i < n; i++ {
			p[i] = r[i] + beta*p[i]
		}
		rs = rsNew
	}

	if math.Sqrt(rs) <= threshold {
		return x, maxIter, nil
	}
	return nil, maxIter, ErrNoConvergence
}
