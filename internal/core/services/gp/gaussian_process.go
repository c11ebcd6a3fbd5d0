// Package gp implements a minimal Gaussian Process with an RBF kernel,
// used by the Bayesian optimizer for Expected-Improvement acquisition.
// Ported from bayesian_optimizer.py's GaussianProcess class: no
// factorization is cached between calls (recomputed on each Predict)
// to keep the implementation simple and the memory footprint bounded,
// matching the embedded-device budget the original was built for.
package gp

import "math"

// jitter is added to Cholesky diagonal entries where singularities
// threaten numerical stability.
const jitter = 1e-10

// Process is an RBF-kernel Gaussian Process.
type Process struct {
	LengthScale float64
	Noise       float64

	x [][]float64
	y []float64
}

// New constructs a Process with the given RBF length scale and
// observation noise.
func New(lengthScale, noise float64) *Process {
	return &Process{LengthScale: lengthScale, Noise: noise}
}

func (p *Process) rbfKernel(a, b []float64) float64 {
	sqDist := 0.0
	for i := range a {
		d := a[i] - b[i]
		sqDist += d * d
	}
	return math.Exp(-0.5 * sqDist / (p.LengthScale * p.LengthScale))
}

func (p *Process) kernelMatrix(x [][]float64) [][]float64 {
	n := len(x)
	k := make([][]float64, n)
	for i := range k {
		k[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k[i][j] = p.rbfKernel(x[i], x[j])
			if i == j {
				k[i][j] += p.Noise * p.Noise
			}
		}
	}
	return k
}

func (p *Process) kernelVector(x [][]float64, target []float64) []float64 {
	k := make([]float64, len(x))
	for i, xi := range x {
		k[i] = p.rbfKernel(xi, target)
	}
	return k
}

// cholesky computes the lower-triangular Cholesky factor L of A = L L^T,
// lower-bounding each diagonal entry at jitter under the square root so
// near-singular matrices don't produce NaNs.
func cholesky(a [][]float64) [][]float64 {
	n := len(a)
	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
	}
	for j := 0; j < n; j++ {
		s := 0.0
		for k := 0; k < j; k++ {
			s += l[j][k] * l[j][k]
		}
		diag := a[j][j] - s
		if diag < jitter {
			diag = jitter
		}
		l[j][j] = math.Sqrt(diag)
		for i := j + 1; i < n; i++ {
			s := 0.0
			for k := 0; k < j; k++ {
				s += l[i][k] * l[j][k]
			}
			l[i][j] = (a[i][j] - s) / l[j][j]
		}
	}
	return l
}

// solveLower solves L x = b where L is lower triangular, by forward
// substitution.
func solveLower(l [][]float64, b []float64) []float64 {
	n := len(b)
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		s := 0.0
		for j := 0; j < i; j++ {
			s += l[i][j] * x[j]
		}
		x[i] = (b[i] - s) / l[i][i]
	}
	return x
}

// solveUpper solves U x = b where U is upper triangular (here, L^T), by
// back substitution.
func solveUpper(u [][]float64, b []float64) []float64 {
	n := len(b)
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := 0.0
		for j := i + 1; j < n; j++ {
			s += u[i][j] * x[j]
		}
		x[i] = (b[i] - s) / u[i][i]
	}
	return x
}

func transpose(l [][]float64) [][]float64 {
	n := len(l)
	t := make([][]float64, n)
	for i := range t {
		t[i] = make([]float64, n)
		for j := range t[i] {
			t[i][j] = l[j][i]
		}
	}
	return t
}

// Fit copies the training data; no factorization is cached.
func (p *Process) Fit(x [][]float64, y []float64) {
	p.x = make([][]float64, len(x))
	for i, xi := range x {
		p.x[i] = append([]float64(nil), xi...)
	}
	p.y = append([]float64(nil), y...)
}

// Predict returns the posterior mean and variance at x. If Cholesky
// factorization fails (non-positive diagonal) or there is no training
// data, it returns the neutral (0, 1).
func (p *Process) Predict(x []float64) (mean, variance float64) {
	if len(p.x) == 0 {
		return 0, 1
	}

	k := p.kernelMatrix(p.x)
	kStarVec := p.kernelVector(p.x, x)

	l := cholesky(k)
	for i := range l {
		if l[i][i] <= 0 {
			return 0, 1
		}
	}

	alpha := solveLower(l, p.y)
	alpha = solveUpper(transpose(l), alpha)

	mean = 0
	for i, a := range alpha {
		mean += a * kStarVec[i]
	}

	v := solveLower(l, kStarVec)
	kStar := p.rbfKernel(x, x) + p.Noise*p.Noise
	vNormSq := 0.0
	for _, vi := range v {
		vNormSq += vi * vi
	}
	variance = kStar - vNormSq
	if variance < jitter {
		variance = jitter
	}
	return mean, variance
}
