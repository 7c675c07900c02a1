package health

import (
	"math"
	"math/bits"
)

// MonobitPValue is the NIST SP 800-22 frequency test p-value over all bits of b.
func MonobitPValue(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	ones := 0
	for _, x := range b {
		ones += bits.OnesCount8(x)
	}
	n := float64(8 * len(b))
	s := math.Abs(float64(2*ones)-n) / math.Sqrt(n)
	return math.Erfc(s / math.Sqrt2)
}

// ChiSquare returns the chi-square statistic of the byte histogram of b
// against a uniform distribution (255 degrees of freedom).
func ChiSquare(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	var counts [256]int
	for _, x := range b {
		counts[x]++
	}
	expected := float64(len(b)) / 256
	var chi float64
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	return chi
}

// LongestRun returns the length of the longest run of identical bytes.
func LongestRun(b []byte) int {
	longest, run := 0, 0
	for i := range b {
		if i > 0 && b[i] == b[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Correlation returns the Pearson correlation of a and b taken as byte
// sequences, over their common length. Constant inputs yield 0.
func Correlation(a, b []byte) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sa, sb float64
	for i := 0; i < n; i++ {
		sa += float64(a[i])
		sb += float64(b[i])
	}
	ma, mb := sa/float64(n), sb/float64(n)

	var cov, va, vb float64
	for i := 0; i < n; i++ {
		da, db := float64(a[i])-ma, float64(b[i])-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	return cov / math.Sqrt(va*vb)
}
