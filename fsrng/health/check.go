package health

import (
	"errors"
	"fmt"
)

var (
	ErrHealthFailed   = errors.New("health: output failed statistical checks")
	ErrSampleTooSmall = errors.New("health: sample too small")
)

const (
	// MinSampleSize is the smallest sample Check accepts.
	MinSampleSize = 1024
	// MinMonobitP is the lowest accepted monobit p-value.
	MinMonobitP = 1e-4
	// MaxChiSquare is far in the tail of the 255-df chi-square distribution.
	MaxChiSquare = 400
	// RepetitionCutoff is the SP 800-90B repetition count cutoff for 8 bits of
	// entropy per byte at a false positive rate of 2^-40.
	RepetitionCutoff = 6
	// MinCompressionRatio is the lowest accepted LZ4 compression ratio.
	MinCompressionRatio = 0.98
)

// Report holds the statistics computed by Check.
type Report struct {
	Bytes            int
	MonobitP         float64
	ChiSquare        float64
	LongestRun       int
	CompressionRatio float64
}

func (r Report) String() string {
	return fmt.Sprintf("bytes=%d monobit_p=%.4f chi2=%.1f longest_run=%d lz4_ratio=%.4f",
		r.Bytes, r.MonobitP, r.ChiSquare, r.LongestRun, r.CompressionRatio)
}

// Screen runs only the gross-failure checks (a repetition run and LZ4
// compressibility). Their false positive rate is around 2^-40, so it is safe
// as a startup gate where the other statistics would reject good seeds.
func Screen(b []byte) (Report, error) {
	if len(b) < MinSampleSize {
		return Report{}, ErrSampleTooSmall
	}
	ratio, err := CompressionRatio(b)
	if err != nil {
		return Report{}, err
	}
	r := Report{
		Bytes:            len(b),
		LongestRun:       LongestRun(b),
		CompressionRatio: ratio,
	}
	switch {
	case r.LongestRun >= RepetitionCutoff:
		return r, fmt.Errorf("%w: run of %d identical bytes", ErrHealthFailed, r.LongestRun)
	case r.CompressionRatio < MinCompressionRatio:
		return r, fmt.Errorf("%w: lz4 ratio=%.4f", ErrHealthFailed, r.CompressionRatio)
	}
	return r, nil
}

// Check computes a Report for b. The error wraps ErrHealthFailed and names
// the first failing statistic.
func Check(b []byte) (Report, error) {
	if len(b) < MinSampleSize {
		return Report{}, ErrSampleTooSmall
	}
	ratio, err := CompressionRatio(b)
	if err != nil {
		return Report{}, err
	}
	r := Report{
		Bytes:            len(b),
		MonobitP:         MonobitPValue(b),
		ChiSquare:        ChiSquare(b),
		LongestRun:       LongestRun(b),
		CompressionRatio: ratio,
	}

	switch {
	case r.MonobitP < MinMonobitP:
		return r, fmt.Errorf("%w: monobit p=%.6f", ErrHealthFailed, r.MonobitP)
	case r.ChiSquare > MaxChiSquare:
		return r, fmt.Errorf("%w: chi2=%.1f", ErrHealthFailed, r.ChiSquare)
	case r.LongestRun >= RepetitionCutoff:
		return r, fmt.Errorf("%w: run of %d identical bytes", ErrHealthFailed, r.LongestRun)
	case r.CompressionRatio < MinCompressionRatio:
		return r, fmt.Errorf("%w: lz4 ratio=%.4f", ErrHealthFailed, r.CompressionRatio)
	}
	return r, nil
}
