// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// AssertClose fails the test when got differs from want by more than tolerance.
func AssertClose(t testing.TB, label string, got, want, tolerance float64) {
	t.Helper()
	if !mathutil.IsFinite(got) {
		t.Errorf("%s: got non-finite value %v, expected %.4f", label, got, want)
		return
	}
	if !mathutil.WithinTolerance(got, want, tolerance) {
		t.Errorf("%s: got %.4f, expected %.4f (tolerance %.4f, diff %.4f)",
			label, got, want, tolerance, got-want)
	}
}

// AssertFinite fails the test when any of the values is NaN or infinite.
func AssertFinite(t testing.TB, label string, values ...float64) {
	t.Helper()
	for i, v := range values {
		if !mathutil.IsFinite(v) {
			t.Errorf("%s: value %d is not finite: %v", label, i, v)
		}
	}
}
