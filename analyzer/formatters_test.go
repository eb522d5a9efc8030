package analyzer_test

import (
	"math"
	"testing"

	"github.com/ZephyrDeng/timeavg/analyzer"
)

func TestFormatMean(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2.0"},
		{0, "0.0"},
		{1.6785, "1.6785"},
		{121, "121.0"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e16, "1e+16"},
		{123456789012345.6, "123456789012345.6"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, tt := range tests {
		if got := analyzer.FormatMean(tt.in); got != tt.want {
			t.Errorf("FormatMean(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1.500s"},
		{65.25, "1m5.250s"},
		{0.25, "250.00ms"},
		{0.0000015, "1.50us"},
		{0, "0ns"},
	}
	for _, tt := range tests {
		if got := analyzer.FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
