package provider

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"anime-aggregator/internal/domain"
)

// RequireObject fails with domain.ErrMalformedShape unless raw is a JSON object.
func RequireObject(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected object", domain.ErrMalformedShape)
	}

	return nil
}

// FlexInt decodes a JSON number or numeric string. Anything unparsable,
// including null, decodes to 0 without error.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)

		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		*f = FlexInt(int(v))

		return nil
	}
	*f = 0

	return nil
}

// OptionalFloat decodes a JSON number or numeric string. null or an
// unparsable string leaves Valid false without error.
type OptionalFloat struct {
	Value float64
	Valid bool
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*o = OptionalFloat{}

		return nil
	}
	*o = OptionalFloat{Value: v, Valid: true}

	return nil
}

// scoreEpsilon absorbs binary representation error (8.2*10 = 81.999...)
// before truncation. It never rounds a genuine fraction up.
const scoreEpsilon = 1e-9

// ScoreFromTenScale converts a 0-10 score to 0-100, truncating the fraction:
// 8.5 -> 85, 7.95 -> 79.
func ScoreFromTenScale(v float64) int {
	return clampScore(int(math.Floor(v*10 + scoreEpsilon)))
}

// ScoreFromHundredScale truncates a 0-100 score: 72.3 -> 72.
func ScoreFromHundredScale(v float64) int {
	return clampScore(int(math.Floor(v + scoreEpsilon)))
}

func clampScore(n int) int {
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	default:
		return n
	}
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// StringPtrOrNil returns nil for a blank string.
func StringPtrOrNil(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}

	return &v
}
