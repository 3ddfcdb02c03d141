package dataprocessing

import (
	"fmt"
	"strings"
)

// ConcentrationPolicy decides what happens to a concentration cell that is
// neither blank nor a number.
type ConcentrationPolicy string

const (
	// PolicyStrict rejects the whole analysis and lists every bad cell.
	PolicyStrict ConcentrationPolicy = "strict"
	// PolicyLenient skips bad cells and reports them alongside the result.
	PolicyLenient ConcentrationPolicy = "lenient"
)

// ParseConcentrationPolicy accepts "strict" or "lenient" in any case. An
// empty string means strict.
func ParseConcentrationPolicy(s string) (ConcentrationPolicy, error) {
	switch ConcentrationPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	}
	return "", fmt.Errorf("unknown concentration policy %q (want strict or lenient)", s)
}

func (p ConcentrationPolicy) String() string {
	return string(p)
}
