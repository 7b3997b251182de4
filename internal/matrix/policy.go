package matrix

import (
	"strings"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
)

// Policy decides what happens to decoded items that fail field validation.
type Policy int

const (
	// PolicyLenient drops invalid items and keeps the rest in order.
	PolicyLenient Policy = iota
	// PolicyStrict rejects the whole response on the first invalid item.
	PolicyStrict
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	default:
		return "lenient"
	}
}

// ParsePolicy maps "strict" or "lenient" (case-insensitive) to a Policy.
// An empty string selects the default, PolicyLenient.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyLenient, perrors.New(perrors.ErrCodeInvalidInput, "unknown parse policy %q (want strict or lenient)", s)
	}
}
