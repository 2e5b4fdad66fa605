package common

// DefaultOr returns the pointed-to value, or def when the field was absent
// from a provider response. Missing weather fields default to 0 so the
// upload payload is always well-formed; this is the single place that
// policy lives.
func DefaultOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
