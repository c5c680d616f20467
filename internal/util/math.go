package util

// Percent returns part/whole*100 clamped to [0, 100]. A non-positive whole yields 100.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 100
	}
	p := float64(part) / float64(whole) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
