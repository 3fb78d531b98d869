package utils

// NormalizePhone reduces a phone-like string to its digits and keeps the last 10
// of them, so "+919949249432", "919949249432" and "9949249432" compare equal.
// Inputs with fewer than 10 digits come back as all their digits.
func NormalizePhone(v string) string {
	digits := make([]byte, 0, len(v))
	for i := 0; i < len(v); i++ {
		if v[i] >= '0' && v[i] <= '9' {
			digits = append(digits, v[i])
		}
	}
	if len(digits) >= 10 {
		return string(digits[len(digits)-10:])
	}
	return string(digits)
}
