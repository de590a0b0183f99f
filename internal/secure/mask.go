// Package secure provides the masking and encryption pair applied to
// payment data before it reaches the store.
package secure

import "strings"

// Mask replaces a payment method number with "**** " plus its last four
// digits. Inputs carrying fewer than four digits are returned unchanged.
func Mask(s string) string {
	var digits []byte
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) < 4 {
		return s
	}
	var b strings.Builder
	b.WriteString("**** ")
	b.Write(digits[len(digits)-4:])
	return b.String()
}
