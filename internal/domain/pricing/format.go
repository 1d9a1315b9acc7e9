package pricing

import "strings"

// Price inputs travel as digit-only strings with "." grouping separators, the
// way the admin forms render them.

// FormatThousands inserts a "." every three digits from the right. The input
// must contain only decimal digits; callers strip everything else first, e.g.
// with DigitsOnly.
func FormatThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	b.Grow(n + (n-1)/3)

	lead := n % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < n; i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseThousands removes the separators inserted by FormatThousands. For any
// digit-only s, ParseThousands(FormatThousands(s)) == s.
func ParseThousands(display string) string {
	return strings.ReplaceAll(display, ".", "")
}

// DigitsOnly strips every non-digit byte, mirroring the numeric input filter
// applied before formatting.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
