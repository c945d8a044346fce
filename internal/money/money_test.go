package money

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		name   string
		cents  int64
		format string
		want   string
	}{
		{"amount", 113465, "${{ amount }}", "$1,134.65"},
		{"amount small", 500, "${{ amount }}", "$5.00"},
		{"no decimals rounds", 113465, "${{ amount_no_decimals }}", "$1,135"},
		{"comma separator", 113465, "{{ amount_with_comma_separator }} EUR", "1.134,65 EUR"},
		{"no decimals comma", 113465, "{{ amount_no_decimals_with_comma_separator }} kr", "1.135 kr"},
		{"empty format uses default", 1900, "", "$19.00"},
		{"zero", 0, "${{ amount }}", "$0.00"},
		{"millions grouped", 123456789, "${{ amount }}", "$1,234,567.89"},
		{"no placeholder returned unchanged", 500, "$", "$"},
		{"tight braces", 500, "${{amount}}", "$5.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.cents, tc.format); got != tc.want {
				t.Errorf("Format(%d, %q) = %q, want %q", tc.cents, tc.format, got, tc.want)
			}
		})
	}
}
