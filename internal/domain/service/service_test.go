package service

import "testing"

func TestSlugFor(t *testing.T) {
	tests := map[string]string{
		"Classic Manicure": "classic-manicure",
		"Nail Art Design":  "nail-art-design",
		"  Gel  Pedicure ": "gel-pedicure",
	}

	for in, want := range tests {
		if got := SlugFor(in); got != want {
			t.Errorf("SlugFor(%q) = %q, want %q", in, got, want)
		}
	}
}
