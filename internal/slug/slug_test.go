package slug

import (
	"regexp"
	"testing"
)

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Dhaka College", "dhaka-college"},
		{"punctuation", "St. Gregory's High School", "st-gregory-s-high-school"},
		{"symbols stripped", "A+B (Model) School!", "a-b-model-school"},
		{"collapsed separators", "Green   --  Valley", "green-valley"},
		{"leading trailing", "  --Hill Top-- ", "hill-top"},
		{"digits kept", "School No. 42", "school-no-42"},
		{"already slug", "rajshahi-college", "rajshahi-college"},
		{"unicode dropped", "Ecole Normale Supérieure", "ecole-normale-sup-rieure"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Make(tc.in); got != tc.want {
				t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMakeShape(t *testing.T) {
	// Every non-empty output must match the URL-safe shape with no
	// leading/trailing or doubled hyphens.
	shape := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	inputs := []string{
		"Dhaka College", "x", "9 Lives Academy", "___", "A&B", "Ω Institute",
		"  spaced  out  name  ", "MIXED Case NAME", "trailing dot.",
	}
	for _, in := range inputs {
		got := Make(in)
		if got == "" {
			continue
		}
		if !shape.MatchString(got) {
			t.Errorf("Make(%q) = %q, not URL-safe", in, got)
		}
	}
}
