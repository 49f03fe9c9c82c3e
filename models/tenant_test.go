package models

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Pizzaria do Zé", "pizzaria-do-z"},
		{"  Bar & Grill  ", "bar-grill"},
		{"already-slugged", "already-slugged"},
		{"---", ""},
		{"Açaí 24h", "a-a-24h"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
