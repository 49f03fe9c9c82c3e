package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseLocalizedDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10,50", "10.50"},
		{"10.50", "10.50"},
		{" 0,05 ", "0.05"},
		{"100", "100"},
		{"-3,25", "-3.25"},
	}
	for _, tc := range cases {
		got, err := ParseLocalizedDecimal(tc.in)
		if err != nil {
			t.Fatalf("ParseLocalizedDecimal(%q): %v", tc.in, err)
		}
		want, _ := decimal.NewFromString(tc.want)
		if !got.Equal(want) {
			t.Fatalf("ParseLocalizedDecimal(%q) = %s; want %s", tc.in, got, want)
		}
	}
}

func TestParseLocalizedDecimalRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "10,5,0", "1.2.3"} {
		if _, err := ParseLocalizedDecimal(in); err == nil {
			t.Fatalf("ParseLocalizedDecimal(%q): expected error", in)
		}
	}
}

func TestValidationErrorTaxonomy(t *testing.T) {
	verr := ValidationErrorf("campo %s obrigatório", "nome")
	if !IsValidation(verr) {
		t.Fatal("validation error not recognized")
	}
	if IsConflict(verr) || IsNotFound(verr) {
		t.Fatal("validation error matched a different class")
	}

	cerr := ConflictErrorf("caixa já aberto")
	if !IsConflict(cerr) {
		t.Fatal("conflict error not recognized")
	}
	if !IsNotFound(ErrorRecordNotFound) {
		t.Fatal("not-found sentinel not recognized")
	}
}
