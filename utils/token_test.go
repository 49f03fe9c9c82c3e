package utils

import "testing"

// The cash register records who opened a session from the token claims,
// so the tenant name must survive a generate/validate round trip.
func TestJwtClaimsRoundTrip(t *testing.T) {
	token, err := JwtGenerate(7, "Pizzaria Teste", "tenant")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	parsed, err := JwtValidate(token)
	if err != nil || !parsed.Valid {
		t.Fatalf("JwtValidate: valid=%v err=%v", parsed != nil && parsed.Valid, err)
	}

	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("claims type: %T", parsed.Claims)
	}
	if claims.ID != 7 {
		t.Fatalf("claims.ID = %d; want 7", claims.ID)
	}
	if claims.Name != "Pizzaria Teste" {
		t.Fatalf("claims.Name = %q; want Pizzaria Teste", claims.Name)
	}
	if claims.Role != "tenant" {
		t.Fatalf("claims.Role = %q; want tenant", claims.Role)
	}
}

func TestJwtValidateRejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
