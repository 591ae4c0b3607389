package auth

import (
	"reflect"
	"testing"
)

func TestHasRoleIgnoresCase(t *testing.T) {
	allowed := []string{"Admin", "accounting"}
	for _, role := range []string{"admin", "Admin", "ADMIN", " admin "} {
		if !HasRole(role, allowed) {
			t.Fatalf("expected %q to match", role)
		}
	}
	if HasRole("sales", allowed) {
		t.Fatal("unexpected match for sales")
	}
	if HasRole("", allowed) {
		t.Fatal("empty role must never match")
	}
	if HasRole("admin", nil) {
		t.Fatal("empty allow list must not match")
	}
}

func TestNormalizeRoles(t *testing.T) {
	got := NormalizeRoles([]string{"Admin", "sales", "ADMIN", " ", "Sales"})
	want := []string{"admin", "sales"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeRoles() = %v, want %v", got, want)
	}
	if NormalizeRoles(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}
