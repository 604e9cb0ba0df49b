package util

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	id, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if id != 42 {
		t.Errorf("got user id %d, want 42", id)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT(token, "other"); err == nil {
		t.Error("token signed with another secret must not parse")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT(42, "secret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Error("expired token must not parse")
	}
}

func TestParseJWT_Garbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", "secret"); err == nil {
		t.Error("garbage must not parse")
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"", ""},
		{"abc", ""},
		{"Basic dXNlcjpwYXNz", ""},
	}
	for _, c := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		if got := ExtractToken(req); got != c.want {
			t.Errorf("ExtractToken(%q) = %q, want %q", c.header, got, c.want)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secreta123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secreta123" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPassword("secreta123", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("equivocada", hash) {
		t.Error("wrong password must not verify")
	}
}
