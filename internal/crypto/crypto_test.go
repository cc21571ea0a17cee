package crypto

import (
	"strings"
	"testing"
)

func TestNewEncryptor(t *testing.T) {
	if NewEncryptor("") != nil {
		t.Error("NewEncryptor(\"\") should return nil")
	}
	if NewEncryptor("secret") == nil {
		t.Error("NewEncryptor(secret) returned nil")
	}
}

func TestSealOpen(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
	}{
		{"collection document", `{"events":[{"id":"1","title":"Demo Night"}]}`},
		{"empty document", ""},
		{"unicode", `{"events":[{"title":"Café ☕"}]}`},
	}

	enc := NewEncryptor("test-passphrase")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := enc.Seal([]byte(tt.plaintext))
			if err != nil {
				t.Fatalf("Seal() error: %v", err)
			}
			if !strings.HasPrefix(sealed, Prefix) {
				t.Errorf("Seal() = %q, want %q prefix", sealed, Prefix)
			}
			if tt.plaintext != "" && strings.Contains(sealed, tt.plaintext) {
				t.Error("sealed payload contains plaintext")
			}

			opened, err := enc.Open(sealed)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			if string(opened) != tt.plaintext {
				t.Errorf("Open() = %q, want %q", opened, tt.plaintext)
			}
		})
	}
}

func TestSeal_NonDeterministic(t *testing.T) {
	enc := NewEncryptor("test-passphrase")
	a, _ := enc.Seal([]byte("same"))
	b, _ := enc.Seal([]byte("same"))
	if a == b {
		t.Error("two seals of the same plaintext should differ")
	}
}

func TestOpen_Plaintext(t *testing.T) {
	doc := `{"events":[]}`

	var nilEnc *Encryptor
	for name, enc := range map[string]*Encryptor{"nil": nilEnc, "configured": NewEncryptor("k")} {
		t.Run(name, func(t *testing.T) {
			got, err := enc.Open(doc)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			if string(got) != doc {
				t.Errorf("Open() = %q, want passthrough", got)
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	sealed, err := NewEncryptor("right").Seal([]byte("payload"))
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	var nilEnc *Encryptor
	if _, err := nilEnc.Open(sealed); err == nil {
		t.Error("Open() without key should fail on an encrypted payload")
	}
	if _, err := NewEncryptor("wrong").Open(sealed); err == nil {
		t.Error("Open() with the wrong key should fail")
	}
	if _, err := NewEncryptor("right").Open(Prefix + "!!!"); err == nil {
		t.Error("Open() should reject invalid base64")
	}
	if _, err := NewEncryptor("right").Open(Prefix + "AAAA"); err == nil {
		t.Error("Open() should reject a truncated payload")
	}
}

func TestSeal_NilEncryptor(t *testing.T) {
	var enc *Encryptor
	got, err := enc.Seal([]byte("plain"))
	if err != nil || got != "plain" {
		t.Errorf("Seal() on nil = %q, %v; want passthrough", got, err)
	}
}
