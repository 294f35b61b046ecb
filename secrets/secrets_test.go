package secrets

import (
	"context"
	"testing"
)

func TestNewCrypter(t *testing.T) {
	ctx := context.Background()

	t.Run("none keeps secrets as they are", func(t *testing.T) {
		c, err := NewCrypter(ctx, "none", "")
		if err != nil {
			t.Fatal(err)
		}

		sealed, err := Seal(c, "plain-key")
		if err != nil {
			t.Fatal(err)
		}
		if sealed != "plain-key" {
			t.Errorf("expected sealed value to be unchanged, got %q", sealed)
		}

		opened, err := Open(c, sealed)
		if err != nil {
			t.Fatal(err)
		}
		if opened != "plain-key" {
			t.Errorf("expected %q, got %q", "plain-key", opened)
		}
	})

	t.Run("local round trips through base64", func(t *testing.T) {
		c, err := NewCrypter(ctx, "local", "testkeytestkeytestkeytestkeytest")
		if err != nil {
			t.Fatal(err)
		}

		sealed, err := Seal(c, "secret-api-key")
		if err != nil {
			t.Fatal(err)
		}
		if sealed == "secret-api-key" {
			t.Fatal("expected sealed value to be encrypted")
		}

		opened, err := Open(c, sealed)
		if err != nil {
			t.Fatal(err)
		}
		if opened != "secret-api-key" {
			t.Errorf("expected %q, got %q", "secret-api-key", opened)
		}

		if _, err := Open(c, "%%% not base64"); err == nil {
			t.Error("expected an error for invalid base64")
		}
	})

	t.Run("invalid configurations", func(t *testing.T) {
		invalid := []struct{ keyType, key string }{
			{"local", "too-short"},
			{"local", "sixteen-byte-key"},
			{"local", "twenty-four-byte-key-123"},
			{"aws_kms", ""},
			{"google_kms", ""},
			{"vault", "x"},
		}

		for _, c := range invalid {
			if _, err := NewCrypter(ctx, c.keyType, c.key); err == nil {
				t.Errorf("expected an error for key type %q", c.keyType)
			}
		}
	})
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":                 "****",
		"abc":              "****",
		"abcd":             "****",
		"0123456789abcdef": "****cdef",
	}

	for in, want := range cases {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
