package crypto

import (
	"strings"
	"testing"
)

func TestNewIDCodec_InvalidKeyLength(t *testing.T) {
	_, err := NewIDCodec("short")
	if err != ErrInvalidKey {
		t.Errorf("NewIDCodec() error = %v, want %v", err, ErrInvalidKey)
	}
}

func TestIDCodec_Roundtrip(t *testing.T) {
	codec, err := NewIDCodec(testKey)
	if err != nil {
		t.Fatalf("NewIDCodec() failed: %v", err)
	}

	ids := []string{
		"a1",
		"BxBXxMj1zxtRvjlQqfdJSDZPXlZle4C3bkKQA",
		"3gE8GeMzKQSNmQQzQbLLlhxlpGi4PPUldPbV1",
		strings.Repeat("x", 256),
	}

	for _, id := range ids {
		token, err := codec.Encode(id)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", id, err)
		}
		if token == id {
			t.Errorf("Encode(%q) returned the raw id", id)
		}

		got, err := codec.Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", token, err)
		}
		if got != id {
			t.Errorf("Decode(Encode(%q)) = %q", id, got)
		}
	}
}

func TestIDCodec_Deterministic(t *testing.T) {
	codec, _ := NewIDCodec(testKey)

	t1, err := codec.Encode("a1")
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	t2, _ := codec.Encode("a1")

	if t1 != t2 {
		t.Errorf("Encode() not deterministic: %q != %q", t1, t2)
	}
}

func TestIDCodec_DistinctIDsDistinctTokens(t *testing.T) {
	codec, _ := NewIDCodec(testKey)

	t1, _ := codec.Encode("a1")
	t2, _ := codec.Encode("a2")

	if t1 == t2 {
		t.Error("Encode() produced identical tokens for different ids")
	}
}

func TestIDCodec_EncodeEmpty(t *testing.T) {
	codec, _ := NewIDCodec(testKey)

	if _, err := codec.Encode(""); err == nil {
		t.Error("Encode(\"\") expected error, got nil")
	}
}

func TestIDCodec_URLSafe(t *testing.T) {
	codec, _ := NewIDCodec(testKey)

	token, _ := codec.Encode("account/id+with=odd chars")
	if strings.ContainsAny(token, "+/= ") {
		t.Errorf("Encode() produced non URL-safe token: %q", token)
	}
}

func TestIDCodec_DecodeTampered(t *testing.T) {
	codec, _ := NewIDCodec(testKey)

	token, _ := codec.Encode("a1")
	tampered := token[:len(token)-2] + "AA"
	if tampered == token {
		tampered = token[:len(token)-2] + "BB"
	}

	if _, err := codec.Decode(tampered); err == nil {
		t.Error("Decode() accepted tampered token")
	}
}

func TestIDCodec_DecodeWrongKey(t *testing.T) {
	c1, _ := NewIDCodec(testKey)
	c2, _ := NewIDCodec("98765432109876543210987654321098")

	token, _ := c1.Encode("a1")
	if _, err := c2.Decode(token); err == nil {
		t.Error("Decode() succeeded with wrong key")
	}
}
