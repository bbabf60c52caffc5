package calendarsync

import (
	"errors"
	"testing"
)

func testKey() *[32]byte {
	var key [32]byte
	for i := range key {
		key[i] = byte(i)
	}
	return &key
}

func TestSealOpenCredential(t *testing.T) {
	key := testKey()
	sealed, err := SealCredential(key, "refresh-token-value")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	opened, err := OpenCredential(key, sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != "refresh-token-value" {
		t.Errorf("opened = %q", opened)
	}
}

func TestOpenCredential_CorruptIsInvalid(t *testing.T) {
	key := testKey()
	sealed, err := SealCredential(key, "refresh-token-value")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff

	_, err = OpenCredential(key, sealed)
	if !errors.Is(err, ErrCredentialInvalid) {
		t.Errorf("err = %v, want ErrCredentialInvalid", err)
	}
}

func TestOpenCredential_WrongKeyIsInvalid(t *testing.T) {
	sealed, err := SealCredential(testKey(), "refresh-token-value")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	var otherKey [32]byte
	_, err = OpenCredential(&otherKey, sealed)
	if !errors.Is(err, ErrCredentialInvalid) {
		t.Errorf("err = %v, want ErrCredentialInvalid", err)
	}
}

func TestOpenCredential_TooShortIsInvalid(t *testing.T) {
	_, err := OpenCredential(testKey(), []byte("short"))
	if !errors.Is(err, ErrCredentialInvalid) {
		t.Errorf("err = %v, want ErrCredentialInvalid", err)
	}
}
