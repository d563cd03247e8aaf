package crypto

import (
	"bytes"
	"errors"
	"testing"
)

var errNoKey = errors.New("master key not found")

// staticSource hands out a copy of a fixed key and counts lookups
type staticSource struct {
	key   []byte
	err   error
	calls int
}

func (s *staticSource) Retrieve() ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]byte(nil), s.key...), nil
}

func newSource(t *testing.T) *staticSource {
	t.Helper()
	key, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey failed: %v", err)
	}
	return &staticSource{key: key}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func withFailingRand(t *testing.T) {
	t.Helper()
	prev := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = prev })
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"hello", []byte("hello")},
		{"binary", []byte{0x00, 0xff, 0x7f, 0x80}},
		{"large", bytes.Repeat([]byte("vault"), 20000)},
	}

	fc := NewFileCipher(newSource(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := fc.Encrypt(tt.plaintext, "file-1")
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			if want := MinEnvelope + len(tt.plaintext); len(envelope) != want {
				t.Errorf("envelope length = %d, want %d", len(envelope), want)
			}

			decrypted, err := fc.Decrypt(envelope, "file-1")
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted, tt.plaintext) {
				t.Errorf("decrypted = %q, want %q", decrypted, tt.plaintext)
			}
		})
	}
}

func TestEncrypt_FreshNonceEachCall(t *testing.T) {
	fc := NewFileCipher(newSource(t))

	a, err := fc.Encrypt([]byte("same"), "f1")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	b, err := fc.Encrypt([]byte("same"), "f1")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if bytes.Equal(a[:NonceSize], b[:NonceSize]) {
		t.Error("two encryptions reused a nonce")
	}
	if bytes.Equal(a, b) {
		t.Error("two encryptions produced identical envelopes")
	}
}

func TestDecrypt_TamperDetection(t *testing.T) {
	fc := NewFileCipher(newSource(t))

	envelope, err := fc.Encrypt([]byte("hello"), "f1")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	for i := range envelope {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte(nil), envelope...)
			tampered[i] ^= 1 << bit

			plaintext, err := fc.Decrypt(tampered, "f1")
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Fatalf("byte %d bit %d: err = %v, want ErrDecryptionFailed", i, bit, err)
			}
			if plaintext != nil {
				t.Fatalf("byte %d bit %d: got plaintext %q from tampered envelope", i, bit, plaintext)
			}
		}
	}
}

func TestDecrypt_ShortInputRejectedBeforeKeyLookup(t *testing.T) {
	src := newSource(t)
	fc := NewFileCipher(src)

	for n := 0; n < MinEnvelope; n++ {
		_, err := fc.Decrypt(make([]byte, n), "f1")
		if !errors.Is(err, ErrInvalidData) {
			t.Errorf("len %d: err = %v, want ErrInvalidData", n, err)
		}
	}

	if src.calls != 0 {
		t.Errorf("master key fetched %d times for short input", src.calls)
	}
}

func TestDecrypt_WrongFileID(t *testing.T) {
	fc := NewFileCipher(newSource(t))

	envelope, err := fc.Encrypt([]byte("hello"), "f1")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := fc.Decrypt(envelope, "f2"); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("err = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_WrongMasterKey(t *testing.T) {
	envelope, err := NewFileCipher(newSource(t)).Encrypt([]byte("hello"), "f1")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := NewFileCipher(newSource(t)).Decrypt(envelope, "f1"); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("err = %v, want ErrDecryptionFailed", err)
	}
}

func TestFileCipher_PropagatesKeySourceError(t *testing.T) {
	fc := NewFileCipher(&staticSource{err: errNoKey})

	if _, err := fc.Encrypt([]byte("hello"), "f1"); err != errNoKey {
		t.Errorf("Encrypt err = %v, want unchanged %v", err, errNoKey)
	}
	if _, err := fc.Decrypt(make([]byte, 40), "f1"); err != errNoKey {
		t.Errorf("Decrypt err = %v, want unchanged %v", err, errNoKey)
	}
}

func TestFileCipher_EmptyFileID(t *testing.T) {
	fc := NewFileCipher(newSource(t))

	if _, err := fc.Encrypt([]byte("hello"), ""); !errors.Is(err, ErrInvalidFileID) {
		t.Errorf("err = %v, want ErrInvalidFileID", err)
	}
}

func TestDeriveFileKey(t *testing.T) {
	master := bytes.Repeat([]byte{0x42}, KeySize)

	k1, err := DeriveFileKey(master, "f1")
	if err != nil {
		t.Fatalf("DeriveFileKey() error = %v", err)
	}
	again, err := DeriveFileKey(master, "f1")
	if err != nil {
		t.Fatalf("DeriveFileKey() error = %v", err)
	}
	k2, err := DeriveFileKey(master, "f2")
	if err != nil {
		t.Fatalf("DeriveFileKey() error = %v", err)
	}

	if len(k1) != KeySize {
		t.Errorf("key length = %d, want %d", len(k1), KeySize)
	}
	if !bytes.Equal(k1, again) {
		t.Error("DeriveFileKey is not deterministic")
	}
	if bytes.Equal(k1, k2) {
		t.Error("distinct file ids produced the same key")
	}
	if bytes.Equal(k1, master) {
		t.Error("file key equals master key")
	}

	if _, err := DeriveFileKey(master, ""); !errors.Is(err, ErrInvalidFileID) {
		t.Errorf("empty id: err = %v, want ErrInvalidFileID", err)
	}
	if _, err := DeriveFileKey(master[:16], "f1"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("short master: err = %v, want ErrInvalidKey", err)
	}
}

func TestDeriveMasterKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{0x07}, 64)

	a := DeriveMasterKeyFromSeed(seed, []byte("salt-a"))
	b := DeriveMasterKeyFromSeed(seed, []byte("salt-a"))
	c := DeriveMasterKeyFromSeed(seed, []byte("salt-b"))

	if len(a) != KeySize {
		t.Fatalf("key length = %d, want %d", len(a), KeySize)
	}
	if !bytes.Equal(a, b) {
		t.Error("same seed and salt produced different keys")
	}
	if bytes.Equal(a, c) {
		t.Error("different salts produced the same key")
	}
	if bytes.Equal(a, seed[:KeySize]) {
		t.Error("master key is a plain truncation of the seed")
	}
}

func TestGenerateMasterKey(t *testing.T) {
	a, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey() error = %v", err)
	}
	b, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey() error = %v", err)
	}

	if len(a) != KeySize || len(b) != KeySize {
		t.Fatalf("key lengths = %d, %d, want %d", len(a), len(b), KeySize)
	}
	if bytes.Equal(a, b) {
		t.Error("two generated master keys are identical")
	}
}

func TestRandomFailures(t *testing.T) {
	withFailingRand(t)

	if _, err := GenerateMasterKey(); err == nil {
		t.Error("GenerateMasterKey succeeded without entropy")
	}

	key := bytes.Repeat([]byte{1}, KeySize)
	if _, err := Seal(key, []byte("x")); !errors.Is(err, ErrEncryptionFailed) {
		t.Errorf("Seal err = %v, want ErrEncryptionFailed", err)
	}
}

func TestSeal_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 64} {
		if _, err := Seal(make([]byte, size), []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("key size %d: err = %v, want ErrInvalidKey", size, err)
		}
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte{1, 2, 3}
	ClearBytes(b)
	if !bytes.Equal(b, []byte{0, 0, 0}) {
		t.Errorf("ClearBytes left %v", b)
	}
}
