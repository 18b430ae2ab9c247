package blockcipher

import "testing"

// FIPS-197 AES-128 known-answer test vector.
func TestEncryptKnownAnswer(t *testing.T) {
	key := Key128{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}
	plaintext := [BlockSize]byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
		0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
	}
	want := [BlockSize]byte{
		0x69, 0xc4, 0xe0, 0xd8, 0x6a, 0x7b, 0x04, 0x30,
		0xd8, 0xcd, 0xb7, 0x80, 0x70, 0xb4, 0xc5, 0x5a,
	}

	c := New(key)
	got := c.EncryptBlock(plaintext)
	if got != want {
		t.Fatalf("EncryptBlock(%x) = %x, want %x", plaintext, got, want)
	}
}

func TestEncryptAliasing(t *testing.T) {
	key := Key128{}
	c := New(key)
	var buf [BlockSize]byte
	for i := range buf {
		buf[i] = byte(i)
	}
	want := c.EncryptBlock(buf)

	c.Encrypt(&buf, &buf)
	if buf != want {
		t.Fatalf("in-place Encrypt = %x, want %x", buf, want)
	}
}

func TestEncryptDeterministic(t *testing.T) {
	key := Key128{1, 2, 3}
	c1 := New(key)
	c2 := New(key)
	var in [BlockSize]byte
	in[0] = 0xAB
	if c1.EncryptBlock(in) != c2.EncryptBlock(in) {
		t.Fatal("same key produced different ciphertexts")
	}
}
