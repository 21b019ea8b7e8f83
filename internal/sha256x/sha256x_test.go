package sha256x

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectors(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", []byte(""), "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"some-test-file", []byte("some test file lol\n"), "4a79aed64097a0cd9e87f1e88e9ad771ddb5c5d762b3c3bbf02adf3112d5d375"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Sum256(c.in)
			require.Equal(t, c.want, hex.EncodeToString(got[:]))
		})
	}
}

func TestStreamingMatchesOneShot(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 100)
	want := Sum256(data)

	d := New()
	for i := 0; i < len(data); i += 17 {
		end := i + 17
		if end > len(data) {
			end = len(data)
		}
		_, _ = d.Write(data[i:end])
	}
	got := d.Sum(nil)
	require.Equal(t, want[:], got)
}

func TestHashInterface(t *testing.T) {
	d := New()
	require.Equal(t, Size, d.Size())
	require.Equal(t, BlockSize, d.BlockSize())
}
