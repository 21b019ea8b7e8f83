package keys

import (
	"math/big"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/hash"
)

// base58Alphabet omits the visually ambiguous characters 0, O, I, l.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var base58Index = func() map[byte]int64 {
	m := make(map[byte]int64, len(base58Alphabet))
	for i := 0; i < len(base58Alphabet); i++ {
		m[base58Alphabet[i]] = int64(i)
	}
	return m
}()

// Base58Encode encodes b using Bitcoin's Base58 alphabet, preserving
// leading zero bytes as leading '1' characters.
func Base58Encode(b []byte) string {
	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}

	num := new(big.Int).SetBytes(b)
	base := big.NewInt(58)
	zero := big.NewInt(0)
	mod := new(big.Int)

	var out []byte
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		out = append(out, base58Alphabet[0])
	}
	// digits were produced least-significant-first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// Base58Decode inverts Base58Encode.
func Base58Decode(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == base58Alphabet[0] {
		zeros++
	}

	num := new(big.Int)
	base := big.NewInt(58)
	for i := 0; i < len(s); i++ {
		digit, ok := base58Index[s[i]]
		if !ok {
			return nil, bterrors.Newf(bterrors.Parse, "Base58Decode", "invalid base58 character %q", s[i])
		}
		num.Mul(num, base)
		num.Add(num, big.NewInt(digit))
	}

	decoded := num.Bytes()
	out := make([]byte, zeros+len(decoded))
	copy(out[zeros:], decoded)
	return out, nil
}

// Base58CheckEncode appends the first 4 bytes of HASH256(payload) to
// payload and Base58-encodes the result.
func Base58CheckEncode(payload []byte) string {
	checksum := hash.Sum256(payload)
	full := append(append([]byte{}, payload...), checksum[:4]...)
	return Base58Encode(full)
}

// Base58CheckDecode inverts Base58CheckEncode, rejecting a payload
// whose trailing 4 bytes do not match HASH256 of the rest.
func Base58CheckDecode(s string) ([]byte, error) {
	full, err := Base58Decode(s)
	if err != nil {
		return nil, err
	}
	if len(full) < 4 {
		return nil, bterrors.Newf(bterrors.Parse, "Base58CheckDecode", "payload too short for checksum")
	}
	payload, checksum := full[:len(full)-4], full[len(full)-4:]
	want := hash.Sum256(payload)
	for i := 0; i < 4; i++ {
		if checksum[i] != want[i] {
			return nil, bterrors.Newf(bterrors.Crypto, "Base58CheckDecode", "checksum mismatch")
		}
	}
	return payload, nil
}
