package lispy

import (
	"encoding/binary"

	"github.com/glycerine/blake2b"
)

// Blake2bUint64 returns an 8 byte BLAKE2b cryptographic
// hash of the raw.
//
// reference: https://blake2.net/
// reference: https://tools.ietf.org/html/rfc7693
func Blake2bUint64(raw []byte) uint64 {
	cfg := &blake2b.Config{Size: 8}
	h, err := blake2b.New(cfg)
	panicOn(err)
	h.Write(raw)
	by := h.Sum(nil)
	return binary.LittleEndian.Uint64(by[:8])
}

// HashFunction hashes the printed form of its argument, so values
// that are == hash alike.
func HashFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return nil, wrongNargs(name, len(args), 1)
	}
	return MakeNum(int64(Blake2bUint64([]byte(args[0].SexpString())))), nil
}

func panicOn(err error) {
	if err != nil {
		panic(err)
	}
}
