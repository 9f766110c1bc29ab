package memo

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"

	"golang.org/x/crypto/blake2b"

	"vitiscli/pkg/contracts/domain"
)

// Fingerprint returns a BLAKE2b-256 digest of records in order. Any change to
// a category, year, volume or value produces a different fingerprint.
func Fingerprint(records []domain.TradeRecord) string {
	h, _ := blake2b.New256(nil) // only fails for oversized keys

	var buf [8]byte
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint(uint64(len(records)))
	for _, r := range records {
		writeUint(uint64(len(r.Category)))
		h.Write([]byte(r.Category))
		writeUint(uint64(int64(r.Year)))
		writeUint(math.Float64bits(r.Volume))
		writeUint(math.Float64bits(r.Value))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Key joins an operation name, its parameters and input fingerprints into a
// cache key.
func Key(operation string, parts ...string) string {
	return operation + "|" + strings.Join(parts, "|")
}
