package cv

import (
	cryptorand "crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"
)

// Entropy supplies the random bytes used for new bases and spin values. Implementations must be
// safe for concurrent use and must not block.
type Entropy interface {
	Fill(p []byte)
}

type lockedSource struct {
	mu  sync.Mutex
	src *rand.ChaCha8
}

// NewEntropy returns a fast pseudo-random Entropy seeded once from crypto/rand. Low collision
// probability is all that is needed here, not cryptographic strength.
func NewEntropy() Entropy {
	var seed [32]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		binary.LittleEndian.PutUint64(seed[:], uint64(time.Now().UnixNano()))
	}
	return NewSeededEntropy(seed)
}

// NewSeededEntropy returns a deterministic Entropy, mostly useful in tests.
func NewSeededEntropy(seed [32]byte) Entropy {
	return &lockedSource{src: rand.NewChaCha8(seed)}
}

func (s *lockedSource) Fill(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ChaCha8.Read never fails.
	_, _ = s.src.Read(p)
}

// randomBase draws a fresh base for the given version.
func randomBase(e Entropy, v Version) string {
	pol := v.policy()
	if pol.seeded {
		var seed [16]byte
		e.Fill(seed[:])
		return seedBase(seed)
	}

	base := make([]byte, 0, pol.baseLength)
	var buf [16]byte
	for len(base) < pol.baseLength {
		e.Fill(buf[:])
		for _, b := range buf {
			// The low six bits pick a base64 character; + and / are rejected so that random
			// bases stay alphanumeric.
			if idx := b & 0x3f; int(idx) < len(alphanumeric) && len(base) < pol.baseLength {
				base = append(base, alphanumeric[idx])
			}
		}
	}
	return string(base)
}

// seedBase encodes 128 bits as 22 base64 characters, the last of which carries only two
// significant bits and is therefore one of A, Q, g or w.
func seedBase(seed [16]byte) string {
	return base64.RawStdEncoding.EncodeToString(seed[:])
}

// unixEpochTicks is 1970-01-01 expressed in 100ns ticks since 0001-01-01, the clock spin values
// are defined against.
const unixEpochTicks = 621355968000000000

func ticks(t time.Time) uint64 {
	return uint64(t.UnixNano()/100 + unixEpochTicks)
}
