package game

import (
	"encoding/binary"
	"math/rand"
	"time"
)

// Random is the randomness the engine and AI draw from. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
	Read(p []byte) (int, error)
}

// NewRandom returns a seeded source (0 => time-based).
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ScriptedRandom replays queued values for deterministic tests.
// Shuffle leaves order untouched; Intn and Float64 return 0 once their queue is drained.
type ScriptedRandom struct {
	Ints   []int
	Floats []float64
	reads  uint32
}

func (r *ScriptedRandom) Intn(n int) int {
	if len(r.Ints) == 0 {
		return 0
	}
	v := r.Ints[0]
	r.Ints = r.Ints[1:]
	return v % n
}

func (r *ScriptedRandom) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	v := r.Floats[0]
	r.Floats = r.Floats[1:]
	return v
}

func (r *ScriptedRandom) Shuffle(n int, swap func(i, j int)) {}

// Read fills p with a counter so each generated ID is distinct.
func (r *ScriptedRandom) Read(p []byte) (int, error) {
	clear(p)
	r.reads++
	if len(p) >= 4 {
		binary.BigEndian.PutUint32(p, r.reads)
	}
	return len(p), nil
}
