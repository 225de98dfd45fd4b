// Package tt implements the shared transposition cache: a fixed-size,
// lock-free array of 128-bit slots (two atomic 64-bit words each) with
// XOR-verified hashes, age-based replacement, and mate-distance grafting.
//
// Concurrency follows the "lockless XOR trick": a writer stores data then
// hash^data, in that order; a reader loads data then hash_xor_data and
// xors them back together to recover the hash. If a concurrent writer
// interleaves between the reader's two loads, the recovered hash will not
// match the position being probed and the entry is discarded as torn —
// there is no lock and no retry, a torn read is simply treated as a miss.
package tt

import (
	"errors"
	"sync/atomic"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
)

// Flag classifies a stored score relative to the window it was computed in.
type Flag uint8

const (
	Exact Flag = iota
	LowerBound
	UpperBound
)

const slotSize = 16 // bytes: two uint64 words

// ErrNotEnoughMemory is returned by New when size_bytes can't hold one slot.
var ErrNotEnoughMemory = errors.New("tt: size too small for a single slot")

// ErrTooManyEntries is returned by New when the requested size would exceed
// the 32-bit slot-count addressing this table uses.
var ErrTooManyEntries = errors.New("tt: capacity exceeds 2^32 slots")

// Entry is the decoded, in-memory form of a transposition cache slot.
type Entry struct {
	Flag  Flag
	Score eval.Eval
	Depth int8
	Move  board.Move
	Age   uint8
}

// slot holds the two atomic words of one cache line's worth of entry.
type slot struct {
	data        atomic.Uint64
	hashXorData atomic.Uint64
}

// Table is the shared, lock-free transposition cache.
type Table struct {
	slots    []slot
	capacity uint64
	age      atomic.Uint32

	probes atomic.Uint64
	hits   atomic.Uint64
}

// New builds a table with floor(sizeBytes/slotSize) slots.
func New(sizeBytes int) (*Table, error) {
	if sizeBytes < slotSize {
		return nil, ErrNotEnoughMemory
	}
	capacity := uint64(sizeBytes) / slotSize
	if capacity > 1<<32 {
		return nil, ErrTooManyEntries
	}
	return &Table{slots: make([]slot, capacity), capacity: capacity}, nil
}

// index applies the multiply-shift reduction: uniform over [0, capacity)
// without a modulo.
func (t *Table) index(hash uint64) uint64 {
	lo := hash & 0xFFFFFFFF
	return (lo * t.capacity) >> 32
}

func pack(e Entry) uint64 {
	v := uint64(e.Flag)
	v |= uint64(uint16(e.Score)) << 8
	v |= uint64(uint8(e.Depth)) << 24
	v |= uint64(uint16(e.Move)) << 32
	v |= uint64(e.Age) << 56
	return v
}

func unpack(v uint64) Entry {
	return Entry{
		Flag:  Flag(v & 0xFF),
		Score: eval.Eval(uint16(v >> 8)),
		Depth: int8(uint8(v >> 24)),
		Move:  board.Move(uint16(v >> 32)),
		Age:   uint8(v >> 56),
	}
}

// Prefetch is a non-blocking hint to warm the cache line for hash's slot.
// Go has no portable prefetch intrinsic, so this reads the slot's first
// word to pull the cache line in, mirroring what the underlying hardware
// prefetch instruction the spec describes would achieve, and is a no-op in
// effect beyond that single load — safe to call from any goroutine.
func (t *Table) Prefetch(hash uint64) {
	idx := t.index(hash)
	_ = t.slots[idx].data.Load()
}

// Get probes the table for hash, remapping any mate score from
// entry-relative to root-relative ply. Returns false on a miss or a torn
// read (detected via hash-XOR mismatch).
func (t *Table) Get(hash uint64, ply int) (Entry, bool) {
	t.probes.Add(1)
	idx := t.index(hash)
	s := &t.slots[idx]

	data := s.data.Load()
	if data == 0 {
		return Entry{}, false
	}
	hashXorData := s.hashXorData.Load()
	recoveredHash := hashXorData ^ data
	if recoveredHash != hash {
		return Entry{}, false
	}

	e := unpack(data)
	e.Score = fromTT(e.Score, ply)
	t.hits.Add(1)
	return e, true
}

// Set stores an entry under hash's slot, converting a root-relative mate
// score to entry-relative before writing. Replacement policy: always
// replace on an empty slot, a hash match, a depth at least as deep as the
// one stored, or an entry at least two generations stale.
func (t *Table) Set(hash uint64, ply int, e Entry) {
	idx := t.index(hash)
	s := &t.slots[idx]

	e.Score = toTT(e.Score, ply)
	e.Age = uint8(t.age.Load())

	oldData := s.data.Load()
	if oldData != 0 {
		recoveredHash := s.hashXorData.Load() ^ oldData
		if recoveredHash != hash {
			old := unpack(oldData)
			ageGap := int(e.Age) - int(old.Age)
			if ageGap < 0 {
				ageGap += 256
			}
			if int(e.Depth) < int(old.Depth) && ageGap < 2 {
				return
			}
		}
	}

	data := pack(e)
	s.data.Store(data)
	s.hashXorData.Store(hash ^ data)
}

// AgeBy advances the generation counter by n (wrap-around allowed).
func (t *Table) AgeBy(n uint8) {
	t.age.Add(uint32(n))
}

// Clear wipes every slot. Only legal between searches, never concurrently
// with probing/storing workers.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i].data.Store(0)
		t.slots[i].hashXorData.Store(0)
	}
	t.age.Store(0)
	t.probes.Store(0)
	t.hits.Store(0)
}

// ApproxSizePermill samples the first 1000 slots (or all of them, if fewer)
// and reports the occupied fraction in parts-per-thousand.
func (t *Table) ApproxSizePermill() int {
	n := uint64(1000)
	if n > t.capacity {
		n = t.capacity
	}
	if n == 0 {
		return 0
	}
	occupied := uint64(0)
	for i := uint64(0); i < n; i++ {
		if t.slots[i].data.Load() != 0 {
			occupied++
		}
	}
	return int(occupied * 1000 / n)
}

// mateOverflowCentipawn is the magnitude used to downgrade a mate score
// whose remapped distance no longer fits the 8-bit ply field tracked
// alongside it. 20000 sits well above any plausible hand-crafted or NNUE
// centipawn output but well below eval.MateThreshold, so it never gets
// mistaken for a real mate score downstream.
const mateOverflowCentipawn = 20000

// fromTT remaps a stored (entry-relative) mate score to root-relative by
// adding ply to the mate distance. If that remapped distance no longer
// fits the 8-bit ply field this cache associates with an entry, the mate
// score is downgraded to a large, sign-preserving centipawn value instead
// of silently wrapping into an illusory deeper mate.
func fromTT(score eval.Eval, ply int) eval.Eval {
	if score.IsMateIn() {
		p := score.MatePlies() + ply
		if p > 255 {
			return eval.Centipawn(mateOverflowCentipawn - p)
		}
		return eval.MateIn(p)
	}
	if score.IsMatedIn() {
		p := score.MatePlies() + ply
		if p > 255 {
			return eval.Centipawn(-(mateOverflowCentipawn - p))
		}
		return eval.MatedIn(p)
	}
	return score
}

// toTT remaps a root-relative mate score to entry-relative by subtracting
// ply from the mate distance before storage.
func toTT(score eval.Eval, ply int) eval.Eval {
	if score.IsMateIn() {
		p := score.MatePlies() - ply
		if p < 0 {
			p = 0
		}
		return eval.MateIn(p)
	}
	if score.IsMatedIn() {
		p := score.MatePlies() - ply
		if p < 0 {
			p = 0
		}
		return eval.MatedIn(p)
	}
	return score
}
