package family

import (
	"fmt"
	"math/bits"
)

// Code tables.
//
// Each family's codebook is produced once at startup by a seeded
// accept/reject search: candidate patterns are drawn from a fixed-seed
// generator and accepted only if they keep the family's minimum Hamming
// distance from every previously accepted code and from every rotation of
// themselves and of the accepted codes. A candidate is additionally
// rejected when it would confuse an already generated family's decoder:
// neither may that decoder read the candidate's tag as one of its own
// codes, nor may this family's decoder read one of the earlier tags as the
// candidate (see crosscheck.go). Because the seeds and the search are
// fixed, the tables — and therefore tag IDs — are identical on every run.
//
// A tag's ID is its index in the family's table.

// tableSpec fixes the size and generator seed of each family's codebook.
var tableSpec = map[Selector]struct {
	size int
	seed uint64
}{
	Tag36h11:         {size: 96, seed: 0x36b11a57e0c1d2f3},
	Tag36h10:         {size: 96, seed: 0x36b10c4d9e8f7a61},
	Tag25h9:          {size: 35, seed: 0x25b9f0e1d2c3b4a5},
	Tag16h5:          {size: 30, seed: 0x16b5aa55cc33ee11},
	TagCircle21h7:    {size: 38, seed: 0x21b7123456789abc},
	TagCircle49h12:   {size: 96, seed: 0x49b12fedcba98765},
	TagCustom48h12:   {size: 96, seed: 0x48b12a1b2c3d4e5f},
	TagStandard41h12: {size: 64, seed: 0x41b12deadbeef042},
	TagStandard52h13: {size: 64, seed: 0x52b13cafef00d017},
}

// generationOrder runs the searches smallest code space first. The 16-bit
// family has little room once it must also dodge every larger family's
// decoder, so it generates under no cross constraints and the roomier
// families absorb them instead. Mutual exclusion is symmetric: each family
// checks both directions against all families generated before it.
var generationOrder = []Selector{
	Tag16h5,
	TagCircle21h7,
	Tag25h9,
	Tag36h11,
	Tag36h10,
	TagStandard41h12,
	TagCustom48h12,
	TagCircle49h12,
	TagStandard52h13,
}

var codeTables = func() map[Selector][]uint64 {
	tables := make(map[Selector][]uint64, len(tableSpec))
	for _, sel := range generationOrder {
		tables[sel] = generateCodes(sel, tables)
	}
	return tables
}()

// Codes returns the family's codebook. Index i is the code for tag ID i.
//
// The returned slice is shared; callers must treat it as read-only.
func Codes(sel Selector) ([]uint64, error) {
	codes, ok := codeTables[sel]
	if !ok {
		return nil, fmt.Errorf("unknown family selector %d", int(sel))
	}
	return codes, nil
}

// CodeFromBits packs a bit vector (indexed as Layout.Bits) into a code,
// most significant bit first.
func (l *Layout) CodeFromBits(b []bool) uint64 {
	var code uint64
	n := len(b)
	for i, set := range b {
		if set {
			code |= 1 << uint(n-1-i)
		}
	}
	return code
}

// BitsFromCode unpacks a code into a bit vector indexed as Layout.Bits.
func (l *Layout) BitsFromCode(code uint64) []bool {
	n := l.NumBits()
	b := make([]bool, n)
	for i := 0; i < n; i++ {
		b[i] = code&(1<<uint(n-1-i)) != 0
	}
	return b
}

// rotations returns the codes of all four rotations of a bit vector,
// starting with the unrotated code.
func (l *Layout) rotations(b []bool) [4]uint64 {
	var out [4]uint64
	cur := b
	for r := 0; r < 4; r++ {
		out[r] = l.CodeFromBits(cur)
		cur = l.Rotate(cur)
	}
	return out
}

// generateCodes runs the seeded accept/reject search for one family. done
// holds the tables of the families generated before it; candidates
// colliding with those under resampling are rejected.
func generateCodes(sel Selector, done map[Selector][]uint64) []uint64 {
	l := layouts[sel]
	spec := tableSpec[sel]
	mask := uint64(1)<<uint(l.NumBits()) - 1
	rng := splitmix64(spec.seed)

	// Words this family's decoder reads from the earlier families' tags;
	// every candidate must stay outside their correctable radius.
	var foreign []uint64
	for _, prev := range generationOrder {
		if prev == sel {
			break
		}
		pl := layouts[prev]
		for _, code := range done[prev] {
			if w, ok := resampleWord(l, pl.cellGrid(code)); ok {
				foreign = append(foreign, w)
			}
		}
	}

	codes := make([]uint64, 0, spec.size)
	accepted := make([][4]uint64, 0, spec.size)

	for len(codes) < spec.size {
		cand := rng() & mask
		rots := l.rotations(l.BitsFromCode(cand))

		if !rotationDistinct(rots, l.MinHamming) {
			continue
		}
		ok := true
		for _, a := range accepted {
			if !separated(cand, a, l.MinHamming) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		ok = true
		for _, w := range foreign {
			if l.wordCollides(w, []uint64{cand}) {
				ok = false
				break
			}
		}
		if !ok || crossHit(sel, cand, done) {
			continue
		}

		codes = append(codes, cand)
		accepted = append(accepted, rots)
	}
	return codes
}

// rotationDistinct reports whether a code keeps at least minHamming bits of
// distance from each of its own non-trivial rotations, so that the decoder
// can recover a tag's orientation unambiguously.
func rotationDistinct(rots [4]uint64, minHamming int) bool {
	for r := 1; r < 4; r++ {
		if bits.OnesCount64(rots[0]^rots[r]) < minHamming {
			return false
		}
	}
	return true
}

// separated reports whether cand keeps at least minHamming bits of distance
// from every rotation of an accepted code. Rotation is a fixed permutation
// of bit positions, so checking cand against all rotations of the other
// code covers every rotation pairing.
func separated(cand uint64, other [4]uint64, minHamming int) bool {
	for _, o := range other {
		if bits.OnesCount64(cand^o) < minHamming {
			return false
		}
	}
	return true
}

// splitmix64 returns a deterministic 64-bit generator seeded with seed.
func splitmix64(seed uint64) func() uint64 {
	state := seed
	return func() uint64 {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		return z ^ (z >> 31)
	}
}
