package words

import "math/bits"

// Bitvec is a fixed size bit set that tracks its population count.
type Bitvec struct {
	Bytes []uint64
	Size  int
	Count int
}

func NewBitvec(size int) *Bitvec {
	numBytes := (size + 63) / 64
	return &Bitvec{Bytes: make([]uint64, numBytes), Size: size}
}

func (bv *Bitvec) Set(index int) {
	byteIndex := index / 64
	bitIndex := index % 64
	if (bv.Bytes[byteIndex] & (1 << bitIndex)) == 0 {
		bv.Bytes[byteIndex] |= 1 << bitIndex
		bv.Count++
	}
}

func (bv *Bitvec) Get(index int) bool {
	if index < 0 || index >= bv.Size {
		return false
	}
	byteIndex := index / 64
	bitIndex := index % 64
	return (bv.Bytes[byteIndex] & (1 << bitIndex)) != 0
}

func (bv *Bitvec) And(other *Bitvec) *Bitvec {
	minLen := min(len(other.Bytes), len(bv.Bytes))

	result := &Bitvec{Bytes: make([]uint64, minLen), Size: min(bv.Size, other.Size)}
	for i := range minLen {
		result.Bytes[i] = bv.Bytes[i] & other.Bytes[i]
		result.Count += bits.OnesCount64(result.Bytes[i])
	}
	return result
}

// Indices returns the set bits in ascending order.
func (bv *Bitvec) Indices() []int {
	out := make([]int, 0, bv.Count)
	for i, b := range bv.Bytes {
		for b != 0 {
			out = append(out, i*64+bits.TrailingZeros64(b))
			b &= b - 1
		}
	}
	return out
}
