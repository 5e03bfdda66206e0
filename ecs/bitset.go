package ecs

import "github.com/RoaringBitmap/roaring/v2"

// domainBitset tracks which entity indices currently have a footprint in a
// domain. A Transversal query plan uses this to test "does this entity
// also live in domain D" in O(1) before paying for a page lookup, instead
// of probing every peer domain's page set per candidate entity.
type domainBitset struct {
	bits *roaring.Bitmap
}

func newDomainBitset() *domainBitset {
	return &domainBitset{bits: roaring.New()}
}

func (b *domainBitset) set(index uint32) {
	b.bits.Add(index)
}

func (b *domainBitset) clear(index uint32) {
	b.bits.Remove(index)
}

func (b *domainBitset) contains(index uint32) bool {
	return b.bits.Contains(index)
}

func (b *domainBitset) cardinality() uint64 {
	return b.bits.GetCardinality()
}
