// Package partitions implements the contiguous index-range split shared by
// the Pool and Distributed solver strategies: given a total cell count and
// a participant count, it answers which half-open range of cells a rank
// owns, and whether that range borders a neighbouring rank's range.
package partitions

import "fmt"

// Partition describes one rank's ownership of a contiguous slice of the
// global cell array, plus whether that slice borders another rank.
type Partition struct {
	Rank int
	Size int

	// First and Last bound the half-open range [First, Last) of global
	// cell indices this rank owns.
	First int
	Last  int

	// HasLeftHalo is true when this rank is not rank 0 and therefore needs
	// its left neighbour's boundary cell to evaluate the stencil at First.
	HasLeftHalo bool

	// HasRightHalo is true when this rank is not the last rank and
	// therefore needs its right neighbour's boundary cell to evaluate the
	// stencil at Last-1.
	HasRightHalo bool
}

// Split divides cells across size ranks using per = cells/size,
// extra = cells mod size: the first extra ranks get one additional cell,
// so no two ranks' shares differ by more than one cell.
func Split(cells, rank, size int) (Partition, error) {
	if size < 1 {
		return Partition{}, fmt.Errorf("partitions: size must be at least 1, got %d", size)
	}
	if rank < 0 || rank >= size {
		return Partition{}, fmt.Errorf("partitions: rank %d out of range for size %d", rank, size)
	}
	if cells < 3 {
		return Partition{}, fmt.Errorf("partitions: cells must be at least 3, got %d", cells)
	}

	per := cells / size
	extra := cells % size

	first := per*rank + min(rank, extra)
	last := first + per
	if rank < extra {
		last++
	}

	return Partition{
		Rank:         rank,
		Size:         size,
		First:        first,
		Last:         last,
		HasLeftHalo:  rank > 0,
		HasRightHalo: rank < size-1,
	}, nil
}

// Owns reports whether the given global cell index falls within this
// partition's [First, Last) range.
func (p Partition) Owns(i int) bool {
	return i >= p.First && i < p.Last
}

// Len returns the number of cells this partition owns.
func (p Partition) Len() int {
	return p.Last - p.First
}
