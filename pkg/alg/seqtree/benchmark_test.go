package seqtree

import (
	"testing"
)

// Benchmark constants.
const (
	benchLen  = 200000
	benchSpan = 1000
)

func benchmarkReverse(b *testing.B, backend Backend) {
	seq := NewSequence(backend, identity(benchLen), testSeed)

	b.ResetTimer()

	for i := range b.N {
		lo := 1 + (i*7919)%(benchLen-benchSpan)
		seq.Reverse(lo, lo+benchSpan)
	}
}

func benchmarkSwapBlocks(b *testing.B, backend Backend) {
	seq := NewSequence(backend, identity(benchLen), testSeed)

	b.ResetTimer()

	for i := range b.N {
		lo := 1 + (i*7919)%(benchLen-2*benchSpan)
		seq.SwapBlocks(lo, lo+benchSpan-1, lo+2*benchSpan-1, i%2 == 0, false)
	}
}

// BenchmarkReverse_Treap benchmarks range reversal on the treap backend.
func BenchmarkReverse_Treap(b *testing.B) { benchmarkReverse(b, BackendTreap) }

// BenchmarkReverse_Splay benchmarks range reversal on the bounded splay backend.
func BenchmarkReverse_Splay(b *testing.B) { benchmarkReverse(b, BackendSplay) }

// BenchmarkSwapBlocks_Treap benchmarks block swaps on the treap backend.
func BenchmarkSwapBlocks_Treap(b *testing.B) { benchmarkSwapBlocks(b, BackendTreap) }

// BenchmarkSwapBlocks_Splay benchmarks block swaps on the bounded splay backend.
func BenchmarkSwapBlocks_Splay(b *testing.B) { benchmarkSwapBlocks(b, BackendSplay) }

// BenchmarkNewTree benchmarks building a treap from a slice.
func BenchmarkNewTree(b *testing.B) {
	values := identity(benchLen)

	for range b.N {
		NewTree(BackendTreap, values, testSeed)
	}
}
