// Package pool provides bucketed sync.Pool instances for the float64
// working buffers of the diffusion pass. Buffers are organized by size
// class to minimize waste; repeated runs over same-sized images (animation
// frames in particular) reuse their scratch space instead of reallocating.
package pool

import "sync"

// Size classes for bucketed pools, in float64 elements.
const (
	Size256  = 256     // 16x16
	Size1K   = 1024    // 32x32
	Size16K  = 16384   // 128x128
	Size256K = 262144  // 512x512
	Size1M   = 1048576 // 1024x1024
	Size4M   = 4194304 // 2048x2048
)

// bucketIndex returns the pool index for a given element count.
func bucketIndex(n int) int {
	switch {
	case n <= Size256:
		return 0
	case n <= Size1K:
		return 1
	case n <= Size16K:
		return 2
	case n <= Size256K:
		return 3
	case n <= Size1M:
		return 4
	default:
		return 5
	}
}

var sizes = [6]int{Size256, Size1K, Size16K, Size256K, Size1M, Size4M}

var pools [6]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]float64, sz)
				return &b
			},
		}
	}
}

// GetFloat64 returns a float64 slice of exactly the requested length from
// the pool. The contents are unspecified; callers overwrite every element.
// The caller must call PutFloat64 when done.
func GetFloat64(n int) []float64 {
	idx := bucketIndex(n)
	bp := pools[idx].Get().(*[]float64)
	b := *bp
	if cap(b) < n {
		b = make([]float64, n)
		*bp = b
		return b
	}
	return b[:n]
}

// PutFloat64 returns a slice to the pool. The slice must have been obtained
// from GetFloat64. Slices smaller than Size256 are not pooled.
func PutFloat64(b []float64) {
	c := cap(b)
	if c < Size256 {
		return
	}
	idx := bucketIndex(c)
	b = b[:c]
	pools[idx].Put(&b)
}
