// Package embed wraps the embedding model behind a narrow, batched contract.
// Vectors are L2-normalized on the way out so cosine similarity reduces to a
// dot product everywhere downstream.
package embed

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
)

// ErrModelUnavailable marks a failure to reach or load the embedding model.
// Fatal to the run; callers must not retry locally.
var ErrModelUnavailable = eris.New("embedding model unavailable")

// Provider converts text to fixed-dimension vectors. Implementations are
// deterministic per model version and side-effect free.
type Provider interface {
	// Embed returns one L2-normalized vector per input text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the fixed output dimension of the model.
	Dimension() int
}

// Normalize scales v to unit length in place and returns it. A zero vector
// is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}

// Dot returns the dot product of two equal-length vectors. For normalized
// vectors this is the cosine similarity.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
