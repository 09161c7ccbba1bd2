package engine

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/generative"
	"github.com/sells-group/intel-engine/internal/vectorindex"
)

// IsModelUnavailable reports whether err is a fatal model-unreachable
// failure from either the embedding or the generative contract.
func IsModelUnavailable(err error) bool {
	return eris.Is(err, embed.ErrModelUnavailable) ||
		eris.Is(err, generative.ErrModelUnavailable)
}

// IsVectorBackendFailure reports whether err is a distributed vector index
// failure, recoverable once per run by falling back to the in-memory index.
func IsVectorBackendFailure(err error) bool {
	return eris.Is(err, vectorindex.ErrBackend)
}
