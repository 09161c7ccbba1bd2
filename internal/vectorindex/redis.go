package vectorindex

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/intel-engine/internal/model"
)

const (
	probeTimeout = 3 * time.Second

	// hnswM is the HNSW graph connectivity parameter passed to FT.CREATE.
	hnswM = 16
)

// Redis is the distributed backend: one fresh RediSearch collection per run,
// HNSW cosine index, bulk HSET inserts and native KNN search.
type Redis struct {
	client    rueidis.Client
	index     string
	keyPrefix string
	dimension int
	nextID    int
}

// OpenRedis connects to Redis Stack, probes reachability and creates the
// per-run collection. The caller owns Close, which drops the collection.
func OpenRedis(ctx context.Context, cfg Config, dimension int) (*Redis, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{cfg.RedisAddr},
		Password:     cfg.RedisPassword,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH parsing expects RESP2 arrays
	})
	if err != nil {
		return nil, eris.Wrapf(ErrBackend, "redis index: connect: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, eris.Wrapf(ErrBackend, "redis index: ping: %v", err)
	}

	runID := uuid.NewString()
	r := &Redis{
		client:    client,
		index:     "intel:" + runID,
		keyPrefix: "intel:" + runID + ":",
		dimension: dimension,
	}
	if err := r.createCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}

	zap.L().Debug("vectorindex: redis collection created",
		zap.String("index", r.index),
		zap.Int("dimension", dimension),
	)
	return r, nil
}

// Backend implements Index.
func (r *Redis) Backend() string { return "redis" }

func (r *Redis) createCollection(ctx context.Context) error {
	cmd := r.client.B().Arbitrary("FT.CREATE").Args(
		r.index,
		"ON", "HASH",
		"PREFIX", "1", r.keyPrefix,
		"SCHEMA",
		"text", "TEXT",
		"source", "TEXT",
		"embedding", "VECTOR", "HNSW", "8",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(r.dimension),
		"DISTANCE_METRIC", "COSINE",
		"M", strconv.Itoa(hnswM),
	).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return eris.Wrapf(ErrBackend, "redis index: create collection: %v", err)
	}
	return nil
}

// Insert implements Index: one HSET per chunk in a single DoMulti round-trip.
func (r *Redis) Insert(ctx context.Context, chunks []model.TextChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) != r.dimension {
			return eris.Errorf("redis index: vector dimension %d, want %d", len(c.Embedding), r.dimension)
		}
		key := r.keyPrefix + strconv.Itoa(r.nextID)
		r.nextID++
		cmds[i] = r.client.B().Hset().Key(key).FieldValue().
			FieldValue("text", c.Text).
			FieldValue("source", c.SourceTitle).
			FieldValue("embedding", vectorToBytes(c.Embedding)).
			Build()
	}

	for _, res := range r.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return eris.Wrapf(ErrBackend, "redis index: insert: %v", err)
		}
	}
	return nil
}

// Query implements Index via FT.SEARCH KNN. Cosine distance from RediSearch
// is converted back to similarity and filtered against SimilarityFloor.
func (r *Redis) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}

	query := fmt.Sprintf("*=>[KNN %d @embedding $BLOB AS dist]", k)
	cmd := r.client.B().Arbitrary("FT.SEARCH").Args(
		r.index, query,
		"SORTBY", "dist",
		"RETURN", "3", "text", "source", "dist",
		"LIMIT", "0", strconv.Itoa(k),
		"PARAMS", "2", "BLOB", vectorToBytes(vector),
		"DIALECT", "2",
	).Build()

	raw, err := r.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, eris.Wrapf(ErrBackend, "redis index: search: %v", err)
	}
	return parseSearchReply(raw)
}

// Close implements Index: drops the run's collection and its documents.
func (r *Redis) Close(ctx context.Context) error {
	cmd := r.client.B().Arbitrary("FT.DROPINDEX").Args(r.index, "DD").Build()
	err := r.client.Do(ctx, cmd).Error()
	r.client.Close()
	if err != nil {
		return eris.Wrapf(ErrBackend, "redis index: drop collection: %v", err)
	}
	return nil
}

// parseSearchReply decodes the RESP2 FT.SEARCH reply: a count followed by
// alternating document keys and flat field arrays.
func parseSearchReply(raw []rueidis.RedisMessage) ([]Match, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var matches []Match
	for i := 1; i+1 < len(raw); i += 2 {
		fields, err := raw[i+1].AsStrMap()
		if err != nil {
			return nil, eris.Wrapf(ErrBackend, "redis index: parse result fields: %v", err)
		}

		dist, err := strconv.ParseFloat(fields["dist"], 64)
		if err != nil {
			return nil, eris.Wrapf(ErrBackend, "redis index: parse distance %q: %v", fields["dist"], err)
		}

		sim := 1 - dist
		if sim < SimilarityFloor {
			continue
		}
		matches = append(matches, Match{
			Chunk: model.TextChunk{
				Text:        fields["text"],
				SourceTitle: fields["source"],
			},
			Similarity: sim,
		})
	}
	return matches, nil
}

// vectorToBytes encodes a float32 vector as the little-endian binary blob
// RediSearch expects.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func zapWarnFallback(err error) {
	zap.L().Warn("vectorindex: distributed backend unavailable, using in-memory index",
		zap.Error(err),
	)
}
