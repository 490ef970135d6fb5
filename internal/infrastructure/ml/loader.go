package ml

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/compress/zstd"

	"github.com/fundchain/riskd/internal/domain/service"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Load reads, decodes and validates the artifact behind src. Artifacts may
// be plain JSON or zstd-compressed JSON.
func Load(ctx context.Context, src Source) (*Pipeline, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := bufio.NewReader(rc)
	head, err := r.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var body io.Reader = r
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer dec.Close()
		body = dec
	}

	var artifact Artifact
	if err := json.NewDecoder(body).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	return newPipeline(src.Location(), &artifact)
}

// LoadModelState loads the artifact once at startup. A failure is logged and
// reported as an unloaded state rather than returned.
func LoadModelState(ctx context.Context, location string, store ObjectStoreConfig, logger *slog.Logger) service.ModelState {
	state := service.ModelState{Location: location}

	src, err := NewSource(location, store)
	if err != nil {
		logger.Error("failed to resolve model location", "location", location, "error", err)
		state.LoadErr = err
		return state
	}

	pipeline, err := Load(ctx, src)
	if err != nil {
		logger.Error("failed to load model", "location", location, "error", err)
		state.LoadErr = err
		return state
	}

	logger.Info("model loaded",
		"location", location,
		"model_type", pipeline.modelType,
		"vocabulary_size", pipeline.VocabularySize(),
	)
	state.Classifier = pipeline
	return state
}
