package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMediaType is returned before any decoding when a request
	// declares a payload type other than "video".
	ErrUnsupportedMediaType = errors.New("only video type is supported")

	// ErrCorpusNotBuilt is returned when the training corpus is consulted
	// before a build has completed.
	ErrCorpusNotBuilt = errors.New("training corpus has not been built")
)

// DecodeShortfallError reports that a video yielded fewer decodable frames
// than the sampler requires. It is fatal to the extraction attempt that
// raised it, but callers building the corpus catch it and skip the example.
type DecodeShortfallError struct {
	Obtained int
	Expected int
}

func (e *DecodeShortfallError) Error() string {
	return fmt.Sprintf("only %d frames could be read, expected %d", e.Obtained, e.Expected)
}

// EmbeddingError wraps a failure of the embedding model collaborator.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding model failure: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
