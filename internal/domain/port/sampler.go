package port

import (
	"context"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
)

// FrameSampler reads a video file and produces a fixed-length ordered
// sequence of decoded, resized frames. It returns
// *entity.DecodeShortfallError when the source yields fewer decodable frames
// than requested; it never returns a short sequence.
type FrameSampler interface {
	Sample(ctx context.Context, videoPath string, numFrames int) (entity.FrameSequence, error)
}
