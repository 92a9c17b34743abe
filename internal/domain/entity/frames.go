package entity

import "fmt"

const (
	// DefaultNumFrames is the fixed temporal length of a sampled sequence.
	DefaultNumFrames = 32

	// DefaultAlpha is the temporal stride between the fast and slow pathways.
	DefaultAlpha = 4

	// FrameSize is the spatial edge length frames are resized to.
	FrameSize = 224

	// FrameChannels is the number of color channels per frame (RGB).
	FrameChannels = 3
)

// Frame holds one decoded RGB frame as interleaved HWC float32 values in [0, 1].
type Frame []float32

// FrameSequence is an ordered run of exactly NumFrames decoded, resized frames.
// Construction fails upstream with DecodeShortfallError rather than ever
// producing a short sequence.
type FrameSequence struct {
	Frames []Frame
	Width  int
	Height int
}

// PathwayPair is the dual-rate representation consumed by the embedding
// model: the fast pathway carries every frame, the slow pathway every
// alpha-th frame. Slow frames alias the fast pathway's backing data; neither
// pathway is mutated after packing.
type PathwayPair struct {
	Slow   []Frame
	Fast   []Frame
	Width  int
	Height int
}

// Pack derives the two pathways from a frame sequence. It is a pure
// function; alpha < 1 is a programmer error.
func Pack(seq FrameSequence, alpha int) PathwayPair {
	if alpha < 1 {
		panic(fmt.Sprintf("pack: alpha must be >= 1, got %d", alpha))
	}

	fast := seq.Frames
	slow := make([]Frame, 0, (len(fast)+alpha-1)/alpha)
	for i := 0; i < len(fast); i += alpha {
		slow = append(slow, fast[i])
	}

	return PathwayPair{
		Slow:   slow,
		Fast:   fast,
		Width:  seq.Width,
		Height: seq.Height,
	}
}

// Normalize returns a copy of the sequence with channel-wise mean/std
// normalization applied. The input frames are left untouched.
func Normalize(seq FrameSequence, mean, std [FrameChannels]float32) FrameSequence {
	out := FrameSequence{
		Frames: make([]Frame, len(seq.Frames)),
		Width:  seq.Width,
		Height: seq.Height,
	}
	for i, frame := range seq.Frames {
		normalized := make(Frame, len(frame))
		for j, v := range frame {
			c := j % FrameChannels
			normalized[j] = (v - mean[c]) / std[c]
		}
		out.Frames[i] = normalized
	}
	return out
}
