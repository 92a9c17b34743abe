package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"github.com/jantenesse/bjj-classifier/internal/infra/metrics"
	"go.uber.org/zap"
)

// Sampler decodes a fixed-length, evenly-strided frame sequence from a video
// file using ffmpeg/ffprobe. One decode pass is attempted per call; the
// child process is reaped on every path.
type Sampler struct {
	frameSize int
	logger    *zap.Logger
}

func NewSampler(frameSize int, logger *zap.Logger) *Sampler {
	if frameSize <= 0 {
		frameSize = entity.FrameSize
	}
	return &Sampler{frameSize: frameSize, logger: logger}
}

// Sample picks frames at indices 0, stride, 2*stride, ... where
// stride = max(total/numFrames, 1), decoded as RGB and resized to the
// sampler's square frame size. Fewer decodable frames than requested is a
// hard failure reported as *entity.DecodeShortfallError, never a short
// sequence.
func (s *Sampler) Sample(ctx context.Context, videoPath string, numFrames int) (entity.FrameSequence, error) {
	if numFrames <= 0 {
		numFrames = entity.DefaultNumFrames
	}

	total, err := s.countFrames(ctx, videoPath)
	if err != nil {
		// Stride falls back to 1: the leading frames still get sampled and
		// the shortfall check below remains authoritative.
		s.logger.Warn("could not determine total frame count", zap.Error(err))
		total = 0
	}

	stride := total / int64(numFrames)
	if stride < 1 {
		stride = 1
	}

	var sel strings.Builder
	for i := 0; i < numFrames; i++ {
		if i > 0 {
			sel.WriteByte('+')
		}
		fmt.Fprintf(&sel, `eq(n\,%d)`, int64(i)*stride)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select='%s',scale=%d:%d", sel.String(), s.frameSize, s.frameSize),
		"-vsync", "0",
		"-frames:v", strconv.Itoa(numFrames),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return entity.FrameSequence{}, fmt.Errorf("open ffmpeg pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return entity.FrameSequence{}, fmt.Errorf("start ffmpeg: %w", err)
	}

	raw := s.readRawFrames(stdout, numFrames)
	waitErr := cmd.Wait()

	if len(raw) < numFrames {
		if waitErr != nil {
			s.logger.Warn("ffmpeg exited with error during sampling",
				zap.String("video", videoPath),
				zap.String("stderr", strings.TrimSpace(stderr.String())),
				zap.Error(waitErr),
			)
		}
		return entity.FrameSequence{}, &entity.DecodeShortfallError{Obtained: len(raw), Expected: numFrames}
	}

	metrics.FramesSampledTotal.Add(float64(len(raw)))

	frames := make([]entity.Frame, len(raw))
	for i, buf := range raw {
		frame := make(entity.Frame, len(buf))
		for j, b := range buf {
			frame[j] = float32(b) / 255.0
		}
		frames[i] = frame
	}

	return entity.FrameSequence{
		Frames: frames,
		Width:  s.frameSize,
		Height: s.frameSize,
	}, nil
}

// readRawFrames reads whole rgb24 frames until max frames or the stream
// ends. A partial trailing frame is discarded.
func (s *Sampler) readRawFrames(r io.Reader, max int) [][]byte {
	frameBytes := s.frameSize * s.frameSize * entity.FrameChannels

	var frames [][]byte
	for len(frames) < max {
		buf := make([]byte, frameBytes)
		if _, err := io.ReadFull(r, buf); err != nil {
			break
		}
		frames = append(frames, buf)
	}
	return frames
}

func (s *Sampler) countFrames(ctx context.Context, videoPath string) (int64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	countStr := strings.TrimSpace(string(output))
	count, err := strconv.ParseInt(countStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame count: %w", err)
	}
	return count, nil
}
