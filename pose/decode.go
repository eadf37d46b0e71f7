package pose

import (
	"errors"
	"fmt"
	"time"
)

// ErrShortTensor is returned when a model output holds fewer than 17*3 values.
var ErrShortTensor = errors.New("pose: output tensor too short")

// Letterbox describes how a camera frame was scaled and padded into the
// square model input.
type Letterbox struct {
	Size           int
	ScaledW        float32
	ScaledH        float32
	PadX, PadY     float32
	FrameW, FrameH int
}

// NewLetterbox fits a frameW x frameH image inside a size x size square,
// keeping the aspect ratio and centring the result.
func NewLetterbox(frameW, frameH, size int) Letterbox {
	lb := Letterbox{Size: size, FrameW: frameW, FrameH: frameH}
	if frameW <= 0 || frameH <= 0 || size <= 0 {
		return lb
	}

	scale := float32(size) / float32(max(frameW, frameH))
	lb.ScaledW = float32(frameW) * scale
	lb.ScaledH = float32(frameH) * scale
	lb.PadX = (float32(size) - lb.ScaledW) / 2
	lb.PadY = (float32(size) - lb.ScaledH) / 2
	return lb
}

// Unpad maps a point normalized to the padded square back to the frame.
// Points that land in the padding are clamped to the frame edge.
func (lb Letterbox) Unpad(x, y float32) (float32, float32) {
	if lb.ScaledW == 0 || lb.ScaledH == 0 {
		return clamp01(x), clamp01(y)
	}
	size := float32(lb.Size)
	fx := (x*size - lb.PadX) / lb.ScaledW
	fy := (y*size - lb.PadY) / lb.ScaledH
	return clamp01(fx), clamp01(fy)
}

// Decode reads a MoveNet singlepose output of shape [1,1,17,3]. Each row is
// (y, x, score) relative to the padded input.
func Decode(out []float32, lb Letterbox) (Frame, error) {
	const want = KeypointCount * 3
	if len(out) < want {
		return Frame{}, fmt.Errorf("%w: got %d values, want %d", ErrShortTensor, len(out), want)
	}

	frame := Frame{Captured: time.Now()}
	for i := range frame.Keypoints {
		row := out[i*3 : i*3+3]
		x, y := lb.Unpad(row[1], row[0])
		frame.Keypoints[i] = Keypoint{X: x, Y: y, Score: row[2]}
	}
	return frame, nil
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
