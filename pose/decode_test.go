package pose_test

import (
	"testing"

	"github.com/plus3/poseninja/pose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLetterbox(t *testing.T) {
	tests := []struct {
		name       string
		w, h, size int
		padX, padY float32
		sw, sh     float32
	}{
		{"landscape", 640, 480, 192, 0, 24, 192, 144},
		{"portrait", 480, 640, 192, 24, 0, 144, 192},
		{"square", 300, 300, 192, 0, 0, 192, 192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb := pose.NewLetterbox(tt.w, tt.h, tt.size)
			assert.InDelta(t, tt.padX, lb.PadX, 1e-4)
			assert.InDelta(t, tt.padY, lb.PadY, 1e-4)
			assert.InDelta(t, tt.sw, lb.ScaledW, 1e-4)
			assert.InDelta(t, tt.sh, lb.ScaledH, 1e-4)
		})
	}
}

func TestLetterboxUnpad(t *testing.T) {
	lb := pose.NewLetterbox(640, 480, 192)

	x, y := lb.Unpad(0.5, 0.5)
	assert.InDelta(t, 0.5, x, 1e-5)
	assert.InDelta(t, 0.5, y, 1e-5)

	_, top := lb.Unpad(0.5, 24.0/192)
	assert.InDelta(t, 0, top, 1e-5)

	_, bottom := lb.Unpad(0.5, 168.0/192)
	assert.InDelta(t, 1, bottom, 1e-5)

	_, clamped := lb.Unpad(0.5, 0.01)
	assert.Equal(t, float32(0), clamped)
}

func TestDecode(t *testing.T) {
	out := make([]float32, pose.KeypointCount*3)
	// right wrist: y, x, score
	out[pose.RightWrist*3+0] = 0.5
	out[pose.RightWrist*3+1] = 0.25
	out[pose.RightWrist*3+2] = 0.9

	frame, err := pose.Decode(out, pose.NewLetterbox(640, 480, 192))
	require.NoError(t, err)

	kp := frame.Keypoints[pose.RightWrist]
	assert.InDelta(t, 0.25, kp.X, 1e-5)
	assert.InDelta(t, 0.5, kp.Y, 1e-5)
	assert.InDelta(t, 0.9, kp.Score, 1e-6)
	assert.False(t, frame.Captured.IsZero())

	t.Run("short tensor", func(t *testing.T) {
		_, err := pose.Decode(out[:50], pose.Letterbox{})
		assert.ErrorIs(t, err, pose.ErrShortTensor)
	})
}

func TestWrists(t *testing.T) {
	var frame pose.Frame
	frame.Keypoints[pose.LeftWrist] = pose.Keypoint{X: 0.2, Y: 0.3, Score: 0.5}
	frame.Keypoints[pose.LeftElbow] = pose.Keypoint{X: 0.2, Y: 0.5, Score: 0.05}
	frame.Keypoints[pose.RightWrist] = pose.Keypoint{X: 0.8, Y: 0.3, Score: 0.11}
	frame.Keypoints[pose.RightElbow] = pose.Keypoint{X: 0.8, Y: 0.5, Score: 0.9}

	wrists := frame.Wrists(pose.DefaultThreshold)
	require.Len(t, wrists, 1, "a score equal to the threshold is not visible")
	assert.Equal(t, pose.Left, wrists[0].Side)
	assert.False(t, wrists[0].ElbowVisible)

	frame.Keypoints[pose.RightWrist].Score = 0.2
	wrists = frame.Wrists(pose.DefaultThreshold)
	require.Len(t, wrists, 2)
	assert.Equal(t, pose.Right, wrists[1].Side)
	assert.True(t, wrists[1].ElbowVisible)
	assert.Equal(t, float32(0.5), wrists[1].Elbow.Y)
}

func TestMirror(t *testing.T) {
	var frame pose.Frame
	frame.Keypoints[pose.LeftWrist] = pose.Keypoint{X: 0.2, Y: 0.3, Score: 1}

	mirrored := frame.Mirror()
	assert.InDelta(t, 0.8, mirrored.Keypoints[pose.LeftWrist].X, 1e-6)
	assert.Equal(t, float32(0.3), mirrored.Keypoints[pose.LeftWrist].Y)
	assert.Equal(t, float32(0.2), frame.Keypoints[pose.LeftWrist].X, "receiver is a copy")
}
