// Package pose holds the keypoint model shared by pose sources and the game.
//
// Coordinates are normalized to the camera frame: X and Y lie in [0,1] with
// the origin at the top left, whatever the resolution of the camera.
package pose

import "time"

// COCO keypoint indices produced by MoveNet singlepose.
const (
	Nose = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle

	KeypointCount
)

// DefaultThreshold is the minimum score for a wrist to count as visible.
const DefaultThreshold float32 = 0.11

type Keypoint struct {
	X, Y  float32
	Score float32
}

// Frame is one pose estimate.
type Frame struct {
	Keypoints [KeypointCount]Keypoint
	Captured  time.Time
}

// Side identifies a hand.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Wrist is a visible wrist together with its elbow, when that is visible too.
type Wrist struct {
	Side         Side
	Point        Keypoint
	Elbow        Keypoint
	ElbowVisible bool
}

// Wrists returns the wrists scoring above threshold, left first.
func (f Frame) Wrists(threshold float32) []Wrist {
	var out []Wrist
	for _, side := range []Side{Left, Right} {
		wrist, elbow := LeftWrist, LeftElbow
		if side == Right {
			wrist, elbow = RightWrist, RightElbow
		}
		kp := f.Keypoints[wrist]
		if kp.Score <= threshold {
			continue
		}
		out = append(out, Wrist{
			Side:         side,
			Point:        kp,
			Elbow:        f.Keypoints[elbow],
			ElbowVisible: f.Keypoints[elbow].Score > threshold,
		})
	}
	return out
}

// Mirror flips every keypoint horizontally so the image reads like a mirror.
// Left and right labels are kept.
func (f Frame) Mirror() Frame {
	for i := range f.Keypoints {
		f.Keypoints[i].X = 1 - f.Keypoints[i].X
	}
	return f
}
