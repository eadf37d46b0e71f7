// Package movenet estimates poses from a webcam with a MoveNet singlepose
// network run through the OpenCV DNN module.
package movenet

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/plus3/poseninja/pose"
	"gocv.io/x/gocv"
	"golang.org/x/time/rate"
)

var (
	ErrModelNotLoaded    = errors.New("movenet: model not loaded")
	ErrCameraUnavailable = errors.New("movenet: camera unavailable")
	ErrStopTimeout       = errors.New("movenet: capture loop did not stop")
)

const stopTimeout = 2 * time.Second

// Layout is the memory order of the network input tensor.
type Layout string

const (
	NHWC Layout = "nhwc"
	NCHW Layout = "nchw"
)

type Options struct {
	Device     int
	ModelPath  string
	ConfigPath string

	InputSize   int
	Layout      Layout
	InputName   string
	OutputName  string
	InferenceHz float64
	Mirror      bool

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.InputSize <= 0 {
		o.InputSize = 192
	}
	if o.Layout == "" {
		o.Layout = NHWC
	}
	if o.InferenceHz <= 0 {
		o.InferenceHz = 30
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Source runs capture and inference on a background goroutine and keeps the
// newest result.
type Source struct {
	opts    Options
	webcam  *gocv.VideoCapture
	net     gocv.Net
	limiter *rate.Limiter

	raw, rgb, boxed, input gocv.Mat

	cancel  context.CancelFunc
	done    chan struct{}
	timeout time.Duration
	release func() error

	mu       sync.Mutex
	latest   pose.Frame
	hasFrame bool
	snapshot image.Image
}

// Open starts the webcam and loads the network. The returned Source is
// producing frames until ctx is cancelled or Close is called.
func Open(ctx context.Context, opts Options) (*Source, error) {
	opts = opts.withDefaults()

	net := gocv.ReadNet(opts.ModelPath, opts.ConfigPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrModelNotLoaded, opts.ModelPath)
	}

	webcam, err := gocv.OpenVideoCapture(opts.Device)
	if err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: device %d: %v", ErrCameraUnavailable, opts.Device, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Source{
		opts:    opts,
		webcam:  webcam,
		net:     net,
		limiter: rate.NewLimiter(rate.Limit(opts.InferenceHz), 1),
		raw:     gocv.NewMat(),
		rgb:     gocv.NewMat(),
		boxed:   gocv.NewMat(),
		input:   gocv.NewMat(),
		cancel:  cancel,
		done:    make(chan struct{}),
		timeout: stopTimeout,
	}
	s.release = s.free

	opts.Logger.Info("movenet started",
		"device", opts.Device,
		"model", opts.ModelPath,
		"input", opts.InputSize,
		"layout", string(opts.Layout),
		"hz", opts.InferenceHz)

	go s.run(ctx)
	return s, nil
}

func (s *Source) run(ctx context.Context) {
	defer close(s.done)

	misses := 0
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}

		if ok := s.webcam.Read(&s.raw); !ok || s.raw.Empty() {
			misses++
			if misses%30 == 1 {
				s.opts.Logger.Warn("camera returned no frame", "misses", misses)
			}
			continue
		}
		misses = 0

		frame, err := s.infer()
		if err != nil {
			s.opts.Logger.Warn("inference failed", "err", err)
			continue
		}
		if s.opts.Mirror {
			frame = frame.Mirror()
		}

		snapshot, err := s.raw.ToImage()
		if err != nil {
			snapshot = nil
		}

		s.mu.Lock()
		s.latest = frame
		s.hasFrame = true
		if snapshot != nil {
			s.snapshot = snapshot
		}
		s.mu.Unlock()
	}
}

func (s *Source) infer() (pose.Frame, error) {
	size := s.opts.InputSize
	lb := pose.NewLetterbox(s.raw.Cols(), s.raw.Rows(), size)
	top, bottom, left, right := borders(lb)

	w := size - left - right
	h := size - top - bottom
	gocv.Resize(s.raw, &s.rgb, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
	gocv.CopyMakeBorder(s.rgb, &s.boxed, top, bottom, left, right, gocv.BorderConstant, color.RGBA{})
	gocv.CvtColor(s.boxed, &s.boxed, gocv.ColorBGRToRGB)

	blob, err := s.blob()
	if err != nil {
		return pose.Frame{}, err
	}
	defer blob.Close()

	s.net.SetInput(blob, s.opts.InputName)
	out := s.net.Forward(s.opts.OutputName)
	defer out.Close()

	values, err := out.DataPtrFloat32()
	if err != nil {
		return pose.Frame{}, fmt.Errorf("read output: %w", err)
	}
	return pose.Decode(values, lb)
}

func (s *Source) blob() (gocv.Mat, error) {
	size := s.opts.InputSize
	if s.opts.Layout == NCHW {
		return gocv.BlobFromImage(s.boxed, 1.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), false, false), nil
	}

	s.boxed.ConvertTo(&s.input, gocv.MatTypeCV32FC3)
	blob, err := gocv.NewMatWithSizesFromBytes([]int{1, size, size, 3}, gocv.MatTypeCV32F, s.input.ToBytes())
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("build nhwc input: %w", err)
	}
	return blob, nil
}

// borders returns the integer padding applied on each side of the resized
// frame.
func borders(lb pose.Letterbox) (top, bottom, left, right int) {
	w := int(lb.ScaledW + 0.5)
	h := int(lb.ScaledH + 0.5)
	left = (lb.Size - w) / 2
	right = lb.Size - w - left
	top = (lb.Size - h) / 2
	bottom = lb.Size - h - top
	return
}

func (s *Source) Latest() (pose.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasFrame
}

// Snapshot returns the camera image of the newest frame, or nil.
func (s *Source) Snapshot() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Close stops the capture goroutine and releases OpenCV resources. If the
// loop is stuck in a camera read past the timeout, Close returns
// ErrStopTimeout and the resources are released once the loop exits.
func (s *Source) Close() error {
	s.cancel()
	select {
	case <-s.done:
		return s.release()
	case <-time.After(s.timeout):
		go func() {
			<-s.done
			if err := s.release(); err != nil {
				s.opts.Logger.Warn("late movenet release failed", "err", err)
			}
		}()
		return ErrStopTimeout
	}
}

func (s *Source) free() error {
	s.raw.Close()
	s.rgb.Close()
	s.boxed.Close()
	s.input.Close()
	s.net.Close()
	return s.webcam.Close()
}

var (
	_ pose.Source = (*Source)(nil)
	_ pose.Camera = (*Source)(nil)
)
