// Package sfx plays the game's sound cues through ebiten's audio context.
//
// Every cue is synthesized at startup. A WAV file named after the cue in the
// assets directory, such as "slice.wav", replaces the synthesized clip.
package sfx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// Player plays cues. The game only depends on this interface.
type Player interface {
	Play(cue Cue)
}

// Mute discards every cue.
type Mute struct{}

func (Mute) Play(Cue) {}

type Options struct {
	SampleRate int
	Volume     float64
	AssetsDir  string
	Logger     *slog.Logger
}

// maxExplosions limits overlapping explosion voices.
const maxExplosions = 2

// Bank holds the decoded clip for every cue.
type Bank struct {
	ctx    *audio.Context
	volume float64
	clips  [cueCount][]byte
	voices []voice
}

type voice struct {
	cue    Cue
	player *audio.Player
}

// NewBank prepares all cues. The ebiten audio context is created on first
// use and shared afterwards.
func NewBank(opts Options) (*Bank, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(opts.SampleRate)
	}
	if ctx.SampleRate() != opts.SampleRate {
		opts.Logger.Warn("audio context sample rate differs", "want", opts.SampleRate, "have", ctx.SampleRate())
	}

	b := &Bank{ctx: ctx, volume: opts.Volume}
	for _, cue := range Cues() {
		clip, err := loadClip(opts.AssetsDir, cue, ctx.SampleRate())
		switch {
		case err == nil:
			opts.Logger.Debug("loaded sound asset", "cue", cue.String())
		case errors.Is(err, fs.ErrNotExist):
			clip = Generate(cue, ctx.SampleRate())
		default:
			return nil, err
		}
		b.clips[cue] = clip
	}
	return b, nil
}

func loadClip(dir string, cue Cue, sampleRate int) ([]byte, error) {
	if dir == "" {
		return nil, fs.ErrNotExist
	}
	path := filepath.Join(dir, cue.String()+".wav")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	clip, err := DecodeWAV(data, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return clip, nil
}

// DecodeWAV converts a WAV file to stereo float32 PCM at sampleRate.
func DecodeWAV(data []byte, sampleRate int) ([]byte, error) {
	stream, err := wav.DecodeF32(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var src io.Reader = stream
	if stream.SampleRate() != sampleRate {
		src = audio.ResampleF32(stream, stream.Length(), stream.SampleRate(), sampleRate)
	}
	return io.ReadAll(src)
}

// Play starts cue without waiting for it to finish.
func (b *Bank) Play(cue Cue) {
	if cue < 0 || cue >= cueCount || len(b.clips[cue]) == 0 {
		return
	}

	b.reap()
	if cue == CueExplode && b.playing(CueExplode) >= maxExplosions {
		return
	}

	p := b.ctx.NewPlayerF32FromBytes(b.clips[cue])
	p.SetVolume(b.volume)
	p.Play()
	b.voices = append(b.voices, voice{cue: cue, player: p})
}

func (b *Bank) reap() {
	live := b.voices[:0]
	for _, v := range b.voices {
		if v.player.IsPlaying() {
			live = append(live, v)
			continue
		}
		v.player.Close()
	}
	b.voices = live
}

func (b *Bank) playing(cue Cue) int {
	n := 0
	for _, v := range b.voices {
		if v.cue == cue {
			n++
		}
	}
	return n
}

// Clip returns the PCM bytes played for cue.
func (b *Bank) Clip(cue Cue) []byte {
	if cue < 0 || cue >= cueCount {
		return nil
	}
	return b.clips[cue]
}
