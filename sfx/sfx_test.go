package sfx

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	const rate = 44100

	for _, cue := range Cues() {
		t.Run(cue.String(), func(t *testing.T) {
			clip := Generate(cue, rate)
			require.NotEmpty(t, clip)
			require.Zero(t, len(clip)%bytesPerFrame)

			assert.Equal(t, clip, Generate(cue, rate), "synthesis is deterministic")

			peak := 0.0
			for i := 0; i < len(clip); i += 4 {
				v := float64(math.Float32frombits(binary.LittleEndian.Uint32(clip[i:])))
				require.False(t, math.IsNaN(v))
				assert.LessOrEqual(t, math.Abs(v), 1.0)
				peak = max(peak, math.Abs(v))
			}
			assert.Greater(t, peak, 0.05, "cue is audible")
		})
	}
}

func TestGenerateScalesWithRate(t *testing.T) {
	low := Generate(CueClick, 22050)
	high := Generate(CueClick, 44100)
	assert.InDelta(t, 2*len(low), len(high), bytesPerFrame)
}

func TestCueString(t *testing.T) {
	assert.Equal(t, "slice", CueSlice.String())
	assert.Equal(t, "gameover", CueGameOver.String())
	assert.Equal(t, "unknown", Cue(99).String())
	assert.Nil(t, Generate(Cue(99), 44100))
}

func TestEnvelope(t *testing.T) {
	e := envelope{attack: 0.1, decay: 0.2, sustain: 0.5, release: 0.2}
	assert.InDelta(t, 0.5, e.at(0.05), 1e-9)
	assert.InDelta(t, 1.0, e.at(0.1), 1e-9)
	assert.InDelta(t, 0.75, e.at(0.2), 1e-9)
	assert.InDelta(t, 0.5, e.at(0.5), 1e-9)
	assert.InDelta(t, 0.25, e.at(0.9), 1e-9)
	assert.InDelta(t, 0.0, e.at(1.0), 1e-9)
}

func TestNoiseIsSeeded(t *testing.T) {
	a, b, c := noise(1), noise(1), noise(2)
	same, differs := true, false
	for i := 0; i < 64; i++ {
		x, y, z := a(), b(), c()
		assert.GreaterOrEqual(t, x, -1.0)
		assert.Less(t, x, 1.0)
		same = same && x == y
		differs = differs || x != z
	}
	assert.True(t, same)
	assert.True(t, differs)
}

// pcm16WAV builds a minimal stereo 16-bit PCM WAV file.
func pcm16WAV(rate int, frames [][2]int16) []byte {
	var data bytes.Buffer
	for _, f := range frames {
		binary.Write(&data, binary.LittleEndian, f[0])
		binary.Write(&data, binary.LittleEndian, f[1])
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(36+data.Len()))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(16))
	binary.Write(&out, binary.LittleEndian, uint16(1))
	binary.Write(&out, binary.LittleEndian, uint16(2))
	binary.Write(&out, binary.LittleEndian, uint32(rate))
	binary.Write(&out, binary.LittleEndian, uint32(rate*4))
	binary.Write(&out, binary.LittleEndian, uint16(4))
	binary.Write(&out, binary.LittleEndian, uint16(16))
	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(data.Len()))
	out.Write(data.Bytes())
	return out.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	file := pcm16WAV(44100, [][2]int16{{0, 0}, {16384, -16384}, {32767, -32768}, {0, 0}})

	clip, err := DecodeWAV(file, 44100)
	require.NoError(t, err)
	require.Len(t, clip, 4*bytesPerFrame)

	left := math.Float32frombits(binary.LittleEndian.Uint32(clip[bytesPerFrame:]))
	right := math.Float32frombits(binary.LittleEndian.Uint32(clip[bytesPerFrame+4:]))
	assert.InDelta(t, 0.5, left, 0.01)
	assert.InDelta(t, -0.5, right, 0.01)

	_, err = DecodeWAV([]byte("not a wav"), 44100)
	assert.Error(t, err)
}

func TestMute(t *testing.T) {
	var p Player = Mute{}
	assert.NotPanics(t, func() { p.Play(CueExplode) })
}
