package sfx

import (
	"math"
	"math/rand/v2"
)

// Cue identifies a sound effect.
type Cue int

const (
	CueSlice Cue = iota
	CueExplode
	CuePop
	CueMiss
	CueClick
	CueGameOver

	cueCount
)

var cueNames = [...]string{"slice", "explode", "pop", "miss", "click", "gameover"}

func (c Cue) String() string {
	if c < 0 || c >= cueCount {
		return "unknown"
	}
	return cueNames[c]
}

// Cues lists every cue in order.
func Cues() []Cue {
	out := make([]Cue, cueCount)
	for i := range out {
		out[i] = Cue(i)
	}
	return out
}

// Generate synthesizes cue as interleaved stereo float32 little-endian PCM.
func Generate(cue Cue, sampleRate int) []byte {
	sr := float64(sampleRate)
	switch cue {
	case CueSlice:
		return genSlice(sr)
	case CueExplode:
		return genExplode(sr)
	case CuePop:
		return genPop(sr)
	case CueMiss:
		return genMiss(sr)
	case CueClick:
		return genClick(sr)
	case CueGameOver:
		return genGameOver(sr)
	}
	return nil
}

// genSlice: bright noise swish sweeping down.
func genSlice(sr float64) []byte {
	n := int(0.16 * sr)
	buf := makeBuf(n)
	white := noise(4242)
	hp := 0.0
	prev := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		env := swishEnv.at(p)
		raw := white()
		hp = 0.9*(hp+raw-prev) - 0.1*hp*p
		prev = raw
		t := float64(i) / sr
		tone := math.Sin(2*math.Pi*(1800-1200*p)*t) * 0.15
		putStereoF32(buf, i, limit((hp*0.5+tone)*env))
	}
	return buf
}

// genExplode: falling sub boom under a lowpassed noise burst.
func genExplode(sr float64) []byte {
	n := int(0.5 * sr)
	buf := makeBuf(n)
	white := noise(90210)
	lp := 0.0
	phase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		freq := 120 * math.Pow(30.0/120, p)
		phase += 2 * math.Pi * freq / sr
		sub := math.Sin(phase) * math.Exp(-p*5) * 0.6
		lp = lp*0.9 + white()*0.1
		body := lp * math.Exp(-p*4) * 1.2
		crack := 0.0
		if p < 0.03 {
			crack = white() * (1 - p/0.03) * 0.7
		}
		putStereoF32(buf, i, limit(sub+body+crack))
	}
	return buf
}

// genPop: short rising FM blip.
func genPop(sr float64) []byte {
	n := int(0.09 * sr)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / sr
		p := float64(i) / float64(n)
		env := blipEnv.at(p)
		freq := 520 + 680*p
		s := blipVoice.at(t, freq, env) * env * 0.5
		putStereoF32(buf, i, limit(s))
	}
	return buf
}

// genMiss: dull descending thud.
func genMiss(sr float64) []byte {
	n := int(0.25 * sr)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / sr
		p := float64(i) / float64(n)
		env := math.Exp(-p * 6)
		s := math.Sin(2*math.Pi*(220-120*p)*t) * env * 0.5
		putStereoF32(buf, i, limit(s))
	}
	return buf
}

// genClick: crisp UI tick.
func genClick(sr float64) []byte {
	n := int(0.04 * sr)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / sr
		p := float64(i) / float64(n)
		env := math.Exp(-p * 12)
		s := math.Sin(2*math.Pi*1400*t) * env * 0.4
		putStereoF32(buf, i, s)
	}
	return buf
}

// genGameOver: three falling notes.
func genGameOver(sr float64) []byte {
	freqs := []float64{392.0, 329.63, 261.63}
	noteLen := int(0.22 * sr)
	n := noteLen * len(freqs)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		note := i / noteLen
		t := float64(i) / sr
		p := float64(i%noteLen) / float64(noteLen)
		env := noteEnv.at(p)
		s := noteVoice.at(t, freqs[note], env) * env * 0.4
		putStereoF32(buf, i, limit(s))
	}
	return buf
}

func makeBuf(n int) []byte { return make([]byte, n*bytesPerFrame) }

const bytesPerFrame = 8

// putStereoF32 writes a [-1,1] sample as float32 LE to both channels of frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	for c := 0; c < 2; c++ {
		o := i*bytesPerFrame + c*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}

// limit keeps a mixed sample inside (-1, 1) with a tanh knee.
func limit(x float64) float64 { return math.Tanh(x) }

// envelope shapes a cue over its normalized length p in [0,1]. attack, decay
// and release are fractions of that length.
type envelope struct {
	attack, decay, sustain, release float64
}

var (
	swishEnv = envelope{attack: 0.05, decay: 0.35, sustain: 0.3, release: 0.4}
	blipEnv  = envelope{attack: 0.01, decay: 0.5, sustain: 0, release: 0.1}
	noteEnv  = envelope{attack: 0.02, decay: 0.3, sustain: 0.5, release: 0.3}
)

func (e envelope) at(p float64) float64 {
	if p < e.attack {
		return p / e.attack
	}
	if p < e.attack+e.decay {
		return 1 - (1-e.sustain)*(p-e.attack)/e.decay
	}
	if p < 1-e.release {
		return e.sustain
	}
	return e.sustain * (1 - p) / e.release
}

// fmVoice is a two-operator pair. The modulator runs at ratio times the
// carrier and shifts its phase by up to depth radians, scaled per sample.
type fmVoice struct {
	ratio, depth float64
}

var (
	blipVoice = fmVoice{ratio: 2, depth: 3}
	noteVoice = fmVoice{ratio: 1, depth: 1.5}
)

func (v fmVoice) at(t, freq, scale float64) float64 {
	mod := math.Sin(2 * math.Pi * freq * v.ratio * t)
	return math.Sin(2*math.Pi*freq*t + v.depth*scale*mod)
}

// noise returns a seeded white noise generator in [-1, 1).
func noise(seed uint64) func() float64 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() float64 { return r.Float64()*2 - 1 }
}
