package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/tui-pong/internal/core"
)

type note struct {
	freq float64 // Hz, 0 for a rest
	dur  time.Duration
}

// cueNotes is the melody of each cue.
var cueNotes = map[core.Cue][]note{
	core.CueBounce: {{660, 35 * time.Millisecond}},
	core.CueWall:   {{440, 25 * time.Millisecond}},
	core.CuePaddle: {{520, 45 * time.Millisecond}},
	core.CueChop:   {{260, 70 * time.Millisecond}},
	core.CueSmash:  {{880, 30 * time.Millisecond}, {1320, 50 * time.Millisecond}},
	core.CueServe:  {{590, 40 * time.Millisecond}},
	core.CuePoint:  {{700, 80 * time.Millisecond}, {0, 20 * time.Millisecond}, {470, 120 * time.Millisecond}},
	core.CueWin: {
		{523.25, 100 * time.Millisecond},
		{659.25, 100 * time.Millisecond},
		{783.99, 100 * time.Millisecond},
		{1046.5, 220 * time.Millisecond},
	},
}

// CueLength returns the number of samples a cue lasts at rate sr.
func CueLength(c core.Cue, sr beep.SampleRate) int {
	n := 0
	for _, nt := range cueNotes[c] {
		n += sr.N(nt.dur)
	}
	return n
}

// CueStreamer returns a finite streamer for the cue, or nil if the cue has
// no sound.
func CueStreamer(c core.Cue, sr beep.SampleRate) beep.Streamer {
	notes, ok := cueNotes[c]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, nt := range notes {
		parts = append(parts, tone(nt, sr))
	}
	return beep.Seq(parts...)
}

func tone(nt note, sr beep.SampleRate) beep.Streamer {
	n := sr.N(nt.dur)
	if nt.freq <= 0 {
		return beep.Silence(n)
	}
	sine, err := generators.SineTone(sr, nt.freq)
	if err != nil {
		return beep.Silence(n)
	}
	return &decay{streamer: beep.Take(n, sine), total: n}
}

// decay fades a streamer linearly to silence over total samples, with a
// short attack to avoid a click.
type decay struct {
	streamer beep.Streamer
	total    int
	pos      int
}

const attackSamples = 64

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.streamer.Stream(samples)
	for i := range n {
		gain := 1 - float64(d.pos)/float64(d.total)
		if d.pos < attackSamples {
			gain *= float64(d.pos) / attackSamples
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error {
	return d.streamer.Err()
}
