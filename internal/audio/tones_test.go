package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// drain streams s to the end and returns how many samples it produced.
func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		for i := range n {
			if buf[i][0] < -1 || buf[i][0] > 1 {
				t.Fatalf("sample %d = %v out of range", total+i, buf[i])
			}
		}
		total += n
		if !ok {
			return total
		}
		if total > int(sampleRate)*5 {
			t.Fatal("cue did not end")
		}
	}
}

func TestCueStreamerLength(t *testing.T) {
	cues := []core.Cue{
		core.CueBounce, core.CueWall, core.CuePaddle, core.CueChop,
		core.CueSmash, core.CueServe, core.CuePoint, core.CueWin,
	}

	for _, c := range cues {
		t.Run(c.String(), func(t *testing.T) {
			s := CueStreamer(c, sampleRate)
			if s == nil {
				t.Fatal("CueStreamer() = nil, expected a sound")
			}
			expected := CueLength(c, sampleRate)
			if got := drain(t, s); got != expected {
				t.Errorf("cue length = %d samples, expected %d", got, expected)
			}
			if s.Err() != nil {
				t.Errorf("Err() = %v", s.Err())
			}
		})
	}
}

func TestCueStreamerSilentCue(t *testing.T) {
	if s := CueStreamer(core.CueNone, sampleRate); s != nil {
		t.Error("CueStreamer(CueNone) should be nil")
	}
}

func TestDecayFadesOut(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := tone(note{freq: 440, dur: 100 * time.Millisecond}, rate)

	buf := make([][2]float64, rate.N(100*time.Millisecond))
	n, _ := s.Stream(buf)
	if n == 0 {
		t.Fatal("expected samples")
	}

	peak := func(from, to int) float64 {
		m := 0.0
		for _, smp := range buf[from:to] {
			m = max(m, smp[0], -smp[0])
		}
		return m
	}
	early := peak(n/8, n/4)
	late := peak(n*7/8, n)
	if late >= early {
		t.Errorf("late peak %v should be below early peak %v", late, early)
	}
}

func TestNopPlayer(t *testing.T) {
	var p Player = Nop{}
	p.Play(core.CueSmash)
	p.Close()

	q, err := Open(false, 0)
	if err != nil {
		t.Fatalf("Open(false) error: %v", err)
	}
	if _, ok := q.(Nop); !ok {
		t.Errorf("Open(false) = %T, expected Nop", q)
	}
}
