package sound

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
)

func TestToneLengthAndVolume(t *testing.T) {
	rate := beep.SampleRate(8000)
	streamer := Tone(rate, 440, 100*time.Millisecond, 0.5)

	buffer := make([][2]float64, 128)
	total := 0
	peak := 0.0
	for {
		n, ok := streamer.Stream(buffer)
		if !ok {
			break
		}
		for _, sample := range buffer[:n] {
			if sample[0] != sample[1] {
				t.Fatalf("channels differ: %v", sample)
			}
			peak = math.Max(peak, math.Abs(sample[0]))
		}
		total += n
	}

	if want := rate.N(100 * time.Millisecond); total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
	if peak > 0.5+1e-9 || peak < 0.4 {
		t.Errorf("peak amplitude = %v, want close to 0.5", peak)
	}
}

func TestEnvelope(t *testing.T) {
	if got := envelope(0, 100, 10); got != 0 {
		t.Errorf("envelope at start = %v", got)
	}
	if got := envelope(50, 100, 10); got != 1 {
		t.Errorf("envelope in middle = %v", got)
	}
	if got := envelope(99, 100, 10); got != 0.1 {
		t.Errorf("envelope at end = %v", got)
	}
	if got := envelope(0, 100, 0); got != 1 {
		t.Errorf("envelope without fade = %v", got)
	}
}
