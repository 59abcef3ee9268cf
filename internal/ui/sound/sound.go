// Package sound plays the warning tone through the system speaker.
package sound

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	toneFrequency = 880
	toneDuration  = 180 * time.Millisecond
	toneVolume    = 0.3
	// fadeFraction of the tone ramps in and out to avoid clicks.
	fadeFraction = 0.1
)

// Player lazily opens the speaker on first use.
type Player struct {
	once    sync.Once
	initErr error
}

// NewPlayer returns a player. The speaker is not touched until Beep.
func NewPlayer() *Player {
	return &Player{}
}

// Beep plays two short tones.
func (player *Player) Beep() error {
	player.once.Do(func() {
		player.initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if player.initErr != nil {
		return fmt.Errorf("init speaker: %w", player.initErr)
	}

	gap := beep.Silence(sampleRate.N(80 * time.Millisecond))
	speaker.Play(beep.Seq(
		Tone(sampleRate, toneFrequency, toneDuration, toneVolume),
		gap,
		Tone(sampleRate, toneFrequency, toneDuration, toneVolume),
	))
	return nil
}

// Tone returns a sine wave of frequency Hz lasting duration.
func Tone(rate beep.SampleRate, frequency float64, duration time.Duration, volume float64) beep.Streamer {
	total := rate.N(duration)
	fade := int(float64(total) * fadeFraction)
	position := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if position >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if position >= total {
				break
			}
			value := volume * envelope(position, total, fade) *
				math.Sin(2*math.Pi*frequency*float64(position)/float64(rate))
			samples[i][0] = value
			samples[i][1] = value
			position++
			n++
		}
		return n, true
	})
}

func envelope(position, total, fade int) float64 {
	if fade <= 0 {
		return 1
	}
	switch {
	case position < fade:
		return float64(position) / float64(fade)
	case position >= total-fade:
		return float64(total-position) / float64(fade)
	default:
		return 1
	}
}
