package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const playbackRate = beep.SampleRate(48000)

// Player owns the speaker and mixes one-shot effects into it. Construct it
// anywhere, but sounds only play after Init succeeds and while Enabled;
// otherwise every Play method is a no-op, which keeps headless and muted
// runs free of audio plumbing.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool
}

// NewPlayer returns an enabled player at full volume. Call Init before
// playing anything.
func NewPlayer() *Player {
	return &Player{
		mixer:   &beep.Mixer{},
		volume:  1,
		enabled: true,
	}
}

// Init opens the speaker and starts the mixer. Safe to call more than once;
// only the first call touches the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(playbackRate, playbackRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close drops any effects still sounding. The speaker itself stays open;
// beep has no teardown, so an emptied mixer is as quiet as it gets.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.mixer.Clear()
	p.initialized = false
}

// SetEnabled mutes or unmutes future effects. Effects already mixed in
// finish playing.
func (p *Player) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// Enabled reports whether Play methods currently mix anything.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// SetVolume sets the master volume, clamped to [0, 1].
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if vol < 0 {
		vol = 0
	}
	if vol > 1 {
		vol = 1
	}
	p.volume = vol
}

// Volume returns the master volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// MoveTick plays the accepted-step blip.
func (p *Player) MoveTick() {
	p.play(MoveTick(playbackRate))
}

// WallThud plays the rejected-step knock.
func (p *Player) WallThud() {
	p.play(WallThud(playbackRate))
}

// Victory plays the exit-reached arpeggio.
func (p *Player) Victory() {
	p.play(VictoryArpeggio(playbackRate))
}

// SaveChime plays the save/load confirmation ding.
func (p *Player) SaveChime() {
	p.play(SaveChime(playbackRate))
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || !p.enabled {
		return
	}
	p.mixer.Add(newVolume(s, p.volume))
}
