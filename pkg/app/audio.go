package app

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/gonewx/wavearena/pkg/game"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 48000

// tone describes a synthesized cue: a frequency sweep under an
// attack/release envelope, optionally mixed with noise.
type tone struct {
	from, to float64 // Hz
	duration float64 // seconds
	noise    float64 // noise share, 0 ~ 1
	gain     float64
}

var cueTones = map[game.Cue]tone{
	game.CueWeaponFire:    {from: 900, to: 300, duration: 0.06, noise: 0.4, gain: 0.35},
	game.CueEnemyFire:     {from: 500, to: 200, duration: 0.08, noise: 0.3, gain: 0.25},
	game.CueEnemyHit:      {from: 300, to: 250, duration: 0.05, noise: 0.6, gain: 0.3},
	game.CueEnemyDeath:    {from: 400, to: 80, duration: 0.25, noise: 0.3, gain: 0.4},
	game.CueGrenadeBounce: {from: 180, to: 160, duration: 0.04, gain: 0.3},
	game.CueExplosion:     {from: 120, to: 40, duration: 0.5, noise: 0.8, gain: 0.6},
	game.CuePickup:        {from: 600, to: 1200, duration: 0.12, gain: 0.3},
	game.CuePlayerHurt:    {from: 220, to: 110, duration: 0.15, noise: 0.2, gain: 0.4},
	game.CueWaveStart:     {from: 440, to: 880, duration: 0.4, gain: 0.3},
	game.CueBossSpawn:     {from: 90, to: 60, duration: 0.8, noise: 0.1, gain: 0.5},
	game.CueEmpty:         {from: 1500, to: 1500, duration: 0.02, gain: 0.2},
}

// synthesize renders t as 16-bit little-endian stereo PCM.
func synthesize(t tone, seed uint32) []byte {
	n := int(t.duration * sampleRate)
	buf := make([]byte, n*4)
	attack := max(n/20, 1)
	release := max(n/3, 1)
	phase := 0.0
	state := seed | 1
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		freq := t.from + (t.to-t.from)*p
		phase += freq / sampleRate
		phase -= math.Floor(phase)

		s := math.Sin(2 * math.Pi * phase)
		if t.noise > 0 {
			// xorshift keeps the cue bank identical between runs.
			state ^= state << 13
			state ^= state >> 17
			state ^= state << 5
			r := float64(state)/float64(math.MaxUint32)*2 - 1
			s = s*(1-t.noise) + r*t.noise
		}

		env := 1.0
		if i < attack {
			env = float64(i) / float64(attack)
		} else if rem := n - i; rem < release {
			env = float64(rem) / float64(release)
		}

		v := int16(s * env * t.gain * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}

// CueAudio plays synthesized cues through an ebiten audio context.
// Playback never blocks the simulation.
type CueAudio struct {
	ctx      *audio.Context
	settings *game.SettingsManager
	pcm      map[game.Cue][]byte
	players  map[game.Cue]*audio.Player
}

// NewCueAudio builds the cue bank. ctx may be nil, which mutes everything.
func NewCueAudio(ctx *audio.Context, settings *game.SettingsManager) *CueAudio {
	a := &CueAudio{
		ctx:      ctx,
		settings: settings,
		pcm:      make(map[game.Cue][]byte, len(cueTones)),
		players:  make(map[game.Cue]*audio.Player, len(cueTones)),
	}
	for cue, t := range cueTones {
		a.pcm[cue] = synthesize(t, uint32(cue)+1)
	}
	return a
}

// Play implements game.Audio. A cue already playing restarts.
func (a *CueAudio) Play(cue game.Cue) {
	if a.ctx == nil {
		return
	}
	volume := 1.0
	if a.settings != nil {
		volume = a.settings.EffectiveVolume()
	}
	if volume <= 0 {
		return
	}
	p := a.players[cue]
	if p == nil {
		data, ok := a.pcm[cue]
		if !ok {
			return
		}
		p = a.ctx.NewPlayerFromBytes(data)
		a.players[cue] = p
	}
	p.SetVolume(volume)
	if err := p.Rewind(); err != nil {
		log.Printf("[CueAudio] Warning: Failed to rewind %s: %v", cue, err)
	}
	p.Play()
}
