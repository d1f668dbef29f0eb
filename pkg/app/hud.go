package app

import (
	"fmt"
	"strings"

	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/systems"
	"github.com/gonewx/wavearena/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const bannerLifetime = 2.5

type banner struct {
	text string
	age  float64
}

// HUD shows the status line and announcement banners.
type HUD struct {
	banners []banner
}

// NewHUD creates an empty HUD.
func NewHUD() *HUD { return &HUD{} }

// Announce implements game.HUD.
func (h *HUD) Announce(a game.Announcement) {
	h.banners = append(h.banners, banner{text: announcementText(a)})
}

func announcementText(a game.Announcement) string {
	switch a.Kind {
	case game.AnnounceWaveStart:
		return fmt.Sprintf("WAVE %d", a.Wave)
	case game.AnnounceWaveComplete:
		return fmt.Sprintf("WAVE %d CLEARED", a.Wave)
	case game.AnnounceBossSpawned:
		return "BOSS INCOMING"
	case game.AnnounceBossDefeated:
		return "BOSS DEFEATED"
	case game.AnnounceGameOver:
		return "GAME OVER - press R to restart"
	}
	return ""
}

// Update ages banners and drops expired ones.
func (h *HUD) Update(dt float64) {
	kept := h.banners[:0]
	for _, b := range h.banners {
		b.age += dt
		if b.age < bannerLifetime {
			kept = append(kept, b)
		}
	}
	h.banners = kept
}

// Active returns the banners currently shown, oldest first.
func (h *HUD) Active() []string {
	out := make([]string, 0, len(h.banners))
	for _, b := range h.banners {
		out = append(out, b.text)
	}
	return out
}

// Reset clears every banner.
func (h *HUD) Reset() { h.banners = h.banners[:0] }

// statusLine formats the always-visible counters.
func statusLine(s systems.HUDState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Wave %d  Enemies %d (left %d)  HP %d  Ammo %d  Grenades %d",
		s.Wave, s.EnemiesAlive, s.EnemiesLeft, s.Health, s.Ammo, s.Grenades)
	if s.BossAlive {
		sb.WriteString("  [BOSS]")
	}
	if s.WaveComplete && !s.GameOver {
		fmt.Fprintf(&sb, "  next wave in %.1fs", max(s.TransitionTimer, 0))
	}
	return sb.String()
}

// Draw prints the status line and the banners. Banners fade by dropping
// out early rather than alpha, since the debug font has no color.
func (h *HUD) Draw(screen *ebiten.Image, s systems.HUDState, extra string) {
	ebitenutil.DebugPrintAt(screen, statusLine(s), 8, 6)
	if extra != "" {
		ebitenutil.DebugPrintAt(screen, extra, 8, 22)
	}
	w := screen.Bounds().Dx()
	y := screen.Bounds().Dy() / 3
	for _, b := range h.banners {
		if utils.FadeOut(b.age, bannerLifetime, 0.7) < 0.2 {
			continue
		}
		x := w/2 - len(b.text)*3
		ebitenutil.DebugPrintAt(screen, b.text, x, y)
		y += 18
	}
}
