package app

import (
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/systems"
	"github.com/gonewx/wavearena/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// holdFireInterval is the auto-fire period while the fire button is held.
const holdFireInterval = 0.15

// Intent is one frame of player input, decoupled from the devices.
type Intent struct {
	Move      utils.Vec3 // ground-plane direction, zero to stand still
	Aim       utils.Vec3 // world point under the cursor
	FirePress bool       // fire button went down this frame
	FireHeld  bool
	Throw     bool

	Restart          bool
	ToggleSound      bool
	ToggleHitRadii   bool
	ToggleFullscreen bool
}

// readIntent polls keyboard and mouse.
func readIntent(proj projection) Intent {
	var in Intent
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move.Z--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move.Z++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move.X++
	}

	cx, cy := ebiten.CursorPosition()
	in.Aim = proj.ToWorld(float64(cx), float64(cy))
	in.FirePress = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.FireHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeySpace)
	in.Throw = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) || inpututil.IsKeyJustPressed(ebiten.KeyG)

	in.Restart = inpututil.IsKeyJustPressed(ebiten.KeyR)
	in.ToggleSound = inpututil.IsKeyJustPressed(ebiten.KeyM)
	in.ToggleHitRadii = inpututil.IsKeyJustPressed(ebiten.KeyH)
	in.ToggleFullscreen = inpututil.IsKeyJustPressed(ebiten.KeyF11)
	return in
}

// controller turns intents into player actions on a simulation.
type controller struct {
	fireCooldown float64
}

// apply moves and aims the player and triggers weapons. It runs before the
// simulation step of the same frame.
func (c *controller) apply(in Intent, sim *systems.Simulation, player *game.PlayerState, dt float64) {
	if sim.GameOver() {
		return
	}
	player.Move(in.Move, dt)
	aim := in.Aim.Sub(player.Position())
	player.Face(aim)

	c.fireCooldown -= dt
	if in.FirePress || (in.FireHeld && c.fireCooldown <= 0) {
		sim.FirePlayerBullet(player.Facing())
		c.fireCooldown = holdFireInterval
	}
	if in.Throw {
		sim.ThrowGrenade(player.Facing())
	}
}
