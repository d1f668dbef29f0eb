package app

import (
	"image/color"
	"math"
	"sort"

	"github.com/gonewx/wavearena/pkg/arena"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

const (
	maxGroundMarks  = 256 // splatters and decals kept on the floor
	blastLifetime   = 0.5
	flashLifetime   = 0.06
	markerDotRadius = 2
)

var (
	floorColor    = color.RGBA{R: 34, G: 38, B: 44, A: 255}
	wallColor     = colornames.Slategray
	obstacleColor = colornames.Darkslategray
	playerColor   = colornames.Deepskyblue
	playerBullet  = colornames.Gold
	enemyBullet   = colornames.Orangered
	grenadeColor  = colornames.Olivedrab
	bossBullet    = colornames.Magenta
	blastColor    = colornames.Orange
	flashColor    = colornames.White
	hitRingColor  = color.RGBA{R: 255, G: 255, B: 255, A: 60}
	pickupColors  = map[types.PickupType]color.RGBA{
		types.PickupAmmo:    colornames.Goldenrod,
		types.PickupEnergy:  colornames.Limegreen,
		types.PickupGrenade: colornames.Olivedrab,
	}
)

// projection maps the arena ground plane onto the screen, top-down.
type projection struct {
	scale            float64 // pixels per world unit
	halfW, halfD     float64
	offsetX, offsetY float64
}

func newProjection(a *arena.Arena, width, height int) projection {
	sx := float64(width) / (2 * a.HalfWidth)
	sy := float64(height) / (2 * a.HalfDepth)
	s := math.Min(sx, sy)
	return projection{
		scale:   s,
		halfW:   a.HalfWidth,
		halfD:   a.HalfDepth,
		offsetX: (float64(width) - 2*a.HalfWidth*s) / 2,
		offsetY: (float64(height) - 2*a.HalfDepth*s) / 2,
	}
}

// ToScreen converts a world position to screen pixels.
func (p projection) ToScreen(v utils.Vec3) (float32, float32) {
	return float32(p.offsetX + (v.X+p.halfW)*p.scale), float32(p.offsetY + (v.Z+p.halfD)*p.scale)
}

// ToWorld converts screen pixels to a ground-plane position.
func (p projection) ToWorld(x, y float64) utils.Vec3 {
	return utils.V3((x-p.offsetX)/p.scale-p.halfW, 0, (y-p.offsetY)/p.scale-p.halfD)
}

func (p projection) length(l float64) float32 { return float32(l * p.scale) }

type groundMark struct {
	pos    utils.Vec3
	radius float64
	color  color.RGBA
}

type transient struct {
	pos, dir utils.Vec3
	radius   float64
	age      float64
}

// Renderer is a top-down vector renderer. The simulation pushes state into
// it; Draw paints whatever was last pushed.
type Renderer struct {
	proj    projection
	arena   *arena.Arena
	views   map[ecs.EntityID]game.EntityView
	batches map[types.EntityKind][]utils.Vec3
	marks   []groundMark
	blasts  []transient
	flashes []transient

	showHitRadii bool
}

// NewRenderer creates a renderer for a screen of width x height pixels.
func NewRenderer(a *arena.Arena, width, height int) *Renderer {
	return &Renderer{
		proj:    newProjection(a, width, height),
		arena:   a,
		views:   make(map[ecs.EntityID]game.EntityView),
		batches: make(map[types.EntityKind][]utils.Vec3),
	}
}

func (r *Renderer) SyncEntity(v game.EntityView) { r.views[v.ID] = v }

func (r *Renderer) SyncBatch(kind types.EntityKind, positions []utils.Vec3) {
	r.batches[kind] = append(r.batches[kind][:0], positions...)
}

func (r *Renderer) RemoveEntity(id ecs.EntityID) { delete(r.views, id) }

func (r *Renderer) Splatter(pos utils.Vec3, radius float64, c color.RGBA) {
	c.A = 110
	r.addMark(groundMark{pos: pos, radius: radius, color: c})
}

func (r *Renderer) Decal(pos, _ utils.Vec3, radius float64, c color.RGBA) {
	r.addMark(groundMark{pos: pos, radius: radius, color: c})
}

func (r *Renderer) addMark(m groundMark) {
	if len(r.marks) >= maxGroundMarks {
		copy(r.marks, r.marks[1:])
		r.marks = r.marks[:len(r.marks)-1]
	}
	r.marks = append(r.marks, m)
}

func (r *Renderer) Explosion(center utils.Vec3, radius float64) {
	r.blasts = append(r.blasts, transient{pos: center, radius: radius})
}

func (r *Renderer) MuzzleFlash(pos, dir utils.Vec3) {
	r.flashes = append(r.flashes, transient{pos: pos, dir: dir})
}

// SetShowHitRadii toggles the hit sphere overlay.
func (r *Renderer) SetShowHitRadii(show bool) { r.showHitRadii = show }

// Update ages transient effects.
func (r *Renderer) Update(dt float64) {
	r.blasts = age(r.blasts, dt, blastLifetime)
	r.flashes = age(r.flashes, dt, flashLifetime)
}

func age(ts []transient, dt, lifetime float64) []transient {
	kept := ts[:0]
	for _, t := range ts {
		t.age += dt
		if t.age < lifetime {
			kept = append(kept, t)
		}
	}
	return kept
}

// Reset drops every visual, for a new run.
func (r *Renderer) Reset() {
	clear(r.views)
	clear(r.batches)
	r.marks = r.marks[:0]
	r.blasts = r.blasts[:0]
	r.flashes = r.flashes[:0]
}

// ViewCount is the number of entity visuals currently held.
func (r *Renderer) ViewCount() int { return len(r.views) }

// Draw paints the arena and every entity.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	p := r.proj
	x0, y0 := p.ToScreen(utils.V3(-p.halfW, 0, -p.halfD))
	w, h := p.length(2*p.halfW), p.length(2*p.halfD)
	vector.DrawFilledRect(screen, x0, y0, w, h, floorColor, false)
	vector.StrokeRect(screen, x0, y0, w, h, 3, wallColor, false)

	for _, m := range r.marks {
		x, y := p.ToScreen(m.pos)
		vector.DrawFilledCircle(screen, x, y, p.length(m.radius), m.color, true)
	}
	for _, o := range r.arena.Obstacles {
		r.drawObstacle(screen, o)
	}

	// Stable draw order keeps overlapping sprites from flickering.
	ids := make([]ecs.EntityID, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		r.drawView(screen, r.views[id])
	}

	for _, pos := range r.batches[types.KindPlayerBullet] {
		x, y := p.ToScreen(pos)
		vector.DrawFilledCircle(screen, x, y, 2, playerBullet, true)
	}
	for _, pos := range r.batches[types.KindEnemyBullet] {
		x, y := p.ToScreen(pos)
		vector.DrawFilledCircle(screen, x, y, 2.5, enemyBullet, true)
	}

	for _, b := range r.blasts {
		t := b.age / blastLifetime
		x, y := p.ToScreen(b.pos)
		c := blastColor
		c.A = uint8(200 * utils.FadeOut(b.age, blastLifetime, 0.2))
		vector.DrawFilledCircle(screen, x, y, p.length(b.radius*utils.EaseOutCubic(t)), c, true)
	}
	for _, f := range r.flashes {
		x, y := p.ToScreen(f.pos)
		tip := f.pos.Add(f.dir.Scale(0.8))
		tx, ty := p.ToScreen(tip)
		vector.StrokeLine(screen, x, y, tx, ty, 3, flashColor, true)
	}
}

func (r *Renderer) drawObstacle(screen *ebiten.Image, o arena.Obstacle) {
	p := r.proj
	switch o.Shape {
	case arena.ShapeBox:
		x, y := p.ToScreen(utils.V3(o.Center.X-o.HalfX, 0, o.Center.Z-o.HalfZ))
		vector.DrawFilledRect(screen, x, y, p.length(2*o.HalfX), p.length(2*o.HalfZ), obstacleColor, false)
	case arena.ShapeSphere:
		x, y := p.ToScreen(o.Center)
		vector.DrawFilledCircle(screen, x, y, p.length(o.Radius), obstacleColor, true)
	}
}

func (r *Renderer) drawView(screen *ebiten.Image, v game.EntityView) {
	p := r.proj
	x, y := p.ToScreen(v.Position)
	switch v.Kind {
	case types.KindPlayer:
		vector.DrawFilledCircle(screen, x, y, p.length(v.Radius), playerColor, true)
		r.drawFacing(screen, v.Position, v.Yaw, v.Radius*1.6)
	case types.KindEnemy:
		c := v.Color
		if v.Flash {
			c = flashColor
		}
		if v.Dying {
			c.A = 150
		}
		// Bodies draw at half the hit radius.
		body := v.Radius * 0.5
		if v.Position.Y > 0 {
			body *= 1 + v.Position.Y*0.1
		}
		vector.DrawFilledCircle(screen, x, y, p.length(body), c, true)
		r.drawFacing(screen, v.Position, v.Yaw+v.Tumble, body*1.4)
		for i := 0; i < v.Markers; i++ {
			a := float64(i) * 2 * math.Pi / float64(max(v.Markers, 1))
			mx := x + p.length(body*math.Sin(a))
			my := y + p.length(body*math.Cos(a))
			vector.DrawFilledCircle(screen, mx, my, markerDotRadius, playerBullet, true)
		}
		if r.showHitRadii {
			vector.StrokeCircle(screen, x, y, p.length(v.Radius), 1, hitRingColor, true)
		}
	case types.KindGrenade:
		if !v.Dying {
			vector.DrawFilledCircle(screen, x, y, p.length(v.Radius)+2, grenadeColor, true)
		}
	case types.KindBossBullet:
		if !v.Dying {
			vector.DrawFilledCircle(screen, x, y, p.length(v.Radius), bossBullet, true)
		}
	case types.KindPickup:
		c, ok := pickupColors[v.Pickup]
		if !ok {
			c = colornames.White
		}
		s := p.length(v.Radius * 0.6)
		vector.DrawFilledRect(screen, x-s, y-s, 2*s, 2*s, c, false)
	}
}

func (r *Renderer) drawFacing(screen *ebiten.Image, pos utils.Vec3, yaw, length float64) {
	x, y := r.proj.ToScreen(pos)
	tip := pos.Add(utils.V3(math.Sin(yaw), 0, math.Cos(yaw)).Scale(length))
	tx, ty := r.proj.ToScreen(tip)
	vector.StrokeLine(screen, x, y, tx, ty, 2, colornames.White, true)
}
