package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/pose"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// Screen is the image the render systems draw into this frame.
type Screen struct {
	*ebiten.Image
}

var (
	hudFace   = text.NewGoXFace(basicfont.Face7x13)
	skyColor  = color.RGBA{24, 26, 38, 255}
	handColor = color.RGBA{80, 200, 255, 255}
)

// Backdrop is the dimmed camera image behind the playfield.
type Backdrop struct {
	Camera pose.Camera
	Mirror bool
	Dim    float32

	shown image.Image
	image *ebiten.Image
}

// refresh uploads the camera's newest snapshot if it changed.
func (b *Backdrop) refresh() *ebiten.Image {
	if b.Camera == nil {
		return nil
	}
	snap := b.Camera.Snapshot()
	if snap == nil || snap == b.shown {
		return b.image
	}
	if b.image != nil {
		b.image.Deallocate()
	}
	b.image = ebiten.NewImageFromImage(snap)
	b.shown = snap
	return b.image
}

func (b *Backdrop) draw(screen *ebiten.Image, arena *Arena) {
	img := b.refresh()
	if img == nil {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	if b.Mirror {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(float64(w), 0)
	}
	op.GeoM.Scale(float64(arena.W)/float64(w), float64(arena.H)/float64(h))
	op.ColorScale.Scale(1-b.Dim, 1-b.Dim, 1-b.Dim, 1)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// RenderSystem draws the playfield, hands, buttons and HUD. It only reads
// game state.
type RenderSystem struct {
	Screen     ecs.Singleton[Screen]
	Arena      ecs.Singleton[Arena]
	Session    ecs.Singleton[Session]
	Hands      ecs.Singleton[Hands]
	Tutorial   ecs.Singleton[Tutorial]
	HighScores ecs.Singleton[HighScores]

	Splashes ecs.Query[struct {
		*Position
		*Splash
	}]
	Dots ecs.Query[struct {
		*Position
		*Body
		*Dot
	}]
	Fruits ecs.Query[struct {
		*Position
		*Body
		*Fruit
		Velocity *Velocity `ecs:"optional"`
	}]
	Bombs ecs.Query[struct {
		*Position
		*Body
		*Bomb
	}]
	Halves ecs.Query[struct {
		*Position
		*Velocity
		*Half
	}]
	Explosions ecs.Query[struct {
		*Position
		*Explosion
	}]
	Particles ecs.Query[struct {
		*Position
		*Particle
	}]
	Buttons ecs.Query[struct{ *Button }]

	Sprites  Sprites
	Backdrop *Backdrop
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get().Image
	arena := s.Arena.Get()
	session := s.Session.Get()

	screen.Fill(skyColor)
	if s.Backdrop != nil {
		s.Backdrop.draw(screen, arena)
	}

	for e := range s.Splashes.Values() {
		juice, name := e.Splash.Kind.Juice()
		f := fade(e.Splash.Age, e.Splash.TTL)
		if !s.drawSprite(screen, "splash_"+name, e.Position.X, e.Position.Y, 70, 0, f) {
			vector.DrawFilledCircle(screen, e.Position.X, e.Position.Y, 34, faded(juice, f), true)
		}
	}

	for d := range s.Dots.Values() {
		vector.DrawFilledCircle(screen, d.Position.X, d.Position.Y, d.Body.Radius, colornames.Red, true)
		if d.Dot.TTL > 0 {
			left := fade(d.Dot.Age, d.Dot.TTL)
			vector.StrokeCircle(screen, d.Position.X, d.Position.Y, d.Body.Radius+4, 2, faded(colornames.White, left), true)
		}
	}

	for f := range s.Fruits.Values() {
		spin := frame.Elapsed * 2
		if f.Velocity != nil && f.Velocity.DX < 0 {
			spin = -spin
		}
		d := f.Body.Radius * 2
		if !s.drawSprite(screen, f.Fruit.Kind.String(), f.Position.X, f.Position.Y, d, spin, 1) {
			vector.DrawFilledCircle(screen, f.Position.X, f.Position.Y, f.Body.Radius, f.Fruit.Kind.Color(), true)
			vector.StrokeCircle(screen, f.Position.X, f.Position.Y, f.Body.Radius, 2, colornames.Black, true)
		}
	}

	for b := range s.Bombs.Values() {
		d := b.Body.Radius * 2
		if !s.drawSprite(screen, "bomb", b.Position.X, b.Position.Y, d, 0, 1) {
			vector.DrawFilledCircle(screen, b.Position.X, b.Position.Y, b.Body.Radius, colornames.Black, true)
			vector.StrokeCircle(screen, b.Position.X, b.Position.Y, b.Body.Radius, 2, colornames.Red, true)
			vector.StrokeLine(screen, b.Position.X, b.Position.Y-b.Body.Radius,
				b.Position.X+6, b.Position.Y-b.Body.Radius-10, 3, colornames.Orange, true)
		}
	}

	for h := range s.Halves.Values() {
		spin := float64(h.Velocity.DX) / 40
		if !s.drawSprite(screen, halfSprite(h.Half.Kind, h.Half.Side), h.Position.X, h.Position.Y, 40, spin, 1) {
			s.drawHalf(screen, h.Position, h.Half)
		}
	}

	for e := range s.Explosions.Values() {
		f := fade(e.Explosion.Age, e.Explosion.TTL)
		if !s.drawSprite(screen, "explosion", e.Position.X, e.Position.Y, 120*(1.5-f), 0, f) {
			r := 20 + 60*(1-f)
			vector.DrawFilledCircle(screen, e.Position.X, e.Position.Y, r, faded(colornames.Orange, f), true)
			vector.DrawFilledCircle(screen, e.Position.X, e.Position.Y, r*0.6, faded(colornames.Yellow, f), true)
		}
	}

	for p := range s.Particles.Values() {
		f := fade(p.Particle.Age, p.Particle.TTL)
		vector.DrawFilledCircle(screen, p.Position.X, p.Position.Y, p.Particle.Size, faded(p.Particle.Color, f), true)
	}

	for b := range s.Buttons.Values() {
		drawButton(screen, b.Button)
	}

	s.drawHands(screen, session.Mode == ModeSword && session.Phase == PhasePlaying)
	s.drawHUD(screen, arena, session)
}

// drawSprite draws a named sprite centred on (x, y) and scaled to size
// pixels across. It reports false if the sprite is not loaded.
func (s *RenderSystem) drawSprite(screen *ebiten.Image, name string, x, y, size float32, angle float64, alpha float32) bool {
	img, ok := s.Sprites[name]
	if !ok {
		return false
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scale := float64(size) / float64(max(w, h))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Rotate(angle)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
	return true
}

// drawHalf draws a half disc with its cut edge facing away from the other
// half.
func (s *RenderSystem) drawHalf(screen *ebiten.Image, pos *Position, half *Half) {
	const r = 20
	start := float32(math.Pi / 2)
	if half.Side == 1 {
		start = -math.Pi / 2
	}

	var path vector.Path
	path.MoveTo(pos.X, pos.Y)
	path.Arc(pos.X, pos.Y, r, start, start+math.Pi, vector.Clockwise)
	path.Close()

	vertices, indices := path.AppendVerticesAndIndicesForFilling(nil, nil)
	c := half.Kind.Color()
	for i := range vertices {
		vertices[i].SrcX, vertices[i].SrcY = 1, 1
		vertices[i].ColorR = float32(c.R) / 255
		vertices[i].ColorG = float32(c.G) / 255
		vertices[i].ColorB = float32(c.B) / 255
		vertices[i].ColorA = 1
	}
	screen.DrawTriangles(vertices, indices, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

var whiteImage *ebiten.Image

// whitePixel is the source texture for solid triangles.
func whitePixel() *ebiten.Image {
	if whiteImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteImage
}

func (s *RenderSystem) drawHands(screen *ebiten.Image, sword bool) {
	hands := s.Hands.Get()
	for i := range hands.Points {
		p := &hands.Points[i]
		if !p.Visible {
			continue
		}
		if sword {
			c := color.RGBA{180, 180, 200, 255}
			if p.BladeActive {
				c = colornames.White
			}
			vector.StrokeLine(screen, p.Blade.AX, p.Blade.AY, p.Blade.BX, p.Blade.BY, 6, c, true)
		} else {
			vector.StrokeLine(screen, p.PrevX, p.PrevY, p.X, p.Y, 4, faded(handColor, 0.6), true)
		}
		vector.DrawFilledCircle(screen, p.X, p.Y, 10, handColor, true)
		vector.StrokeCircle(screen, p.X, p.Y, 10, 2, colornames.White, true)
	}
}

func drawButton(screen *ebiten.Image, b *Button) {
	r := b.Rect
	vector.DrawFilledRect(screen, r.X, r.Y, r.W, r.H, color.RGBA{30, 30, 40, 200}, true)
	if b.Progress > 0 {
		vector.DrawFilledRect(screen, r.X, r.Y, r.W*float32(min(b.Progress, 1)), r.H, color.RGBA{60, 160, 90, 220}, true)
	}
	vector.StrokeRect(screen, r.X, r.Y, r.W, r.H, 2, colornames.White, true)
	drawText(screen, b.Label, r.X+r.W/2, r.Y+r.H/2, text.AlignCenter, text.AlignCenter, colornames.White)
}

func (s *RenderSystem) drawHUD(screen *ebiten.Image, arena *Arena, session *Session) {
	switch session.Phase {
	case PhaseMenu:
		drawText(screen, "POSE NINJA", arena.W/2, 40, text.AlignCenter, text.AlignStart, colornames.White)
		if hs := s.HighScores.Get(); hs.Table != nil && hs.Table.Len() > 0 {
			drawText(screen, fmt.Sprintf("Best: %d", hs.Table.Best()), arena.W/2, 60, text.AlignCenter, text.AlignStart, colornames.Gold)
		}

	case PhaseTutorial:
		t := s.Tutorial.Get()
		drawText(screen, t.Step.Prompt(), arena.W/2, 30, text.AlignCenter, text.AlignStart, colornames.White)

	case PhasePlaying:
		drawText(screen, fmt.Sprintf("Score: %d", session.Score), 10, 10, text.AlignStart, text.AlignStart, colornames.White)
		if session.UsesLives() {
			for i := 0; i < session.Lives; i++ {
				vector.DrawFilledCircle(screen, arena.W-20-float32(i)*22, 16, 7, colornames.Red, true)
			}
		} else {
			drawText(screen, fmt.Sprintf("Time: %d", int(math.Ceil(session.RoundLeft))), arena.W-10, 10, text.AlignEnd, text.AlignStart, colornames.White)
		}

	case PhaseGameOver:
		drawText(screen, "GAME OVER", arena.W/2, 40, text.AlignCenter, text.AlignStart, colornames.Red)
		drawText(screen, fmt.Sprintf("%s score: %d", session.Mode, session.Score), arena.W/2, 62, text.AlignCenter, text.AlignStart, colornames.White)

		hs := s.HighScores.Get()
		if hs.Table == nil {
			return
		}
		y := float32(100)
		drawText(screen, "High scores", arena.W/2, y, text.AlignCenter, text.AlignStart, colornames.Gold)
		for i, score := range hs.Table.Scores() {
			y += 18
			c := color.Color(colornames.White)
			if i == session.Rank {
				c = colornames.Gold
			}
			drawText(screen, fmt.Sprintf("%d. %d", i+1, score), arena.W/2, y, text.AlignCenter, text.AlignStart, c)
		}
	}
}

func drawText(screen *ebiten.Image, s string, x, y float32, h, v text.Align, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = h
	op.SecondaryAlign = v
	text.Draw(screen, s, hudFace, op)
}

// faded scales c's alpha by f, keeping it premultiplied.
func faded(c color.Color, f float32) color.Color {
	r, g, b, a := c.RGBA()
	k := float64(min(max(f, 0), 1))
	return color.RGBA64{
		R: uint16(float64(r) * k),
		G: uint16(float64(g) * k),
		B: uint16(float64(b) * k),
		A: uint16(float64(a) * k),
	}
}
