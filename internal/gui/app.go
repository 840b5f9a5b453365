//go:build raylib

package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/treedrift/internal/grove"
	"github.com/san-kum/treedrift/internal/session"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColVacant  = rl.NewColor(30, 30, 30, 255)
)

// App is the window front end for a session. The frame loop is the
// scheduler: one Tick per frame while running.
type App struct {
	Sess   *session.Session
	Layout Layout
	Colors []rl.Color
	Err    error
}

func initWindow() {
	rl.InitWindow(WindowWidth, WindowHeight, "treedrift")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(s *session.Session) *App {
	a := &App{Sess: s}
	a.refresh()
	return a
}

// refresh recomputes the layout and palette after a rebuild.
func (a *App) refresh() {
	a.Layout = NewLayout(a.Sess.World().Grid().Side())
	species := a.Sess.Species()
	a.Colors = make([]rl.Color, species.Len())
	for i, sp := range species {
		r, g, b := RGB(sp.Color)
		a.Colors[i] = rl.NewColor(r, g, b, 255)
	}
}

// Run opens the window and blocks until it is closed.
func Run(s *session.Session) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(s)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and runs one batch. It reports whether to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Err = a.Sess.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Err = a.Sess.Reset()
		a.refresh()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.Err = a.Sess.Reseed(time.Now().UnixNano())
		a.refresh()
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.Sess.NextImmigrationInterval(1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.Sess.NextImmigrationInterval(-1)
	}
	split := a.Sess.Config().Competition.ResourceSplit
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Err = a.Sess.SetResourceSplit(min(100, split+5))
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Err = a.Sess.SetResourceSplit(max(0, split-5))
	}

	if a.Sess.State() == session.Running {
		if _, err := a.Sess.Tick(); err != nil {
			a.Err = err
		}
	}
	return false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.drawGrid()
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) drawGrid() {
	g := a.Sess.World().Grid()
	side := g.Side()
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			x, y := a.Layout.Center(col, row)
			color := ColVacant
			if sp := g.At(g.Index(col, row)); sp != grove.Vacant {
				color = a.Colors[sp]
			}
			rl.DrawCircleV(rl.NewVector2(x, y), a.Layout.Radius, color)
		}
	}
}

func (a *App) DrawHUD() {
	x := int32(WindowHeight + 20)
	cfg := a.Sess.Config()

	rl.DrawText("treedrift", x, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", cfg.Variant), x+150, 34, 16, ColText)

	status, col := a.status()
	rl.DrawText(status, x, 70, 16, col)
	rl.DrawText(fmt.Sprintf("STEP %d", a.Sess.Clock()), x, 100, 16, ColAccent)

	y := int32(130)
	switch cfg.Variant {
	case "immigration":
		rl.DrawText(fmt.Sprintf("INTERVAL %d", cfg.Immigration.Interval), x, y, 16, ColAccent)
		y += 24
	case "competition":
		rl.DrawText(fmt.Sprintf("SPLIT %.0f/%.0f", cfg.Competition.ResourceSplit, 100-cfg.Competition.ResourceSplit), x, y, 16, ColAccent)
		y += 24
	}

	census := a.Sess.Census()
	total := float32(a.Sess.World().Grid().Len())
	y += 16
	for i, sp := range a.Sess.Species() {
		n := census.Count(grove.SpeciesID(i))
		rl.DrawCircle(x+6, y+7, 6, a.Colors[i])
		rl.DrawText(fmt.Sprintf("%-4s %5d", sp.Name, n), x+20, y, 14, ColText)
		rl.DrawRectangle(x+120, y+2, int32(300*float32(n)/total), 10, a.Colors[i])
		y += 20
	}
	if v := census.Vacant(); v > 0 {
		rl.DrawText(fmt.Sprintf("vacant %5d", v), x+20, y, 14, ColTextDim)
	}

	if a.Err != nil {
		rl.DrawText(a.Err.Error(), x, 640, 14, rl.Red)
	}
	rl.DrawText("[SPACE] RUN/PAUSE  [R] RESET  [N] RESEED  [Q] QUIT", x, 680, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), x+440, 30, 14, ColTextDim)
}

func (a *App) status() (string, rl.Color) {
	switch a.Sess.State() {
	case session.Running:
		return "RUNNING", ColSelect
	case session.Paused:
		return "PAUSED", ColText
	case session.Done:
		return "DONE", rl.Red
	default:
		return "IDLE", ColTextDim
	}
}
