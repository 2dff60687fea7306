package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/cmdstack/common"
	"github.com/milk9111/cmdstack/ecs/entity"
	"github.com/milk9111/cmdstack/levels"
	"github.com/milk9111/cmdstack/logs"
	"github.com/milk9111/cmdstack/prefabs"
	"github.com/milk9111/cmdstack/session"
)

type GameOptions struct {
	Level string
	Watch bool
	Debug bool
	Log   *slog.Logger
}

type Game struct {
	log    *slog.Logger
	opts   GameOptions
	frames int

	stage   *entity.Stage
	session *session.Session
	panel   *ProgramPanel
	watcher *prefabs.Watcher

	clipboardReady bool
}

func NewGame(opts GameOptions) (*Game, error) {
	log := logs.Or(opts.Log)
	bundle, err := prefabs.LoadBundle()
	if err != nil {
		return nil, fmt.Errorf("load prefabs: %w", err)
	}
	// A broken level still opens the game; the panel reports it and the
	// watcher can pick up a fix.
	lvl, err := levels.Load(opts.Level)
	if err != nil {
		log.Error("failed to load level", "level", opts.Level, "error", err)
	}

	stage := entity.NewStage(bundle, entity.StageOptions{
		UnitSize: common.UnitSize,
		TPS:      common.TPS,
		Debug:    opts.Debug,
		Log:      log,
	})
	sess, err := session.New(stage, lvl, bundle.Instructions, session.Options{TPS: common.TPS, Log: log})
	if err != nil {
		return nil, err
	}

	g := &Game{
		log:     log.With("component", "game"),
		opts:    opts,
		stage:   stage,
		session: sess,
		panel:   NewProgramPanel(sess),
	}
	if err := clipboard.Init(); err != nil {
		g.log.Warn("clipboard unavailable", "error", err)
	} else {
		g.clipboardReady = true
	}
	if opts.Watch {
		g.startWatcher()
	}
	return g, nil
}

func (g *Game) startWatcher() {
	var dirs []string
	for _, dir := range []string{prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"), levels.Dir} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		g.log.Warn("nothing to watch", "prefabs", prefabs.Dir, "levels", levels.Dir)
		return
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		g.log.Warn("file watcher unavailable", "error", err)
		return
	}
	g.watcher = w
	g.log.Info("watching for edits", "dirs", dirs)
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.close()
		return ebiten.Termination
	}
	g.pollWatcher()

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyListing()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		// Refusals are logged by the session.
		_ = g.session.Play()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.session.Replay()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.panel.ReturnAt(ebiten.CursorPosition())
	}

	g.panel.Update()
	g.session.Step()
	g.panel.Sync()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen)
	g.panel.Draw(screen)

	if g.opts.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    %s    slot %d",
			g.frames, ebiten.ActualFPS(), g.session.State(), g.session.Running()))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) copyListing() {
	if !g.clipboardReady {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.session.Listing()))
	g.log.Info("program copied to clipboard")
}

// pollWatcher applies pending file edits without blocking the loop.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	var specs, level bool
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if prefabs.IsLevelFile(name) {
				level = level || g.isCurrentLevel(name)
			} else {
				specs = true
			}
			continue
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("watcher error", "error", err)
			continue
		default:
		}
		break
	}
	if specs {
		g.reloadSpecs()
	}
	if level {
		g.reloadLevel()
	}
}

func (g *Game) isCurrentLevel(name string) bool {
	want := strings.TrimSuffix(filepath.Base(g.opts.Level), ".json")
	return strings.TrimSuffix(filepath.Base(name), ".json") == want
}

func (g *Game) reloadSpecs() {
	bundle, err := prefabs.LoadBundle()
	if err != nil {
		g.log.Error("reload prefabs", "error", err)
		return
	}
	if err := g.session.SetActions(bundle.Instructions); err != nil {
		g.log.Error("reload instructions", "error", err)
		return
	}
	g.stage.SetBundle(bundle)
	g.session.Replay()
	g.log.Info("prefabs reloaded")
}

func (g *Game) reloadLevel() {
	lvl, err := levels.Load(g.opts.Level)
	if err != nil {
		g.log.Error("reload level", "level", g.opts.Level, "error", err)
		return
	}
	g.session.SetLevel(lvl)
	g.log.Info("level reloaded", "level", lvl.String())
}

func (g *Game) close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
