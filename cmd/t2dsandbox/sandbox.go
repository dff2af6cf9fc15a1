package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/clipboard"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/model"
	"github.com/milk9111/transform2d/physics"
	"github.com/milk9111/transform2d/scenefile"
	"github.com/milk9111/transform2d/script"
	"github.com/milk9111/transform2d/settings"
	"github.com/milk9111/transform2d/watch"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	rulerSize  = 18

	macroTimeout = 2 * time.Second
)

type Sandbox struct {
	ctx     *bounds.Context
	model   *model.Model
	store   *guides.Store
	history *history
	board   *clipboard.Board
	runner  *script.Runner
	watcher *watch.Watcher

	sceneName  string
	scene      scenefile.SceneSpec
	entities   []ecs.Entity
	background color.Color
	guidesPath string

	view   view
	drag   dragState
	data   model.ViewData
	status string
	frames int
}

type sandboxConfig struct {
	Scene      string
	GuidesPath string
	Settings   *settings.Manager
	Guides     guides.Persister
	Board      *clipboard.Board
}

func NewSandbox(cfg sandboxConfig) (*Sandbox, error) {
	ctx := &bounds.Context{World: ecs.NewWorld(), Physics: physics.NewWorld()}
	store := guides.NewStore(cfg.Guides)
	if err := store.Load(); err != nil {
		log.Printf("[sandbox] load guides: %v", err)
	}

	s := &Sandbox{
		ctx:        ctx,
		store:      store,
		board:      cfg.Board,
		sceneName:  cfg.Scene,
		guidesPath: cfg.GuidesPath,
		background: colornames.Black,
		view:       newView(baseWidth, baseHeight),
	}
	s.history = newHistory(ctx.World, store)
	s.model = model.New(ctx, cfg.Settings, store)
	s.model.History = s.history
	s.model.OnChange = s.refresh
	s.runner = script.NewRunner(s.model, ctx.World)

	if err := s.loadScene(); err != nil {
		return nil, err
	}
	if store.Len() == 0 {
		for _, g := range s.scene.Guides {
			store.Add(g)
		}
	}
	s.history.reset()
	s.startWatcher()
	s.refresh()
	return s, nil
}

// loadScene replaces the world contents with the current scene file.
func (s *Sandbox) loadScene() error {
	spec, err := scenefile.LoadSceneSpec(s.sceneName)
	if err != nil {
		return err
	}

	w := s.ctx.World
	for _, e := range s.entities {
		ecs.DestroyEntity(w, e)
	}
	s.ctx.Physics.Prune(w)
	s.entities = nil

	order, _, err := scenefile.Build(w, spec)
	if err != nil {
		return err
	}
	s.scene = spec
	s.entities = order
	log.Printf("[sandbox] mirrored %d colliders", s.ctx.Physics.SyncAll(w))
	s.background = colornames.Black
	if spec.Background != nil {
		s.background = spec.Background.Color
	}
	if spec.PPU > 0 && spec.PPU != s.model.Settings().ProjectPPU {
		if err := s.model.UpdateSettings(func(st *settings.Settings) { st.ProjectPPU = spec.PPU }); err != nil {
			log.Printf("[sandbox] save ppu: %v", err)
		}
	}
	s.history.reset()
	s.model.Handle(model.SelectionChanged{})
	log.Printf("[sandbox] loaded scene %q (%d entities)", spec.Name, len(order))
	return nil
}

func (s *Sandbox) startWatcher() {
	candidates := []string{scenefile.ScenesDir(), scenefile.MacrosDir()}
	if s.guidesPath != "" {
		candidates = append(candidates, filepath.Dir(s.guidesPath))
	}
	var dirs []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return
	}

	sceneFiles := watch.Extensions(".yaml", ".yml", ".tengo")
	guideFile := watch.File(s.guidesPath)
	filter := func(path string) bool {
		return sceneFiles(path) || (s.guidesPath != "" && guideFile(path))
	}

	w, err := watch.New(filter, dirs...)
	if err != nil {
		log.Printf("[sandbox] watcher disabled: %v", err)
		return
	}
	s.watcher = w
}

// pollWatcher handles changes reported since the last frame.
func (s *Sandbox) pollWatcher() {
	if s.watcher == nil {
		return
	}
	for _, path := range s.watcher.Drain() {
		switch {
		case s.guidesPath != "" && filepath.Clean(path) == filepath.Clean(s.guidesPath):
			if err := s.store.Load(); err != nil {
				log.Printf("[sandbox] reload guides: %v", err)
				continue
			}
			s.setStatus("guides reloaded")
		case filepath.Ext(path) == ".tengo":
			s.setStatus(fmt.Sprintf("macro %s changed", filepath.Base(path)))
		case filepath.Base(path) == filepath.Base(s.sceneName):
			if err := s.loadScene(); err != nil {
				log.Printf("[sandbox] reload scene: %v", err)
				s.setStatus("scene reload failed")
				continue
			}
			s.setStatus("scene reloaded")
		}
	}
	for {
		select {
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[sandbox] watcher: %v", err)
		default:
			return
		}
	}
}

// runMacros runs every macro the scene lists, in order.
func (s *Sandbox) runMacros() {
	for _, name := range s.scene.Macros {
		src, err := scenefile.LoadMacro(name)
		if err != nil {
			log.Printf("[sandbox] load macro %s: %v", name, err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), macroTimeout)
		err = s.runner.Run(ctx, src)
		cancel()
		if err != nil {
			log.Printf("[sandbox] macro %s: %v", name, err)
			s.setStatus("macro failed: " + name)
			return
		}
	}
	s.setStatus(fmt.Sprintf("ran %d macros", len(s.scene.Macros)))
}

func (s *Sandbox) refresh() {
	s.data = s.model.View()
}

func (s *Sandbox) setStatus(msg string) {
	s.status = msg
}

func (s *Sandbox) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func (s *Sandbox) Update() error {
	s.frames++
	s.pollWatcher()
	s.store.SetViewport(s.view.bounds())
	s.model.Zoom = s.view.orthoSize()
	s.handleInput()
	s.consumeChanged()
	return nil
}

// consumeChanged clears pending transform writes and tells the model about
// them once per frame. It returns the number of transforms cleared.
func (s *Sandbox) consumeChanged() int {
	n := 0
	for _, e := range s.entities {
		if t, ok := ecs.TransformOf(s.ctx.World, e); ok && t.Changed {
			t.Changed = false
			n++
		}
	}
	if n > 0 {
		s.model.Handle(model.TransformChanged{Origin: model.OriginInspector})
	}
	return n
}

func (s *Sandbox) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (s *Sandbox) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

var _ ebiten.LayoutFer = (*Sandbox)(nil)
