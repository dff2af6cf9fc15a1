// Command t2dsandbox is a small scene view for trying the transform tools:
// selection, guides, snapping, align and distribute.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/transform2d/clipboard"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/settings"
	"github.com/quasilyte/gdata/v2"
)

func main() {
	sceneName := flag.String("scene", "demo.yaml", "scene file in scenefile/scenes (embedded copy used when missing on disk)")
	guidesPath := flag.String("guides", "", "guides YAML file; empty stores guides with the settings")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	memClipboard := flag.Bool("memclip", false, "keep the clipboard in memory instead of using the system one")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	storage, err := gdata.Open(gdata.Config{AppName: "transform2d"})
	if err != nil {
		log.Printf("[sandbox] persistent storage unavailable: %v", err)
	}

	var persister guides.Persister
	switch {
	case *guidesPath != "":
		persister = guides.FilePersister{Path: *guidesPath}
	case storage != nil:
		persister = guides.StoragePersister{Manager: storage}
	}

	board := &clipboard.Board{Buffer: &clipboard.Memory{}}
	if !*memClipboard {
		board = clipboard.New()
	}

	sandbox, err := NewSandbox(sandboxConfig{
		Scene:      *sceneName,
		GuidesPath: *guidesPath,
		Settings:   settings.NewManager(storage),
		Guides:     persister,
		Board:      board,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer sandbox.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("transform2d sandbox")

	if err := ebiten.RunGame(sandbox); err != nil {
		log.Fatal(err)
	}
}
