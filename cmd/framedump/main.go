// Command framedump renders one frame of a demo scene without a GPU and
// prints the resulting command stream and pass statistics.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/gekko3d/deferred"
	"github.com/gekko3d/deferred/rt/core"
	"github.com/gekko3d/deferred/rt/record"
	"github.com/gekko3d/deferred/rt/target"

	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	var (
		config   = flag.String("config", "", "YAML settings file")
		width    = flag.Int("width", 0, "output width, overrides the settings file")
		height   = flag.Int("height", 0, "output height, overrides the settings file")
		atlas    = flag.String("atlas", "", "write the shadow atlas layout to this PNG")
		commands = flag.Bool("commands", true, "print the recorded command stream")
		debug    = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	settings := deferred.DefaultSettings()
	if *config != "" {
		s, err := deferred.FileSettings{Path: *config}.Settings()
		if err != nil {
			log.Fatalf("settings: %v", err)
		}
		settings = s
	}
	if *width > 0 {
		settings.Width = *width
	}
	if *height > 0 {
		settings.Height = *height
	}

	rec := record.NewRecorder()
	alloc := target.NewMemoryAllocator()
	p, err := deferred.New(rec, alloc, deferred.Options{
		Settings: deferred.StaticSettings(settings),
		Logger:   deferred.NewDefaultLogger("framedump", *debug),
		Plane:    &core.Mesh{Name: "screen-quad"},
		Sprite:   &core.Material{Name: "composite"},
	})
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	defer p.Close()

	cam := core.NewCamera()
	cam.Far = 200
	cam.SetViewport(p.Size())
	cam.Transform.Position = mgl32.Vec3{0, 4, 12}
	cam.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-15), mgl32.Vec3{1, 0, 0})

	rec.Reset()
	p.Draw(demoScene(), cam, nil)

	if *commands {
		if _, err := rec.WriteTo(os.Stdout); err != nil {
			log.Fatalf("write commands: %v", err)
		}
		fmt.Println()
	}
	fmt.Print(p.Stats())
	fmt.Printf("  %-15s: %d\n", "allocations", alloc.Live())

	if *atlas != "" {
		f, err := os.Create(*atlas)
		if err != nil {
			log.Fatalf("atlas: %v", err)
		}
		defer f.Close()
		if err := png.Encode(f, p.Atlas().DebugImage(2)); err != nil {
			log.Fatalf("atlas: %v", err)
		}
		log.Printf("Atlas layout saved to %s", *atlas)
	}
}

func demoScene() *core.Scene {
	cube := &core.Mesh{Name: "cube", Bounds: core.NewAABB(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})}
	sphere := &core.Mesh{Name: "sphere", Bounds: core.NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})}
	quad := &core.Mesh{Name: "quad"}
	cone := &core.Mesh{Name: "cone", Bounds: core.NewAABB(mgl32.Vec3{-0.5, -0.5, -1}, mgl32.Vec3{0.5, 0.5, 0})}
	lit := &core.Material{Name: "lit"}
	glass := &core.Material{Name: "glass"}
	lighting := &core.Material{Name: "deferred-light"}

	scene := core.NewScene()

	ground := core.NewMeshRenderer(cube, lit)
	ground.Transform.Scale = mgl32.Vec3{40, 0.2, 40}
	ground.Transform.Position = mgl32.Vec3{0, -0.1, 0}
	ground.PickID = 1
	scene.AddObject(ground)

	for i := 0; i < 5; i++ {
		c := core.NewMeshRenderer(cube, lit)
		c.Transform.Position = mgl32.Vec3{float32(i*3 - 6), 0.5, float32(-i * 4)}
		c.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(float32(i*20)), mgl32.Vec3{0, 1, 0})
		c.PickID = uint32(2 + i)
		scene.AddObject(c)
	}

	// Far behind the camera; culled from camera passes, still a caster.
	behind := core.NewMeshRenderer(sphere, lit)
	behind.Transform.Position = mgl32.Vec3{0, 2, 40}
	behind.PickID = 10
	scene.AddObject(behind)

	window := core.NewMeshRenderer(cube, glass)
	window.Layers = core.LayerTranslucent | core.LayerRaycast
	window.Transform.Position = mgl32.Vec3{2, 1.5, 4}
	window.Transform.Scale = mgl32.Vec3{2, 2, 0.05}
	window.PickID = 11
	scene.AddObject(window)

	sun := core.NewDirectionalLight(quad, lighting)
	sun.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-50), mgl32.Vec3{1, 0, 0}).
		Mul(mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0}))
	sun.Shadows = true
	scene.AddObject(sun)

	spot := core.NewSpotLight(cone, lighting)
	spot.Transform.Position = mgl32.Vec3{-3, 6, -4}
	spot.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0})
	spot.Angle = 30
	spot.Distance = 12
	spot.Shadows = true
	scene.AddObject(spot)

	point := core.NewPointLight(sphere, lighting)
	point.Transform.Position = mgl32.Vec3{4, 2, -6}
	point.Radius = 8
	point.Shadows = true
	scene.AddObject(point)

	return scene
}
