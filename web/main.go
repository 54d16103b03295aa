package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-octree-raytracer/pkg/scene"
	"github.com/df07/go-octree-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "", "Directory of JSON scene files (default: scenes or ../scenes)")
	flag.Parse()

	dir := *scenesDir
	if dir == "" {
		dir = scene.FindScenesDir()
	}

	webServer := server.NewServer(*port, dir)

	log.Printf("Octree Raytracer Web Server")
	log.Printf("Start a render with http://localhost:%d/api/render?scene=gallery, then poll /api/status and fetch /api/image", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
