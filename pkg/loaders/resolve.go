package loaders

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// ResolveScene creates a scene from an identifier: a built-in scene name,
// "json:<name>" for <scenesDir>/<name>.json, or a path to a .json file.
func ResolveScene(id, scenesDir string) (*scene.Scene, error) {
	if !strings.HasPrefix(id, "json:") && strings.HasSuffix(strings.ToLower(id), ".json") {
		if _, err := os.Stat(id); err != nil {
			return nil, fmt.Errorf("scene file not found: %w", err)
		}
		return LoadSceneJSON(id)
	}
	return ResolveNamedScene(id, scenesDir)
}

// ResolveNamedScene accepts only a built-in scene name or "json:<name>",
// so the files it can open are limited to scenesDir. Errors never name
// paths outside it.
func ResolveNamedScene(id, scenesDir string) (*scene.Scene, error) {
	switch {
	case id == "":
		return nil, fmt.Errorf("no scene given")
	case strings.HasPrefix(id, "json:"):
		name := strings.TrimPrefix(id, "json:")
		if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
			return nil, fmt.Errorf("invalid scene file name %q", name)
		}
		if scenesDir == "" {
			return nil, fmt.Errorf("no scenes directory for %s", id)
		}
		path := filepath.Join(scenesDir, name+".json")
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unknown scene file %q", name)
		}
		return LoadSceneJSON(path)
	case strings.ContainsAny(id, `/\`) || strings.HasSuffix(strings.ToLower(id), ".json"):
		return nil, fmt.Errorf("scene paths are not accepted, use a built-in name or json:<name>")
	default:
		return scene.NewSceneByName(id)
	}
}
