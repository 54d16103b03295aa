package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-octree-raytracer/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtinGroup = "Built-in Scenes"

// DefaultScenesDirs are searched in order when no directory is given
var DefaultScenesDirs = []string{"scenes", "../scenes"}

// FindScenesDir returns the first existing default scenes directory, or ""
func FindScenesDir() string {
	for _, path := range DefaultScenesDirs {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListJSONScenes scans dir for *.json scene files. A missing directory yields
// an empty list. Files whose metadata cannot be read are reported to logger
// and left out.
func ListJSONScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if dir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %v", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			logger.Printf("Warning: skipping scene file: %v\n", err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata reads the descriptive top-level fields of a JSON scene file
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("json:%s", nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
		Variant     string `json:"variant"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return sceneInfo, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	if header.Name != "" {
		sceneInfo.Name = header.Name
	}
	if header.Group != "" {
		sceneInfo.Group = header.Group
	}
	sceneInfo.Description = header.Description
	sceneInfo.Variant = header.Variant

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and scene-file entries, grouped by category
func ListAllScenes(dir string, logger core.Logger) (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, name := range BuiltinNames() {
		allScenes = append(allScenes, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			DisplayName: titleCase(name),
			Description: builtins[name].description,
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	fileScenes, err := ListJSONScenes(dir, logger)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %v", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-spheres" -> "Glass Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
