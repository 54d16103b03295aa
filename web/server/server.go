package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/df07/go-octree-raytracer/pkg/loaders"
	"github.com/df07/go-octree-raytracer/pkg/renderer"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

const (
	defaultScene = "gallery"
	maxImageSize = 4096
	maxDepth     = 16
	maxThreads   = 256
)

// Server handles web requests for the raytracer. At most one render job
// runs at a time; the last finished frame stays available as a PNG.
type Server struct {
	port      int
	scenesDir string

	mu        sync.Mutex
	job       *renderJob
	lastImage *image.RGBA

	// renderFrame runs one pass; tests replace it to hold a job open
	renderFrame func(r *renderer.Renderer, pixels []uint32) (renderer.RenderStats, error)
}

// NewServer creates a new web server. Scene files are read from scenesDir.
func NewServer(port int, scenesDir string) *Server {
	return &Server{
		port:        port,
		scenesDir:   scenesDir,
		renderFrame: (*renderer.Renderer).Render,
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Depth   int    `json:"depth"`
	Octree  bool   `json:"octree"`
	Threads int    `json:"threads"` // 0 = CPU count
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// stdLogger adapts the standard log package to core.Logger
type stdLogger struct{}

func (stdLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the scene files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir, stdLogger{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// parseRenderRequest resolves the requested scene and fills unset
// parameters from its render settings.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = defaultScene
	}

	sceneObj, err := loaders.ResolveNamedScene(req.Scene, s.scenesDir)
	if err != nil {
		return nil, nil, err
	}
	settings := sceneObj.Settings

	if req.Width, err = parseIntParam(query, "width", settings.Width, 1, maxImageSize); err != nil {
		return nil, nil, err
	}
	if req.Height, err = parseIntParam(query, "height", settings.Height, 1, maxImageSize); err != nil {
		return nil, nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", settings.DepthLimit, 0, maxDepth); err != nil {
		return nil, nil, err
	}
	if req.Octree, err = parseBoolParam(query, "octree", settings.EnableOctree); err != nil {
		return nil, nil, err
	}
	if req.Threads, err = parseIntParam(query, "threads", 0, 0, maxThreads); err != nil {
		return nil, nil, err
	}

	if req.Width*req.Height > 2048*2048 && req.Depth > 4 {
		log.Printf("Render warning: Large image with deep recursion may render slowly")
	}

	sceneObj.SetAspect(req.Width, req.Height)
	return req, sceneObj, nil
}

// params converts the request into renderer parameters
func (req *RenderRequest) params() renderer.RenderParams {
	return renderer.RenderParams{
		Width:        req.Width,
		Height:       req.Height,
		DepthLimit:   req.Depth,
		EnableOctree: req.Octree,
		Threads:      req.Threads,
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam accepts strconv.ParseBool spellings plus on/off
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	switch value := values.Get(key); value {
	case "":
		return defaultValue, nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
