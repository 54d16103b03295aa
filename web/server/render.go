package server

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-octree-raytracer/pkg/renderer"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

type jobState string

const (
	stateIdle    jobState = "idle"
	stateRunning jobState = "running"
	stateDone    jobState = "done"
	stateFailed  jobState = "failed"
)

// renderJob is one asynchronous frame. Fields other than done are guarded
// by the server mutex.
type renderJob struct {
	id       string
	req      RenderRequest
	state    jobState
	started  time.Time
	finished time.Time
	stats    renderer.RenderStats
	err      string
	console  []ConsoleMessage
	done     chan struct{} // Closed once the job has settled
}

// JobStatus is the polled view of the current or last render job
type JobStatus struct {
	ID        string           `json:"id,omitempty"`
	State     string           `json:"state"` // "idle", "running", "done", "failed"
	Scene     string           `json:"scene,omitempty"`
	Width     int              `json:"width,omitempty"`
	Height    int              `json:"height,omitempty"`
	Depth     int              `json:"depth"`
	Octree    bool             `json:"octree"`
	ElapsedMs int64            `json:"elapsedMs"`
	Stats     *Stats           `json:"stats,omitempty"`
	Error     string           `json:"error,omitempty"`
	Console   []ConsoleMessage `json:"console,omitempty"`
}

// Stats represents render statistics
type Stats struct {
	Pixels         int   `json:"pixels"`
	Workers        int   `json:"workers"`
	PrimaryRays    int64 `json:"primaryRays"`
	ShadowRays     int64 `json:"shadowRays"`
	ReflectionRays int64 `json:"reflectionRays"`
	RefractionRays int64 `json:"refractionRays"`
	TotalRays      int64 `json:"totalRays"`
	DurationMs     int64 `json:"durationMs"`
}

func (j *renderJob) status() JobStatus {
	status := JobStatus{
		ID:      j.id,
		State:   string(j.state),
		Scene:   j.req.Scene,
		Width:   j.req.Width,
		Height:  j.req.Height,
		Depth:   j.req.Depth,
		Octree:  j.req.Octree,
		Error:   j.err,
		Console: append([]ConsoleMessage(nil), j.console...),
	}
	if j.state == stateRunning {
		status.ElapsedMs = time.Since(j.started).Milliseconds()
		return status
	}
	status.ElapsedMs = j.finished.Sub(j.started).Milliseconds()
	if j.state == stateDone {
		status.Stats = &Stats{
			Pixels:         j.stats.Pixels,
			Workers:        j.stats.Workers,
			PrimaryRays:    j.stats.PrimaryRays,
			ShadowRays:     j.stats.ShadowRays,
			ReflectionRays: j.stats.ReflectionRays,
			RefractionRays: j.stats.RefractionRays,
			TotalRays:      j.stats.TotalRays(),
			DurationMs:     j.stats.Duration.Milliseconds(),
		}
	}
	return status
}

// handleRender starts a render job and returns its status without waiting.
// A second request while a job runs gets 409 with the running job's status.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	s.mu.Lock()
	if s.job != nil && s.job.state == stateRunning {
		status := s.job.status()
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, status)
		return
	}
	job := &renderJob{
		id:      fmt.Sprintf("render-%d", time.Now().UnixNano()),
		req:     *req,
		state:   stateRunning,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	s.job = job
	status := job.status()
	s.mu.Unlock()

	go s.runJob(job, sceneObj)
	writeJSON(w, http.StatusAccepted, status)
}

// runJob renders the frame and publishes the image and final status
func (s *Server) runJob(job *renderJob, sceneObj *scene.Scene) {
	defer close(job.done)

	consoleChan := make(chan ConsoleMessage, 64)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for msg := range consoleChan {
			s.mu.Lock()
			job.console = append(job.console, msg)
			s.mu.Unlock()
		}
	}()

	logger := NewWebLogger(job.id, consoleChan)
	sceneObj.Logger = logger
	params := job.req.params()
	pixels := make([]uint32, params.Width*params.Height)

	stats, err := s.renderFrame(renderer.NewRenderer(sceneObj, params, logger), pixels)
	var img *image.RGBA
	if err == nil {
		img, err = renderer.ToImage(pixels, params.Width, params.Height)
	}
	close(consoleChan)
	<-collected

	s.mu.Lock()
	defer s.mu.Unlock()
	job.finished = time.Now()
	job.stats = stats
	if err != nil {
		job.state = stateFailed
		job.err = err.Error()
		log.Printf("Render %s failed: %v", job.id, err)
		return
	}
	job.state = stateDone
	s.lastImage = img
}

// handleStatus reports the current or last job
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := JobStatus{State: string(stateIdle)}
	if s.job != nil {
		status = s.job.status()
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

// handleImage serves the last finished frame as PNG
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	img := s.lastImage
	s.mu.Unlock()
	if img == nil {
		writeError(w, http.StatusNotFound, "no finished render yet")
		return
	}

	data, err := encodePNG(img)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
