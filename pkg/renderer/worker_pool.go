package renderer

import (
	"sync"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
)

// frame is the shared, read-only description of one pass plus its output buffer.
// Workers write disjoint rows of pixels.
type frame struct {
	width, height   int
	origin          core.Vec3 // Camera position
	inverseViewProj core.Mat4
	pixels          []uint32
}

// primaryRay returns the camera ray through the center of pixel (x, y),
// with row 0 at the top of the image
func (f *frame) primaryRay(x, y int) core.Ray {
	win := core.NewVec3(float64(x)+0.5, float64(f.height-y)-0.5, 0)
	target := core.UnProject(win, f.inverseViewProj, float64(f.width), float64(f.height))
	return core.NewRay(f.origin, target.Subtract(f.origin).Normalize())
}

// RowResult is reported by a worker once all of its rows are written
type RowResult struct {
	WorkerID int
	Rows     int
	Stats    RenderStats
}

// WorkerPool renders one frame with a fixed set of workers.
// Worker i owns rows i, i+N, i+2N, ... for N workers.
type WorkerPool struct {
	workers     []*Worker
	resultQueue chan RowResult
	wg          sync.WaitGroup
}

// Worker renders an interleaved set of rows with its own tracer
type Worker struct {
	ID          int
	stride      int
	tracer      *tracer
	frame       *frame
	resultQueue chan RowResult
}

// NewWorkerPool creates numWorkers workers, each with a tracer from newTracer
func NewWorkerPool(f *frame, numWorkers int, newTracer func() *tracer) *WorkerPool {
	wp := &WorkerPool{
		resultQueue: make(chan RowResult, numWorkers), // One result per worker
	}
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			stride:      numWorkers,
			tracer:      newTracer(),
			frame:       f,
			resultQueue: wp.resultQueue,
		})
	}
	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Wait blocks until every worker finishes and returns their results
func (wp *WorkerPool) Wait() []RowResult {
	wp.wg.Wait()
	close(wp.resultQueue)

	results := make([]RowResult, 0, len(wp.workers))
	for result := range wp.resultQueue {
		results = append(results, result)
	}
	return results
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return len(wp.workers)
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	f := w.frame
	rows := 0
	for y := w.ID; y < f.height; y += w.stride {
		row := f.pixels[y*f.width : (y+1)*f.width]
		for x := range row {
			w.tracer.stats.PrimaryRays++
			color := w.tracer.trace(f.primaryRay(x, y), geometry.NoObject, 0, 1.0)
			row[x] = PackColor(color)
		}
		rows++
	}
	w.tracer.stats.Pixels = rows * f.width

	w.resultQueue <- RowResult{WorkerID: w.ID, Rows: rows, Stats: w.tracer.stats}
}
