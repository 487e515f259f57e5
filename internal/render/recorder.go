package render

import (
	"sync"

	"github.com/san-kum/molview/internal/scene"
)

// Frame summarises one Draw call on a Recorder.
type Frame struct {
	Width, Height int
	Spheres       int
	Boxes         int
	Labels        int
	Rotation      scene.Euler
	Distance      float64
	Aspect        float64
}

// Recorder is a headless surface for tests and benchmarks.
type Recorder struct {
	mu            sync.Mutex
	width, height int
	frames        []Frame
	// Err, when set, is returned from Draw.
	Err error
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) SetSize(w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = w, h
}

func (r *Recorder) Draw(s *scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.frames = append(r.frames, Frame{
		Width:    r.width,
		Height:   r.height,
		Spheres:  s.Root.Spheres(),
		Boxes:    s.Root.Boxes(),
		Labels:   len(s.Root.Labels),
		Rotation: s.Root.Rotation,
		Distance: s.Camera.Distance(),
		Aspect:   s.Camera.Aspect,
	})
	return nil
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Last returns the most recent frame, or false if nothing was drawn.
func (r *Recorder) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

func (r *Recorder) Size() (w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}
