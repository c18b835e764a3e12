package loader

import (
	"image"
	"sync"
	"sync/atomic"
)

// Result is the outcome of one asynchronous load request.
type Result struct {
	Generation uint64
	Image      image.Image
	Err        error
}

// AsyncLoader runs fire-and-forget image loads and tags each request
// with a monotonically increasing generation. A slow load that was
// superseded by a newer request resolves with a stale generation and
// must be discarded, so a later selection is never overwritten by an
// earlier load.
type AsyncLoader struct {
	loader *Loader
	gen    atomic.Uint64
	mu     sync.Mutex
}

// NewAsync creates an AsyncLoader on top of the given Loader.
func NewAsync(l *Loader) *AsyncLoader {
	if l == nil {
		l = New()
	}
	return &AsyncLoader{loader: l}
}

// Load starts decoding source (file path or URL) in the background and
// returns the request's generation plus a channel that delivers exactly
// one Result.
func (a *AsyncLoader) Load(source string) (uint64, <-chan Result) {
	gen := a.gen.Add(1)
	ch := make(chan Result, 1)
	go func() {
		img, err := a.loader.OpenSmart(source)
		ch <- Result{Generation: gen, Image: img, Err: err}
	}()
	return gen, ch
}

// Current returns the generation of the most recently issued request.
func (a *AsyncLoader) Current() uint64 {
	return a.gen.Load()
}

// Invalidate discards all in-flight loads by advancing the generation.
// Their results will fail Accept when they resolve. Callers use this
// when the selection the loads were issued for no longer exists.
func (a *AsyncLoader) Invalidate() {
	a.gen.Add(1)
}

// Accept reports whether a completed result is still current. Stale
// results must be dropped by the caller.
func (a *AsyncLoader) Accept(r Result) bool {
	return r.Generation == a.gen.Load()
}

// Apply calls fn with the result under the loader's mutex, but only if
// the result is still current; it reports whether fn ran. The mutex
// serializes apply callbacks from concurrent load completions.
func (a *AsyncLoader) Apply(r Result, fn func(Result)) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.Accept(r) {
		return false
	}
	fn(r)
	return true
}
