package usecase

import "sync"

// Gate allows one in-flight export per key. Callers use it to drop repeated
// triggers from the same place (a button, a resume id) while an export is
// running.
type Gate struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGate() *Gate {
	return &Gate{active: map[string]struct{}{}}
}

// TryAcquire reports false when key is already busy. On success the returned
// release func must be called once the export finishes.
func (g *Gate) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return nil, false
	}
	g.active[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, key)
			g.mu.Unlock()
		})
	}, true
}
