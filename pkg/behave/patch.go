package behave

import "sync"

// Patcher records installed doubles so they can be undone.
type Patcher interface {
	AddPatch(d *Double)
}

// Double is an installed substitution.
type Double struct {
	once    sync.Once
	restore func()
}

// Restore puts the original value back. Calling it again does nothing.
func (d *Double) Restore() {
	d.once.Do(d.restore)
}

// Patch replaces *target with value until the double is restored. The double
// is registered with p, so a Fixture undoes it at the end of the test.
//
//	behave.Patch(w, &clock.Now, func() time.Time { return fixed })
func Patch[T any](p Patcher, target *T, value T) *Double {
	original := *target
	*target = value
	d := &Double{restore: func() { *target = original }}
	p.AddPatch(d)
	return d
}

// Fixture is embedded in a behavior's state type to collect patches. The
// runner calls RestorePatches at the end of every executed test.
type Fixture struct {
	mu      sync.Mutex
	patches []*Double
}

// AddPatch implements Patcher.
func (f *Fixture) AddPatch(d *Double) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, d)
}

// RestorePatches restores every recorded patch, most recent first.
func (f *Fixture) RestorePatches() {
	f.mu.Lock()
	patches := f.patches
	f.patches = nil
	f.mu.Unlock()

	for i := len(patches) - 1; i >= 0; i-- {
		patches[i].Restore()
	}
}
