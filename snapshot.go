// FILE: lixenwraith/flags/snapshot.go
package flags

// Snapshot is a copy of the state of every flag in a Registry, typically used
// as
//
//	defer r.Save().Restore()
type Snapshot struct {
	r     *Registry
	flags []*descriptor
}

// Save captures the current value, default, modified bit and validator of
// every flag. The copies own their storage; nothing of the live flags is
// shared.
func (r *Registry) Save() *Snapshot {
	l := r.lock()
	defer l.unlock()

	s := &Snapshot{r: r, flags: make([]*descriptor, 0, len(l.r.flags))}
	for _, d := range l.r.flags {
		s.flags = append(s.flags, d.clone())
	}
	return s
}

// Restore writes the captured state back into the live flags. Storage
// addresses do not change, so pointers held by the program stay valid.
// Flags that no longer exist are skipped.
func (s *Snapshot) Restore() {
	l := s.r.lock()
	defer l.unlock()

	for _, saved := range s.flags {
		if d := l.find(saved.name); d != nil {
			d.copyFrom(saved)
		}
	}
}
