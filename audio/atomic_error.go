package audio

import "sync"

// atomicError keeps the first error stored in it.
type atomicError struct {
	err error
	m   sync.Mutex
}

// TryStore records err if no error was recorded yet and reports whether it did.
func (a *atomicError) TryStore(err error) bool {
	a.m.Lock()
	defer a.m.Unlock()
	if a.err == nil {
		a.err = err
		return true
	}
	return false
}

func (a *atomicError) Load() error {
	a.m.Lock()
	defer a.m.Unlock()
	return a.err
}

func (a *atomicError) Reset() {
	a.m.Lock()
	a.err = nil
	a.m.Unlock()
}
