package sink

import "sync"

var (
	instanceOnce sync.Once
	instance     *Sink
	instanceErr  error
)

// Instance returns the process-wide sink, opening it at path on the first
// call. Later calls ignore their arguments and return the first result,
// including a failed open. An empty path means DefaultPath.
func Instance(path string, opts Options) (*Sink, error) {
	instanceOnce.Do(func() {
		instance, instanceErr = Open(path, opts)
	})
	return instance, instanceErr
}
