// worker/pool.go
package worker

// Task is one unit of work executed by a pool worker.
type Task[T any] func() T

type Result[T any] struct {
	TaskID string
	Output T
}

// Pool runs tasks on a fixed number of workers. The worker count bounds how
// many tasks execute at once; for grading that caps concurrent model calls.
type Pool[T any] struct {
	tasks   chan taskWrapper[T]
	results chan Result[T]
}

type taskWrapper[T any] struct {
	id string
	fn Task[T]
}

// NewPool starts workerCount workers. bufferSize should be at least the
// number of tasks the caller will submit before reading results, otherwise
// Submit blocks until a worker frees a slot.
func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		tasks:   make(chan taskWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	for task := range p.tasks {
		output := task.fn()
		p.results <- Result[T]{
			TaskID: task.id,
			Output: output,
		}
	}
}

func (p *Pool[T]) Submit(id string, fn Task[T]) {
	p.tasks <- taskWrapper[T]{id: id, fn: fn}
}

// Results yields outputs in completion order, not submission order.
func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close releases the workers once submitted tasks have drained. Submitting
// after Close panics.
func (p *Pool[T]) Close() {
	close(p.tasks)
}
