package executors

/**
 * Operator is a push style physical operator. Execute processes one input
 * unit to completion, including every push to the successor, before it
 * returns. AllInputsReceived tells the operator no more input will come.
 */
type Operator[In any] interface {
	Execute(input In) error
	AllInputsReceived() error
}

// Transform is a pipe style operator: one input in, one output out.
type Transform[In any, Out any] interface {
	Transform(input In) (Out, error)
}

type TransformFunc[In any, Out any] func(input In) (Out, error)

func (f TransformFunc[In, Out]) Transform(input In) (Out, error) {
	return f(input)
}

// Pipe chains two transforms into one.
type Pipe[In any, Inter any, Out any] struct {
	first  Transform[In, Inter]
	second Transform[Inter, Out]
}

func NewPipe[In any, Inter any, Out any](first Transform[In, Inter], second Transform[Inter, Out]) *Pipe[In, Inter, Out] {
	return &Pipe[In, Inter, Out]{first, second}
}

func (p *Pipe[In, Inter, Out]) Transform(input In) (Out, error) {
	mid, err := p.first.Transform(input)
	if err != nil {
		var zero Out
		return zero, err
	}
	return p.second.Transform(mid)
}

// PushTransform turns a transform into a push operator which hands every
// output to next.
type PushTransform[In any, Out any] struct {
	transform Transform[In, Out]
	next      Operator[Out]
}

func NewPushTransform[In any, Out any](t Transform[In, Out], next Operator[Out]) *PushTransform[In, Out] {
	return &PushTransform[In, Out]{t, next}
}

func (p *PushTransform[In, Out]) Execute(input In) error {
	out, err := p.transform.Transform(input)
	if err != nil {
		return err
	}
	return p.next.Execute(out)
}

func (p *PushTransform[In, Out]) AllInputsReceived() error {
	return p.next.AllInputsReceived()
}
