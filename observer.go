package protoclust

// Observer is notified once per completed merge, in merge order. It is
// meant for progress reporting and has no effect on the result.
type Observer interface {
	OnMerge(iteration int, m Merge)
}

// ObserverFunc adapts a plain function into an Observer.
type ObserverFunc func(iteration int, m Merge)

func (f ObserverFunc) OnMerge(iteration int, m Merge) { f(iteration, m) }
