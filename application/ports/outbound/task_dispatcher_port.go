package outbound

// TaskDispatcher submits work to a bounded background pool.
type TaskDispatcher interface {
	Submit(task func()) error
}
