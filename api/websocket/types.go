package websocket

// aborts the running generation
type Canceler interface {
	Cancel() bool
}
