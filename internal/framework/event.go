package framework

import "fmt"

// EventType identifies a framework event.
type EventType int

const (
	EventBundleInstalled EventType = iota
	EventBundleStarted
	EventBundleFailed
	EventBundleStopped
	EventFrameworkStarted
	EventFrameworkStopped
)

func (t EventType) String() string {
	switch t {
	case EventBundleInstalled:
		return "bundle-installed"
	case EventBundleStarted:
		return "bundle-started"
	case EventBundleFailed:
		return "bundle-failed"
	case EventBundleStopped:
		return "bundle-stopped"
	case EventFrameworkStarted:
		return "framework-started"
	case EventFrameworkStopped:
		return "framework-stopped"
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is delivered to listeners registered with Context.AddListener.
// Bundle is nil for framework events.
type Event struct {
	Type   EventType
	Bundle *Bundle
	Err    error
}

// Listener receives events synchronously on the publishing goroutine.
type Listener func(Event)
