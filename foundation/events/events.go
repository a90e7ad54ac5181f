// Package events allows for the registering and receiving of the trace
// events simulation runs emit.
package events

import (
	"fmt"
	"sync"
	"time"
)

// Event represents one trace line of a simulation run.
type Event struct {
	Run     string    `json:"run"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

type subscriber struct {
	run string
	ch  chan Event
}

// Events maintains a mapping of unique id and channels so goroutines
// can register and receive events.
type Events struct {
	m  map[string]subscriber
	mu sync.RWMutex
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]subscriber),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.m {
		delete(evt.m, id)
		close(sub.ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used to
// receive events. An empty run receives the events of every run.
func (evt *Events) Acquire(id string, run string) <-chan Event {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.m[id]
	if exists {
		return sub.ch
	}

	// Since a message will be dropped if the websocket receiver is
	// not ready to receive, this arbitrary buffer should give the receiver
	// enough time to not lose a message. Websocket send could take long.
	const messageBuffer = 100

	sub = subscriber{
		run: run,
		ch:  make(chan Event, messageBuffer),
	}
	evt.m[id] = sub

	return sub.ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(sub.ch)
	return nil
}

// Send signals an event to every channel registered for its run. Send will
// not block waiting for a receiver on any given channel.
func (evt *Events) Send(e Event) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, sub := range evt.m {
		if sub.run != "" && sub.run != e.Run {
			continue
		}

		select {
		case sub.ch <- e:
		default:
		}
	}
}

// Handler returns a function with the signature of a run's event handler
// that sends every trace line as an event of the specified run.
func (evt *Events) Handler(run string) func(v string, args ...any) {
	return func(v string, args ...any) {
		evt.Send(Event{
			Run:     run,
			Time:    time.Now().UTC(),
			Message: fmt.Sprintf(v, args...),
		})
	}
}
