package ecs

import "log"

// Signal names a zero-argument notification.
type Signal string

const (
	SignalDeath   Signal = "death"
	SignalRespawn Signal = "respawn"
)

type subscriber struct {
	name string
	fn   func()
	gone bool
}

// Subscription identifies a registered observer and can cancel it.
type Subscription struct {
	sub *subscriber
}

// Cancel detaches the observer. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.sub == nil {
		return
	}
	s.sub.gone = true
}

// Notifier is a synchronous, ordered, multi-subscriber notification bus.
// Observer panics are isolated per subscriber so one failing observer cannot
// block the rest of the fan-out.
type Notifier struct {
	subs map[Signal][]*subscriber
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[Signal][]*subscriber)}
}

// Subscribe registers fn to run on every publish of sig, in registration
// order. The name is used only for diagnostics.
func (n *Notifier) Subscribe(sig Signal, name string, fn func()) *Subscription {
	if n == nil || fn == nil {
		return nil
	}
	if n.subs == nil {
		n.subs = make(map[Signal][]*subscriber)
	}
	sub := &subscriber{name: name, fn: fn}
	n.subs[sig] = append(n.subs[sig], sub)
	return &Subscription{sub: sub}
}

// Publish runs every live subscriber for sig synchronously. Fan-out completes
// before Publish returns, so observers never see a half-applied transition.
func (n *Notifier) Publish(sig Signal) {
	if n == nil {
		return
	}
	subs := n.subs[sig]
	live := subs[:0]
	for _, sub := range subs {
		if sub == nil || sub.gone {
			continue
		}
		live = append(live, sub)
		n.dispatch(sig, sub)
	}
	n.subs[sig] = live
}

func (n *Notifier) dispatch(sig Signal, sub *subscriber) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notifier: %s observer %q panicked: %v", sig, sub.name, r)
		}
	}()
	sub.fn()
}
