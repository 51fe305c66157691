package catalog

import "sync"

// ChangeFeed fans out a payload-free "catalog changed" signal to in-process
// subscribers.
//
// Delivery is best effort: each subscriber channel has a buffer of one, so
// signals coalesce while a subscriber is busy and a slow subscriber never
// blocks the writer. Subscribers registered after a signal fires do not see
// it; they are expected to take a fresh snapshot on subscribe.
type ChangeFeed struct {
	mu   sync.Mutex
	subs map[<-chan struct{}]chan struct{}
}

// NewChangeFeed creates an empty feed.
func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{subs: map[<-chan struct{}]chan struct{}{}}
}

// Subscribe registers a new subscriber and returns its signal channel.
func (f *ChangeFeed) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[ch] = ch
	return ch
}

// Unsubscribe removes a subscriber. The channel is not closed; a pending
// coalesced signal may still be read after unsubscribing.
func (f *ChangeFeed) Unsubscribe(ch <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, ch)
}

// Notify signals every current subscriber without blocking.
func (f *ChangeFeed) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
