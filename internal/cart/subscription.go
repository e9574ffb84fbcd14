package cart

// subscriberBuffer is how many counts a subscriber may lag before
// publishing blocks. Updates are never dropped or coalesced; a consumer
// that stops draining eventually stalls mutations.
const subscriberBuffer = 64

type subscriber struct {
	ch chan int
}

// Subscribe returns a channel of total item counts for badge display. The
// current count is delivered immediately, then one value per mutation in
// the order the mutating calls were issued. The returned func cancels the
// subscription and closes the channel.
func (s *Store) Subscribe() (<-chan int, func()) {
	sub := &subscriber{ch: make(chan int, subscriberBuffer)}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	sub.ch <- s.ItemCount()

	unsubscribe := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, candidate := range s.subs {
			if candidate == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(sub.ch)
				return
			}
		}
	}
	return sub.ch, unsubscribe
}

func (s *Store) publish(count int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, sub := range s.subs {
		sub.ch <- count
	}
}
