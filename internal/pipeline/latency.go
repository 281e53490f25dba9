package pipeline

// packet is data in flight across a link with latency.
type packet struct {
	amount    float64
	countdown int
}

// LatencyBuffer is a FIFO of in-flight packets. It is transient and never
// persisted.
type LatencyBuffer struct {
	queue []packet
}

// Push enqueues amount to mature after latency ticks.
func (b *LatencyBuffer) Push(amount float64, latency int) {
	if amount <= 0 {
		return
	}
	b.queue = append(b.queue, packet{amount: amount, countdown: latency})
}

// Drain ages every packet by one tick and returns the total of matured ones.
func (b *LatencyBuffer) Drain() float64 {
	var matured float64
	kept := b.queue[:0]
	for _, p := range b.queue {
		p.countdown--
		if p.countdown <= 0 {
			matured += p.amount
			continue
		}
		kept = append(kept, p)
	}
	b.queue = kept
	return matured
}

// Backlog returns the total amount still in flight.
func (b *LatencyBuffer) Backlog() float64 {
	var sum float64
	for _, p := range b.queue {
		sum += p.amount
	}
	return sum
}

// Len returns the number of packets in flight.
func (b *LatencyBuffer) Len() int {
	return len(b.queue)
}

// Reset discards everything in flight.
func (b *LatencyBuffer) Reset() {
	b.queue = nil
}
