package control

// DefaultHistorySize is the number of samples kept for plotting.
const DefaultHistorySize = 100

// Sample is one plotted point: seconds since the loop started and the position at that time.
type Sample struct {
	Time  float64
	Value float64
}

// SampleBuffer is a fixed-capacity FIFO of samples. Once full, every Push evicts the oldest
// sample. It is not safe for concurrent use.
type SampleBuffer struct {
	buf  []Sample
	head int
	size int
}

// NewSampleBuffer returns an empty buffer holding at most capacity samples (at least one).
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SampleBuffer{buf: make([]Sample, capacity)}
}

// Push appends a sample, evicting the oldest one first when the buffer is full.
func (b *SampleBuffer) Push(t, v float64) {
	if b.size == len(b.buf) {
		b.head = (b.head + 1) % len(b.buf)
		b.size--
	}
	b.buf[(b.head+b.size)%len(b.buf)] = Sample{Time: t, Value: v}
	b.size++
}

// Snapshot returns a copy of the samples, oldest first.
func (b *SampleBuffer) Snapshot() []Sample {
	out := make([]Sample, b.size)
	for i := range out {
		out[i] = b.buf[(b.head+i)%len(b.buf)]
	}
	return out
}

// Times returns the sample times, oldest first.
func (b *SampleBuffer) Times() []float64 {
	out := make([]float64, b.size)
	for i := range out {
		out[i] = b.buf[(b.head+i)%len(b.buf)].Time
	}
	return out
}

// Values returns the sample values, oldest first.
func (b *SampleBuffer) Values() []float64 {
	out := make([]float64, b.size)
	for i := range out {
		out[i] = b.buf[(b.head+i)%len(b.buf)].Value
	}
	return out
}

// Len returns the number of buffered samples.
func (b *SampleBuffer) Len() int {
	return b.size
}

// Cap returns the buffer capacity.
func (b *SampleBuffer) Cap() int {
	return len(b.buf)
}
