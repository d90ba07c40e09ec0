// Package spanfeed implements the Native Span Feed (spec §4.8, §6.4): a
// chunked byte stream with reservation and auto-commit semantics, whose
// committed spans are delivered to a consumer in commit order through a
// bounded ring buffer. It is designed for a producer and a consumer on
// separate threads but, like the rest of this engine, leaves fencing to
// the caller; the mutex here is defense in depth, not a concurrency
// contract.
package spanfeed

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Errors returned by Stream's state-transition methods (spec §6.4).
var (
	ErrNoSpace  = errors.New("spanfeed: no space")
	ErrBusy     = errors.New("spanfeed: busy")
	ErrMaxBytes = errors.New("spanfeed: max bytes exceeded")
	ErrInvalid  = errors.New("spanfeed: invalid")
)

// GrowthPolicy controls whether Write/Reserve may allocate new chunks
// once the current one is exhausted.
type GrowthPolicy int

const (
	GrowthFixed GrowthPolicy = iota
	GrowthGrow
)

const defaultRingCapacity = 4096

// CreateOpts configures a new Stream (spec §6.4's Stream.create opts).
type CreateOpts struct {
	ChunkSize         int
	InitialChunks     int
	MaxBytes          int
	GrowthPolicy      GrowthPolicy
	AutoCommitOnFull  bool
	SpanQueueCapacity int
}

// SpanInfo identifies one committed span: the chunk it lives in and its
// byte range within that chunk.
type SpanInfo struct {
	ID         uuid.UUID
	ChunkIndex int
	Offset     int
	Len        int
}

// Reservation is a writable slice returned by Reserve, backed directly by
// the stream's chunk memory.
type Reservation struct {
	ChunkIndex int
	Offset     int
	Len        int
	Bytes      []byte
}

// Stats mirrors spec §6.4's getStats().
type Stats struct {
	Chunks         int
	BytesWritten   int
	SpansCommitted int
	PendingSpans   int
}

// Stream is the Native Span Feed.
type Stream struct {
	mu sync.Mutex

	chunkSize        int
	maxBytes         int
	growthPolicy     GrowthPolicy
	autoCommitOnFull bool
	closed           bool

	chunks    [][]byte
	stateBuf  []byte // per-chunk live-span refcount, saturating at 255
	curChunk  int
	curOff    int // write cursor within chunks[curChunk]
	pendingStart int // start of uncommitted data within chunks[curChunk]

	reserved    bool
	reservedLen int

	ring                []SpanInfo
	ringCap             int
	ringHead, ringTail  int
	ringCount           int

	bytesWritten   int
	spansCommitted int
}

// Create allocates a Stream with opts.initial_chunks chunks.
func Create(opts CreateOpts) (*Stream, error) {
	if opts.ChunkSize <= 0 || opts.InitialChunks <= 0 {
		return nil, ErrInvalid
	}
	ringCap := opts.SpanQueueCapacity
	if ringCap == 0 {
		ringCap = defaultRingCapacity
	}
	s := &Stream{
		chunkSize:        opts.ChunkSize,
		maxBytes:         opts.MaxBytes,
		growthPolicy:     opts.GrowthPolicy,
		autoCommitOnFull: opts.AutoCommitOnFull,
		ring:             make([]SpanInfo, ringCap),
		ringCap:          ringCap,
	}
	for i := 0; i < opts.InitialChunks; i++ {
		s.chunks = append(s.chunks, make([]byte, opts.ChunkSize))
	}
	s.stateBuf = make([]byte, len(s.chunks))
	return s, nil
}

// Write appends data to the current chunk, committing and advancing
// chunks as needed when AutoCommitOnFull is set. Bytes already consumed
// before a failure remain in the stream as pending data (spec §4.8).
func (s *Stream) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved {
		return ErrBusy
	}
	for len(data) > 0 {
		free := s.chunkSize - s.curOff
		if free == 0 {
			if !s.autoCommitOnFull {
				return ErrNoSpace
			}
			if err := s.commitPendingLocked(); err != nil {
				return err
			}
			if err := s.advanceChunkLocked(); err != nil {
				return err
			}
			free = s.chunkSize - s.curOff
		}
		n := free
		if n > len(data) {
			n = len(data)
		}
		copy(s.chunks[s.curChunk][s.curOff:s.curOff+n], data[:n])
		s.curOff += n
		data = data[n:]
	}
	return nil
}

// Reserve returns a writable slice of at least minLen bytes in the
// current chunk.
func (s *Stream) Reserve(minLen int) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved {
		return Reservation{}, ErrBusy
	}
	if s.curOff != s.pendingStart {
		return Reservation{}, ErrBusy
	}
	if minLen > s.chunkSize {
		return Reservation{}, ErrNoSpace
	}
	free := s.chunkSize - s.curOff
	if free < minLen {
		return Reservation{}, ErrNoSpace
	}
	s.reserved = true
	s.reservedLen = free
	return Reservation{
		ChunkIndex: s.curChunk,
		Offset:     s.curOff,
		Len:        free,
		Bytes:      s.chunks[s.curChunk][s.curOff : s.curOff+free],
	}, nil
}

// CommitReserved finalizes the active reservation at length n, promoting
// [offset, offset+n) to a committed span. n == 0 releases the
// reservation without committing anything.
func (s *Stream) CommitReserved(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reserved {
		return ErrInvalid
	}
	if n > s.reservedLen {
		return ErrNoSpace
	}
	if n == 0 {
		s.reserved = false
		s.reservedLen = 0
		return nil
	}
	span := SpanInfo{ID: uuid.New(), ChunkIndex: s.curChunk, Offset: s.curOff, Len: n}
	if !s.ringPush(span) {
		return ErrNoSpace
	}
	s.curOff += n
	s.pendingStart = s.curOff
	s.bytesWritten += n
	s.reserved = false
	s.reservedLen = 0
	return nil
}

// Commit promotes any pending (unreserved) data to a span. Empty pending
// data is a no-op.
func (s *Stream) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved {
		return ErrBusy
	}
	return s.commitPendingLocked()
}

func (s *Stream) commitPendingLocked() error {
	length := s.curOff - s.pendingStart
	if length == 0 {
		return nil
	}
	span := SpanInfo{ID: uuid.New(), ChunkIndex: s.curChunk, Offset: s.pendingStart, Len: length}
	if !s.ringPush(span) {
		return ErrNoSpace
	}
	s.pendingStart = s.curOff
	s.bytesWritten += length
	return nil
}

// advanceChunkLocked moves the write cursor off a full chunk. It first
// looks for a chunk to reuse (spec §4.8: a chunk with no live spans may be
// reused by the writer), scanning forward from curChunk+1 so a fresh,
// never-written chunk is always found before any reused one; only once no
// chunk is reusable does it fall back to growing (GrowthGrow) or failing
// (GrowthFixed).
func (s *Stream) advanceChunkLocked() error {
	next := s.curChunk + 1
	if next >= len(s.chunks) {
		next = 0
	}
	if idx, ok := s.findReusableChunkLocked(next); ok {
		s.curChunk = idx
		s.curOff = 0
		s.pendingStart = 0
		return nil
	}
	if s.growthPolicy != GrowthGrow {
		return ErrNoSpace
	}
	if s.maxBytes > 0 && (len(s.chunks)+1)*s.chunkSize > s.maxBytes {
		return ErrMaxBytes
	}
	s.chunks = append(s.chunks, make([]byte, s.chunkSize))
	s.stateBuf = append(s.stateBuf, 0)
	s.curChunk = len(s.chunks) - 1
	s.curOff = 0
	s.pendingStart = 0
	return nil
}

// findReusableChunkLocked scans chunks starting at start (wrapping around)
// for one with no live spans: its state-buffer byte is 0 and none of its
// spans are still sitting undrained in the ring. A pristine chunk that has
// never been written satisfies both trivially, so the first pass through a
// stream's chunks always lands on those in the same order Write always
// did; only once every chunk has been touched can a genuinely
// drained-and-consumed chunk come back around.
func (s *Stream) findReusableChunkLocked(start int) (int, bool) {
	for i := 0; i < len(s.chunks); i++ {
		idx := (start + i) % len(s.chunks)
		if idx == s.curChunk {
			continue
		}
		if s.stateBuf[idx] == 0 && !s.chunkHasPendingSpanLocked(idx) {
			return idx, true
		}
	}
	return -1, false
}

// chunkHasPendingSpanLocked reports whether any span still waiting in the
// ring (committed but not yet drained) belongs to chunk idx. Such a chunk
// reads as refcount 0 in stateBuf (DrainSpans hasn't increffed it yet) but
// still holds live, unread data, so it must not be reused.
func (s *Stream) chunkHasPendingSpanLocked(idx int) bool {
	for i := 0; i < s.ringCount; i++ {
		pos := (s.ringHead + i) % s.ringCap
		if s.ring[pos].ChunkIndex == idx {
			return true
		}
	}
	return false
}

// DrainSpans copies up to len(out) committed spans from the ring tail
// into out, increffing each span's chunk's state-buffer byte (saturating
// at 255; a chunk that would saturate while it is the current write
// chunk is force-advanced so the writer never blocks on it). Returns the
// number of spans copied; never errors.
func (s *Stream) DrainSpans(out []SpanInfo) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for n < len(out) {
		span, ok := s.ringPop()
		if !ok {
			break
		}
		s.increfLocked(span.ChunkIndex)
		out[n] = span
		n++
	}
	return n
}

func (s *Stream) increfLocked(chunkIndex int) {
	if chunkIndex < 0 || chunkIndex >= len(s.stateBuf) {
		return
	}
	if s.stateBuf[chunkIndex] >= 255 {
		s.stateBuf[chunkIndex] = 255
		if chunkIndex == s.curChunk {
			_ = s.advanceChunkLocked()
		}
		return
	}
	s.stateBuf[chunkIndex]++
}

// MarkSpanConsumed decrefs span's chunk, saturating at 0. A chunk whose
// state byte reaches 0 has no more live spans referencing it and may be
// reused by the writer.
func (s *Stream) MarkSpanConsumed(span SpanInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if span.ChunkIndex < 0 || span.ChunkIndex >= len(s.stateBuf) {
		return
	}
	if s.stateBuf[span.ChunkIndex] > 0 {
		s.stateBuf[span.ChunkIndex]--
	}
}

// Close flushes any pending data as a span and marks the stream closed.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved {
		return ErrBusy
	}
	if err := s.commitPendingLocked(); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Destroy commits pending data and frees all chunks.
func (s *Stream) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.commitPendingLocked()
	s.chunks = nil
	s.stateBuf = nil
	s.ring = nil
	s.ringCount = 0
}

// GetStats reports the stream's current bookkeeping counters.
func (s *Stream) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Chunks:         len(s.chunks),
		BytesWritten:   s.bytesWritten,
		SpansCommitted: s.spansCommitted,
		PendingSpans:   s.ringCount,
	}
}

func (s *Stream) ringPush(span SpanInfo) bool {
	if s.ringCount == s.ringCap {
		return false
	}
	s.ring[s.ringTail] = span
	s.ringTail = (s.ringTail + 1) % s.ringCap
	s.ringCount++
	s.spansCommitted++
	return true
}

func (s *Stream) ringPop() (SpanInfo, bool) {
	if s.ringCount == 0 {
		return SpanInfo{}, false
	}
	span := s.ring[s.ringHead]
	s.ringHead = (s.ringHead + 1) % s.ringCap
	s.ringCount--
	return span, true
}
