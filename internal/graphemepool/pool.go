// Package graphemepool interns grapheme byte sequences behind
// generation-tagged handles, so a cell payload can carry a compact 32-bit
// ID instead of a variable-length byte slice (spec §4.1, §2.1).
//
// Storage is partitioned into size classes (e.g. 8, 16, 32, 64, 128 bytes),
// each a list of fixed-slot pages. A slot's refcount saturates at 255; a
// decref on an already-zero refcount, or a get/incref/decref against a
// stale generation, returns a typed error rather than corrupting state.
package graphemepool

import (
	"sync"

	"github.com/xonecas/symb/internal/symblog"
)

type slot struct {
	generation uint16
	refcount   uint8
	used       bool // occupied — either live or freed-but-not-yet-reused
	owned      bool // true: payload is our copy; false: caller-owned borrow
	payload    []byte
	dedupKey   string
}

type page struct {
	slots []slot
}

type sizeClass struct {
	maxLen    int // -1 for the overflow class (no upper bound)
	pageSlots int
	pages     []page
	freeList  []int // global slot indices with refcount 0, reusable
}

// Pool interns grapheme byte sequences behind ID handles.
type Pool struct {
	mu        sync.Mutex
	classes   []sizeClass
	liveIndex map[string]ID // dedup index: bytes -> currently-live id
}

// New creates a pool with the given size classes (ascending, e.g.
// {8,16,32,64,128}) and slots per page. An overflow class with no length
// cap is appended automatically for clusters wider than the largest class.
func New(sizeClasses []int, pageSlots int) *Pool {
	if pageSlots <= 0 {
		pageSlots = 256
	}
	classes := make([]sizeClass, 0, len(sizeClasses)+1)
	for _, n := range sizeClasses {
		classes = append(classes, sizeClass{maxLen: n, pageSlots: pageSlots})
	}
	classes = append(classes, sizeClass{maxLen: -1, pageSlots: pageSlots})
	return &Pool{
		classes:   classes,
		liveIndex: make(map[string]ID),
	}
}

func (p *Pool) classFor(length int) int {
	for i, c := range p.classes {
		if c.maxLen >= 0 && length <= c.maxLen {
			return i
		}
	}
	return len(p.classes) - 1 // overflow class
}

// Alloc interns bytes, copying them into pool-owned storage. If a live
// allocation already interns identical bytes, its ID is returned instead of
// creating a new one (spec requires deduping on demand).
func (p *Pool) Alloc(b []byte) (ID, error) {
	return p.alloc(b, true)
}

// AllocUnowned interns a borrowed slice reference without copying. The
// caller must keep the backing array alive for as long as any reference is
// held. Same ID/dedup semantics as Alloc.
func (p *Pool) AllocUnowned(b []byte) (ID, error) {
	return p.alloc(b, false)
}

func (p *Pool) alloc(b []byte, owned bool) (ID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := string(b)
	if id, ok := p.liveIndex[key]; ok {
		return id, nil
	}

	classIdx := p.classFor(len(b))
	id, err := p.occupySlot(classIdx, b, owned, key)
	if err != nil {
		return 0, err
	}
	p.liveIndex[key] = id
	return id, nil
}

// AllocForceNew interns bytes into a brand new slot, bypassing the dedup
// index. Use this only when a holder's refcount on the deduped ID has
// saturated at 255 and a fresh handle is needed to keep accruing
// references (spec §9's saturation policy).
func (p *Pool) AllocForceNew(b []byte, owned bool) (ID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	classIdx := p.classFor(len(b))
	return p.occupySlot(classIdx, b, owned, "")
}

// occupySlot must be called with p.mu held.
func (p *Pool) occupySlot(classIdx int, b []byte, owned bool, dedupKey string) (ID, error) {
	c := &p.classes[classIdx]

	var globalSlot int
	var gen uint16
	if n := len(c.freeList); n > 0 {
		globalSlot = c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
		pg, local := globalSlot/c.pageSlots, globalSlot%c.pageSlots
		old := &c.pages[pg].slots[local]
		gen = old.generation + 1
		if gen == 0 { // skip generation 0: reserved as "no handle" sentinel
			gen = 1
		}
	} else {
		pg := len(c.pages) - 1
		if pg < 0 || len(c.pages[pg].slots) >= c.pageSlots {
			if len(c.pages) > 0 {
				symblog.Debug().Int("class", classIdx).Int("pages", len(c.pages)+1).
					Msg("graphemepool: growing size class")
			}
			c.pages = append(c.pages, page{slots: make([]slot, 0, c.pageSlots)})
			pg = len(c.pages) - 1
		}
		local := len(c.pages[pg].slots)
		c.pages[pg].slots = append(c.pages[pg].slots, slot{})
		globalSlot = pg*c.pageSlots + local
		gen = 1
	}

	if globalSlot > MaxSlot {
		return 0, ErrOutOfMemory
	}

	payload := b
	if owned {
		payload = make([]byte, len(b))
		copy(payload, b)
	}

	pg, local := globalSlot/c.pageSlots, globalSlot%c.pageSlots
	c.pages[pg].slots[local] = slot{
		generation: gen,
		refcount:   0,
		used:       true,
		owned:      owned,
		payload:    payload,
		dedupKey:   dedupKey,
	}

	return newID(classIdx, gen, globalSlot), nil
}

func (p *Pool) lookup(id ID) (*slot, error) {
	classIdx := id.classIdx()
	if classIdx < 0 || classIdx >= len(p.classes) {
		return nil, ErrInvalidID
	}
	c := &p.classes[classIdx]
	globalSlot := id.slot()
	pg, local := globalSlot/c.pageSlots, globalSlot%c.pageSlots
	if pg < 0 || pg >= len(c.pages) || local >= len(c.pages[pg].slots) {
		return nil, ErrInvalidID
	}
	s := &c.pages[pg].slots[local]
	if !s.used {
		return nil, ErrInvalidID
	}
	if s.generation != id.generation() {
		return nil, ErrWrongGeneration
	}
	return s, nil
}

// Get returns the bytes interned under id. The returned slice must not be
// mutated — for owned entries it is pool storage, for unowned entries it is
// the caller's original backing array.
func (p *Pool) Get(id ID) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.payload, nil
}

// Incref increments id's refcount, saturating at 255. Returns
// ErrRefcountSaturated (without changing the count) if already saturated —
// the caller should mint a fresh handle via AllocForceNew instead of
// relying on further precision.
func (p *Pool) Incref(id ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.lookup(id)
	if err != nil {
		return err
	}
	if s.refcount == 255 {
		return ErrRefcountSaturated
	}
	s.refcount++
	return nil
}

// Decref decrements id's refcount. Fails with ErrInvalidID if the refcount
// is already 0. When the count reaches 0 the slot becomes eligible for
// reuse by a future Alloc/AllocForceNew into the same size class — its
// generation does not change until that reuse happens, so Get(id) still
// succeeds in the interim (lazy free, per spec §3.1).
func (p *Pool) Decref(id ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.lookup(id)
	if err != nil {
		return err
	}
	if s.refcount == 0 {
		return ErrInvalidID
	}
	s.refcount--
	if s.refcount == 0 {
		classIdx := id.classIdx()
		c := &p.classes[classIdx]
		globalSlot := id.slot()
		c.freeList = append(c.freeList, globalSlot)
		if s.dedupKey != "" && p.liveIndex[s.dedupKey] == id {
			delete(p.liveIndex, s.dedupKey)
		}
	}
	return nil
}

// Refcount returns id's current refcount, for diagnostics and tests.
func (p *Pool) Refcount(id ID) (uint8, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.lookup(id)
	if err != nil {
		return 0, err
	}
	return s.refcount, nil
}
