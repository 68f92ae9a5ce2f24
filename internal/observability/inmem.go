package observability

import "sync"

// Inmem keeps the last N observations plus running totals. Enough for tests
// and the debug endpoint; a real deployment would export these instead.
type Inmem struct {
	mu     sync.Mutex
	last   []any
	max    int
	totals struct {
		cacheHits, cacheMiss, cacheErrors  int
		publishFailed                      int
		billingAcked, billingNacked, dupes int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

func (m *Inmem) ObserveSaga(stage string, durMs float64, ok bool) {
	m.push(struct {
		Kind  string
		Stage string
		Dur   float64
		OK    bool
	}{"saga", stage, durMs, ok})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(struct {
		Kind          string
		Method, Route string
		Status        int
		Dur           float64
	}{"http", method, route, status, durMs})
}

func (m *Inmem) IncPublishFailed() {
	m.mu.Lock()
	m.totals.publishFailed++
	m.mu.Unlock()
}

func (m *Inmem) IncBillingAcked() {
	m.mu.Lock()
	m.totals.billingAcked++
	m.mu.Unlock()
}

func (m *Inmem) IncBillingNacked() {
	m.mu.Lock()
	m.totals.billingNacked++
	m.mu.Unlock()
}

func (m *Inmem) IncBillingDuplicate() {
	m.mu.Lock()
	m.totals.dupes++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheError() {
	m.mu.Lock()
	m.totals.cacheErrors++
	m.mu.Unlock()
}

// BillingTotals reports acked/nacked/duplicate counters, in that order.
func (m *Inmem) BillingTotals() (int, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.billingAcked, m.totals.billingNacked, m.totals.dupes
}
