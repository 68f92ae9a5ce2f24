package observability

type Metrics interface {
	ObserveSaga(stage string, durMs float64, ok bool)
	ObserveHTTP(method, route string, status int, durMs float64)
	IncPublishFailed()
	IncBillingAcked()
	IncBillingNacked()
	IncBillingDuplicate()
	IncCacheHit()
	IncCacheMiss()
	IncCacheError()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveSaga(string, float64, bool)        {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) IncPublishFailed()                        {}
func (Noop) IncBillingAcked()                         {}
func (Noop) IncBillingNacked()                        {}
func (Noop) IncBillingDuplicate()                     {}
func (Noop) IncCacheHit()                             {}
func (Noop) IncCacheMiss()                            {}
func (Noop) IncCacheError()                           {}
