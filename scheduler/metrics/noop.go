package metrics

// NoopProvider discards every measurement. It is the default provider
// used when the scheduler is constructed without scheduler.WithMetrics.
type NoopProvider struct{}

// NewNoopProvider constructs a Provider that discards all metrics.
func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Counter(_ string, _ string) Counter             { return noopInstrument{} }
func (NoopProvider) UpDownCounter(_ string, _ string) UpDownCounter { return noopInstrument{} }
func (NoopProvider) Histogram(_ string, _ string) Histogram         { return noopInstrument{} }

type noopInstrument struct{}

func (noopInstrument) Add(_ int64)     {}
func (noopInstrument) Record(_ float64) {}
