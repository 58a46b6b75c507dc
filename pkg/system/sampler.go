package system

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Probe is a slow reading refreshed off the UI goroutine. Sensor methods
// read whatever the last successful Sample stored.
type Probe interface {
	Name() string
	Interval() time.Duration
	Sample(ctx context.Context) error
}

// ProbeStatus tracks the runtime state of one probe.
type ProbeStatus struct {
	Name        string
	Healthy     bool
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	LastLatency time.Duration
}

// Sampler runs each registered probe on its own ticker until stopped.
type Sampler struct {
	logger *slog.Logger

	mu       sync.RWMutex
	probes   map[string]Probe
	statuses map[string]*ProbeStatus

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSampler returns an empty sampler.
func NewSampler(logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		logger:   logger,
		probes:   make(map[string]Probe),
		statuses: make(map[string]*ProbeStatus),
	}
}

// Register adds a probe. Names must be unique.
func (s *Sampler) Register(p Probe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := p.Name()
	if _, exists := s.probes[name]; exists {
		return fmt.Errorf("probe %q already registered", name)
	}
	s.probes[name] = p
	s.statuses[name] = &ProbeStatus{Name: name, Healthy: true}
	return nil
}

// Start samples every probe once and then on its interval until ctx is
// cancelled or Stop is called.
func (s *Sampler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.probes {
		s.wg.Add(1)
		go s.loop(ctx, p)
	}
}

// Stop cancels all probes and waits for their goroutines.
func (s *Sampler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Sampler) loop(ctx context.Context, p Probe) {
	defer s.wg.Done()

	s.RunOnce(ctx, p.Name())
	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx, p.Name())
		}
	}
}

// RunOnce samples the named probe synchronously.
func (s *Sampler) RunOnce(ctx context.Context, name string) error {
	s.mu.RLock()
	p, ok := s.probes[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("probe %q not registered", name)
	}

	start := time.Now()
	err := p.Sample(ctx)
	latency := time.Since(start)

	s.mu.Lock()
	st := s.statuses[name]
	st.LastRun = start
	st.LastLatency = latency
	st.RunCount++
	st.LastError = err
	st.Healthy = err == nil
	if err != nil {
		st.ErrorCount++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("probe failed", "probe", name, "error", err)
	}
	return err
}

// Status returns a copy of the named probe's status.
func (s *Sampler) Status(name string) (ProbeStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statuses[name]
	if !ok {
		return ProbeStatus{}, false
	}
	return *st, true
}

// AllStatus returns every probe's status, sorted by name.
func (s *Sampler) AllStatus() []ProbeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]ProbeStatus, 0, len(s.statuses))
	for _, st := range s.statuses {
		result = append(result, *st)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
