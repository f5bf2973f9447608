package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls so other packages' behavior can be asserted
// against a Recorder without Prometheus.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcomeLabel]int
	collections    map[string]int
	documents      int
	copied         int
}

var _ Recorder = (*testRecorder)(nil)

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[BuildOutcomeLabel]int{},
		collections:    map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}

func (t *testRecorder) ObserveBuildDuration(_ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildDurations++
}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildOutcomes[outcome]++
}

func (t *testRecorder) SetDocumentCount(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.documents = n
}

func (t *testRecorder) SetCollectionSize(collection string, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.collections[collection] = n
}

func (t *testRecorder) AddCopiedFiles(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.copied += n
}
