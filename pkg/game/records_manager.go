package game

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// RunRecord summarizes one finished run.
type RunRecord struct {
	ID          string    `yaml:"id"`
	Seed        int64     `yaml:"seed"`
	WaveReached int       `yaml:"waveReached"`
	Kills       int       `yaml:"kills"`
	BossKills   int       `yaml:"bossKills"`
	DamageTaken int       `yaml:"damageTaken"`
	Duration    float64   `yaml:"duration"` // simulated seconds
	FinishedAt  time.Time `yaml:"finishedAt"`
}

// RunRecords is the persisted record list.
type RunRecords struct {
	Best   *RunRecord  `yaml:"best,omitempty"`
	Recent []RunRecord `yaml:"recent"`
}

const (
	recordsObject   = "records"
	recordsProperty = "runs"

	// maxRecentRuns bounds the recent list.
	maxRecentRuns = 20
)

// RecordsManager keeps the run history in gdata storage.
// With a nil gdata manager it keeps records in memory only.
type RecordsManager struct {
	gdataManager *gdata.Manager
	records      RunRecords
}

// NewRecordsManager creates the manager and loads existing records.
// A load failure is logged and the history starts empty.
func NewRecordsManager(gdataManager *gdata.Manager) *RecordsManager {
	rm := &RecordsManager{gdataManager: gdataManager}
	if err := rm.Load(); err != nil {
		log.Printf("[RecordsManager] Warning: Failed to load records: %v (starting empty)", err)
	}
	return rm
}

// NewRunID returns a unique run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Load reads the records from storage.
func (rm *RecordsManager) Load() error {
	rm.records = RunRecords{}
	if rm.gdataManager == nil {
		return nil
	}
	if !rm.gdataManager.ObjectPropExists(recordsObject, recordsProperty) {
		return nil
	}

	data, err := rm.gdataManager.LoadObjectProp(recordsObject, recordsProperty)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	var loaded RunRecords
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}
	rm.records = loaded
	log.Printf("[RecordsManager] Loaded %d recent runs", len(loaded.Recent))
	return nil
}

// Save writes the records to storage. Without storage it is a no-op.
func (rm *RecordsManager) Save() error {
	if rm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(&rm.records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := rm.gdataManager.SaveObjectProp(recordsObject, recordsProperty, data); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

// Add stores r, assigning an ID and timestamp when missing, and reports
// whether it became the new best run. The list is saved immediately.
func (rm *RecordsManager) Add(r RunRecord) (bool, error) {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}

	rm.records.Recent = append([]RunRecord{r}, rm.records.Recent...)
	if len(rm.records.Recent) > maxRecentRuns {
		rm.records.Recent = rm.records.Recent[:maxRecentRuns]
	}

	isBest := rm.records.Best == nil || better(r, *rm.records.Best)
	if isBest {
		best := r
		rm.records.Best = &best
	}
	return isBest, rm.Save()
}

// Best returns the best run, if any.
func (rm *RecordsManager) Best() (RunRecord, bool) {
	if rm.records.Best == nil {
		return RunRecord{}, false
	}
	return *rm.records.Best, true
}

// Recent returns the recent runs, newest first.
func (rm *RecordsManager) Recent() []RunRecord {
	out := make([]RunRecord, len(rm.records.Recent))
	copy(out, rm.records.Recent)
	return out
}

// Leaderboard returns the recent runs ordered best first.
func (rm *RecordsManager) Leaderboard() []RunRecord {
	out := rm.Recent()
	sort.SliceStable(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}

// better ranks by wave reached, then kills, then shorter duration.
func better(a, b RunRecord) bool {
	if a.WaveReached != b.WaveReached {
		return a.WaveReached > b.WaveReached
	}
	if a.Kills != b.Kills {
		return a.Kills > b.Kills
	}
	return a.Duration < b.Duration
}
