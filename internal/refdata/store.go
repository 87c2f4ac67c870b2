package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/wonny/jungsi/backend/pkg/logger"
)

// ErrNotReady is returned when a calculation is requested before the
// reference tables have been loaded
var ErrNotReady = errors.New("reference tables not loaded")

// Reference table file names under the configured data directory
const (
	scoreTableFile = "score-table.json"
	conditionFile  = "condition.json"
	advantageFile  = "advantage.json"
	cumulativeFile = "cumulative-percentile.json"
)

// Store loads and serves the four reference tables
// ⭐ SSOT: 참조 테이블 로드/리로드는 이 스토어에서만
// 로드는 프로세스당 한 번, 동시 호출은 하나의 로드를 공유
type Store struct {
	dir    string
	logger *logger.Logger

	mu   sync.Mutex // 로드/리로드 직렬화
	snap atomic.Pointer[Snapshot]
}

// NewStore creates a store reading tables from dir
func NewStore(dir string, log *logger.Logger) *Store {
	return &Store{dir: dir, logger: log}
}

// Load reads all four tables if they are not loaded yet.
// Safe for concurrent use; only the first caller performs I/O.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.Load() != nil {
		return nil
	}
	return s.loadLocked()
}

// Reload rebuilds all tables from disk and swaps them in atomically.
// In-flight readers keep the snapshot they already hold.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Snapshot returns the current table set, or ErrNotReady before Load
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

func (s *Store) loadLocked() error {
	var scores ScoreTable
	if err := s.readJSON(scoreTableFile, &scores); err != nil {
		return err
	}

	var conditions ConditionTable
	if err := s.readJSON(conditionFile, &conditions); err != nil {
		return err
	}
	for name, cond := range conditions {
		cond.FormulaName = name
		conditions[name] = cond
	}

	var rawCumulative map[string]string
	if err := s.readJSON(cumulativeFile, &rawCumulative); err != nil {
		return err
	}
	cumulative, err := NewCumulativeTable(rawCumulative)
	if err != nil {
		return fmt.Errorf("failed to build cumulative table: %w", err)
	}

	rawAdvantage, err := os.ReadFile(filepath.Join(s.dir, advantageFile))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", advantageFile, err)
	}
	advantage, err := NewAdvantageTable(rawAdvantage)
	if err != nil {
		return fmt.Errorf("failed to build advantage table: %w", err)
	}

	s.snap.Store(&Snapshot{
		Scores:     scores,
		Conditions: conditions,
		Cumulative: cumulative,
		Advantage:  advantage,
	})

	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"subjects":   len(scores),
			"conditions": len(conditions),
			"cumulative": cumulative.Len(),
			"advantage":  advantage.Len(),
		}).Info("Reference tables loaded")
	}

	return nil
}

func (s *Store) readJSON(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
