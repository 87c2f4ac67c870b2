package jungsi

import (
	"github.com/wonny/jungsi/backend/internal/contracts"
	"github.com/wonny/jungsi/backend/internal/refdata"
)

// Engine is the public calculation surface over one reference store.
// ⭐ SSOT: 정시 계산 체인(표점합/누백/환산/유불리/위험도)은 이 엔진에서만
// 모든 연산은 순수 계산이며 참조 테이블 로드 후에는 I/O가 없다
type Engine struct {
	ref *refdata.Store
}

// NewEngine creates an engine backed by the given reference store
func NewEngine(ref *refdata.Store) *Engine {
	return &Engine{ref: ref}
}

// Composite computes the 표점합 for a subject-score set
func (e *Engine) Composite(scores []contracts.SubjectScore) float64 {
	return Composite(scores)
}

// LookupPercentile maps a composite score to its population percentile
func (e *Engine) LookupPercentile(composite float64) (float64, error) {
	snap, err := e.ref.Snapshot()
	if err != nil {
		return 0, err
	}
	return Percentile(snap.Cumulative, composite), nil
}

// ConvertForInstitution runs the full eligibility + formula chain
func (e *Engine) ConvertForInstitution(scores []contracts.SubjectScore, formulaName string) (Conversion, error) {
	snap, err := e.ref.Snapshot()
	if err != nil {
		return Conversion{}, err
	}
	return Convert(snap, scores, formulaName)
}

// ComputeAdvantage derives the optimal-score gap for a conversion
func (e *Engine) ComputeAdvantage(formulaName string, composite, converted float64) (AdvantageResult, error) {
	snap, err := e.ref.Snapshot()
	if err != nil {
		return AdvantageResult{}, err
	}
	return Advantage(snap, formulaName, composite, converted), nil
}
