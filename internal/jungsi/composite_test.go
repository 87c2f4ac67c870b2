package jungsi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/jungsi/backend/internal/contracts"
)

func TestComposite(t *testing.T) {
	scores := []contracts.SubjectScore{
		{Category: contracts.CategoryKorean, StandardScore: 131},
		{Category: contracts.CategoryMath, StandardScore: 135},
		{Category: contracts.CategoryScience, StandardScore: 68},
		{Category: contracts.CategoryScience, StandardScore: 65},
		{Category: contracts.CategorySociety, StandardScore: 62},
	}

	// 탐구는 상위 2개(68, 65)만 반영
	assert.Equal(t, float64(131+135+68+65), Composite(scores))
}

func TestCompositeMissingSubjects(t *testing.T) {
	// 없는 과목은 0으로 기여하고 실패하지 않음
	assert.Equal(t, 0.0, Composite(nil))

	scores := []contracts.SubjectScore{
		{Category: contracts.CategoryKorean, StandardScore: 120},
		{Category: contracts.CategoryScience, StandardScore: 60},
	}
	assert.Equal(t, 180.0, Composite(scores))
}

func TestCompositeNegativeCoercedToZero(t *testing.T) {
	scores := []contracts.SubjectScore{
		{Category: contracts.CategoryKorean, StandardScore: -3},
		{Category: contracts.CategoryMath, StandardScore: 100},
	}
	assert.Equal(t, 100.0, Composite(scores))
}

func TestCompositeIgnoresNonCountingCategories(t *testing.T) {
	scores := []contracts.SubjectScore{
		{Category: contracts.CategoryKorean, StandardScore: 120},
		{Category: contracts.CategoryMath, StandardScore: 125},
		{Category: contracts.CategoryEnglish, StandardScore: 90},
		{Category: contracts.CategoryHistory, StandardScore: 50},
		{Category: contracts.CategoryForeignLanguage, StandardScore: 70},
	}
	assert.Equal(t, 245.0, Composite(scores))
}

func TestCompositeElectivePermutationInvariance(t *testing.T) {
	base := []contracts.SubjectScore{
		{Category: contracts.CategoryKorean, StandardScore: 128},
		{Category: contracts.CategoryMath, StandardScore: 132},
		{Category: contracts.CategoryScience, StandardScore: 67},
		{Category: contracts.CategorySociety, StandardScore: 64},
		{Category: contracts.CategoryScience, StandardScore: 61},
		{Category: contracts.CategorySociety, StandardScore: 58},
	}
	want := Composite(base)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]contracts.SubjectScore(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Composite(shuffled))
	}
}
