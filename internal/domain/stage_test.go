package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_NextWraps(t *testing.T) {
	assert.Equal(t, StageSprout, StageSeed.Next())
	assert.Equal(t, StageSeed, StageFruit.Next())
}

func TestStage_PrevWraps(t *testing.T) {
	assert.Equal(t, StageFruit, StageSeed.Prev())
	assert.Equal(t, StageBud, StageBloom.Prev())
}

func TestStage_StepStaysInRange(t *testing.T) {
	for s := StageSeed; s < StageCount; s++ {
		for delta := -12; delta <= 12; delta++ {
			got := s.Step(delta)
			assert.True(t, got.Valid(), "%s step %d = %d", s, delta, got)
		}
	}
	assert.Equal(t, StageBloom, StageSeed.Step(-2))
	assert.Equal(t, StageSprout, StageFruit.Step(2))
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "Bloom", StageBloom.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage(" fruit ")
	require.NoError(t, err)
	assert.Equal(t, StageFruit, s)

	_, err = ParseStage("pollen")
	assert.Error(t, err)
}

func TestStages_MetadataOrder(t *testing.T) {
	names := make([]string, 0, StageCount)
	for _, info := range Stages() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"Seed", "Sprout", "Bud", "Bloom", "Fruit"}, names)
}
