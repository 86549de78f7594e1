package domain

import (
	"fmt"
	"strings"
)

// Stage is one phase of the bloom growth cycle.
type Stage int

const (
	StageSeed Stage = iota
	StageSprout
	StageBud
	StageBloom
	StageFruit
)

// StageCount is the number of stages in one cycle.
const StageCount = 5

// StageInfo is the display metadata for a stage.
type StageInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	// Size is the relative diameter of the plant illustration in this stage.
	Size float64 `json:"size"`
}

var stageInfo = [StageCount]StageInfo{
	{Name: "Seed", Description: "Dormant seed waiting for optimal conditions", Color: "#a47551", Size: 4},
	{Name: "Sprout", Description: "First green shoots emerge from soil", Color: "#86efac", Size: 6},
	{Name: "Bud", Description: "Flower buds begin to form", Color: "#22c55e", Size: 8},
	{Name: "Bloom", Description: "Full bloom with vibrant colors", Color: "#f472b6", Size: 12},
	{Name: "Fruit", Description: "Fruit formation and seed development", Color: "#fb923c", Size: 10},
}

// Stages returns the display metadata for every stage in cycle order.
func Stages() []StageInfo {
	out := make([]StageInfo, StageCount)
	copy(out, stageInfo[:])
	return out
}

// Valid reports whether s is within [StageSeed, StageFruit].
func (s Stage) Valid() bool { return s >= 0 && s < StageCount }

// Info returns the stage's display metadata.
func (s Stage) Info() StageInfo { return stageInfo[s.normalize()] }

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageInfo[s].Name
}

// Next returns the following stage, wrapping from Fruit to Seed.
func (s Stage) Next() Stage { return (s.normalize() + 1) % StageCount }

// Prev returns the preceding stage, wrapping from Seed to Fruit.
func (s Stage) Prev() Stage { return (s.normalize() + StageCount - 1) % StageCount }

// Step moves by delta stages with wrap-around.
func (s Stage) Step(delta int) Stage {
	return Stage(((int(s.normalize())+delta)%StageCount + StageCount) % StageCount)
}

func (s Stage) normalize() Stage {
	return Stage((int(s)%StageCount + StageCount) % StageCount)
}

// ParseStage resolves a stage by case-insensitive name.
func ParseStage(name string) (Stage, error) {
	for i, info := range stageInfo {
		if strings.EqualFold(info.Name, strings.TrimSpace(name)) {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", name)
}
