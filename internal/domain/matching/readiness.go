package matching

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultRequiredProficiency = 75.0
	DefaultRoleReadyPct        = 85.0
	DefaultCloseGapsPct        = 70.0

	strengthAreaPct   = 85.0
	criticalGapPct    = 60.0
	bandExceedsMargin = 10.0
	bandDevelopMargin = 15.0
)

type ImportanceLevel string

const (
	ImportanceCritical  ImportanceLevel = "critical"
	ImportanceImportant ImportanceLevel = "important"
	ImportanceHelpful   ImportanceLevel = "helpful"
)

func ParseImportanceLevel(s string) ImportanceLevel {
	switch ImportanceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case ImportanceCritical:
		return ImportanceCritical
	case ImportanceImportant:
		return ImportanceImportant
	default:
		return ImportanceHelpful
	}
}

func (l ImportanceLevel) Multiplier() float64 {
	switch l {
	case ImportanceCritical:
		return 1.5
	case ImportanceImportant:
		return 1.2
	default:
		return 1.0
	}
}

func (l ImportanceLevel) rank() int {
	switch l {
	case ImportanceCritical:
		return 0
	case ImportanceImportant:
		return 1
	default:
		return 2
	}
}

type StatusTag string

const (
	StatusRoleReady        StatusTag = "role_ready"
	StatusCloseGaps        StatusTag = "close_gaps"
	StatusNeedsDevelopment StatusTag = "needs_development"
)

type SkillBand string

const (
	BandExceeds    SkillBand = "exceeds"
	BandMeets      SkillBand = "meets"
	BandDeveloping SkillBand = "developing"
	BandGap        SkillBand = "gap"
)

var ErrInvalidThresholds = errors.New("invalid status thresholds")

// StatusThresholds are the overall-readiness cutoffs for status tags. They
// come from the job's configuration, falling back to service defaults.
type StatusThresholds struct {
	RoleReady float64
	CloseGaps float64
}

func DefaultStatusThresholds() StatusThresholds {
	return StatusThresholds{RoleReady: DefaultRoleReadyPct, CloseGaps: DefaultCloseGapsPct}
}

func (t StatusThresholds) Validate() error {
	if t.RoleReady < 0 || t.RoleReady > 100 || t.CloseGaps < 0 || t.CloseGaps > 100 {
		return fmt.Errorf("%w: cutoffs must be within 0-100", ErrInvalidThresholds)
	}
	if t.RoleReady <= t.CloseGaps {
		return fmt.Errorf("%w: role_ready %.1f not above close_gaps %.1f", ErrInvalidThresholds, t.RoleReady, t.CloseGaps)
	}
	return nil
}

func (t StatusThresholds) Classify(overallPct float64) StatusTag {
	switch {
	case overallPct >= t.RoleReady:
		return StatusRoleReady
	case overallPct >= t.CloseGaps:
		return StatusCloseGaps
	default:
		return StatusNeedsDevelopment
	}
}

type ScoringConfig struct {
	RequiredProficiency float64
	Thresholds          StatusThresholds
}

func (c ScoringConfig) normalized() ScoringConfig {
	if c.RequiredProficiency <= 0 {
		c.RequiredProficiency = DefaultRequiredProficiency
	}
	if c.RequiredProficiency > 100 {
		c.RequiredProficiency = 100
	}
	if c.Thresholds == (StatusThresholds{}) || c.Thresholds.Validate() != nil {
		c.Thresholds = DefaultStatusThresholds()
	}
	return c
}

// ScoreInput is one assessed skill. A nil Weight weighs the skill like any
// other unweighted skill (1.0).
type ScoreInput struct {
	SkillID    uuid.UUID
	SkillName  string
	ScorePct   float64
	Weight     *float64
	Importance ImportanceLevel
}

type SkillScore struct {
	SkillID    uuid.UUID
	SkillName  string
	ScorePct   float64
	Required   float64
	Gap        float64
	IsGap      bool
	Band       SkillBand
	Weight     float64
	Importance ImportanceLevel
}

type ReadinessResult struct {
	OverallPct          float64
	StatusTag           StatusTag
	RequiredProficiency float64
	Skills              []SkillScore
	Gaps                []SkillScore
	StrengthAreas       []string
	CriticalGaps        []string
}

// ScoreAssessment computes per-skill gap flags and the weighted overall
// readiness: sum(score/100 * w * m) / sum(w * m), as a percentage.
func ScoreAssessment(inputs []ScoreInput, cfg ScoringConfig) ReadinessResult {
	cfg = cfg.normalized()
	req := cfg.RequiredProficiency

	res := ReadinessResult{
		RequiredProficiency: req,
		Skills:              make([]SkillScore, 0, len(inputs)),
		Gaps:                make([]SkillScore, 0),
		StrengthAreas:       make([]string, 0),
		CriticalGaps:        make([]string, 0),
	}

	var num, den float64
	for _, in := range inputs {
		score := clampFloat(in.ScorePct, 0, 100)
		w := 1.0
		if in.Weight != nil {
			w = *in.Weight
			if w < 0 {
				w = 0
			}
		}
		imp := ParseImportanceLevel(string(in.Importance))
		m := imp.Multiplier()

		num += (score / 100) * w * m
		den += w * m

		ss := SkillScore{
			SkillID:    in.SkillID,
			SkillName:  in.SkillName,
			ScorePct:   score,
			Required:   req,
			IsGap:      score < req,
			Band:       bandFor(score, req),
			Weight:     w,
			Importance: imp,
		}
		if ss.IsGap {
			ss.Gap = req - score
		}
		res.Skills = append(res.Skills, ss)

		if ss.IsGap {
			res.Gaps = append(res.Gaps, ss)
		}
		if score >= strengthAreaPct {
			res.StrengthAreas = append(res.StrengthAreas, in.SkillName)
		}
		if imp == ImportanceCritical && score < criticalGapPct {
			res.CriticalGaps = append(res.CriticalGaps, in.SkillName)
		}
	}

	if den > 0 {
		res.OverallPct = 100 * num / den
	}
	res.StatusTag = cfg.Thresholds.Classify(res.OverallPct)
	SortGaps(res.Gaps)

	return res
}

// SortGaps orders gaps critical first, then by gap size, then by skill ID.
func SortGaps(gaps []SkillScore) {
	sort.SliceStable(gaps, func(i, j int) bool {
		a, b := gaps[i], gaps[j]
		if a.Importance.rank() != b.Importance.rank() {
			return a.Importance.rank() < b.Importance.rank()
		}
		if a.Gap != b.Gap {
			return a.Gap > b.Gap
		}
		return a.SkillID.String() < b.SkillID.String()
	})
}

func bandFor(score, required float64) SkillBand {
	switch {
	case score >= required+bandExceedsMargin:
		return BandExceeds
	case score >= required:
		return BandMeets
	case score >= required-bandDevelopMargin:
		return BandDeveloping
	default:
		return BandGap
	}
}

// GapSkillSet is the set handed to program matching.
func (r ReadinessResult) GapSkillSet() SkillSet {
	ids := make([]uuid.UUID, 0, len(r.Gaps))
	for _, g := range r.Gaps {
		ids = append(ids, g.SkillID)
	}
	return NewSkillSet(ids...)
}
