package matching

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	compositeFrequencyWeight  = 0.4
	compositeImportanceWeight = 0.4
	compositeWeightWeight     = 0.2

	maxImportance = 5.0
)

// SkillLink is one occupation-skill row as seen by the aggregator. Importance
// is on the O*NET 1..5 scale, Weight on 0..1. Either may be missing.
type SkillLink struct {
	JobID      uuid.UUID
	SkillID    uuid.UUID
	SkillName  string
	Category   string
	Weight     *float64
	Importance *float64
}

type RankedSkill struct {
	SkillID        uuid.UUID
	SkillName      string
	Category       string
	Frequency      int
	Weight         float64
	Importance     float64
	CompositeScore float64
}

type skillAccumulator struct {
	skill         RankedSkill
	weightSum     float64
	importanceSum float64
	observations  int
	jobs          map[uuid.UUID]struct{}
}

// AggregateSkills merges links into one entry per skill and ranks them by
// composite score. Weight and importance are the mean over every observed
// link; frequency counts distinct jobs. totalJobs is the number of jobs the
// links were collected from.
func AggregateSkills(links []SkillLink, totalJobs int) []RankedSkill {
	acc := make(map[uuid.UUID]*skillAccumulator, len(links))
	order := make([]uuid.UUID, 0, len(links))
	allJobs := make(map[uuid.UUID]struct{})

	for _, l := range links {
		if l.SkillID == uuid.Nil {
			continue
		}
		allJobs[l.JobID] = struct{}{}

		a, ok := acc[l.SkillID]
		if !ok {
			a = &skillAccumulator{
				skill: RankedSkill{
					SkillID:   l.SkillID,
					SkillName: l.SkillName,
					Category:  l.Category,
				},
				jobs: make(map[uuid.UUID]struct{}),
			}
			acc[l.SkillID] = a
			order = append(order, l.SkillID)
		}
		if a.skill.SkillName == "" {
			a.skill.SkillName = l.SkillName
		}
		if a.skill.Category == "" {
			a.skill.Category = l.Category
		}

		a.observations++
		// out-of-range values are clamped per link before they enter the mean
		a.weightSum += NormalizeWeight(l.Weight, ScaleUnit)
		a.importanceSum += NormalizeWeight(l.Importance, ScaleOrdinal5) * maxImportance
		a.jobs[l.JobID] = struct{}{}
	}

	if totalJobs <= 0 {
		totalJobs = len(allJobs)
	}

	out := make([]RankedSkill, 0, len(order))
	for _, id := range order {
		a := acc[id]
		s := a.skill
		s.Frequency = len(a.jobs)
		if a.observations > 0 {
			s.Weight = a.weightSum / float64(a.observations)
			s.Importance = a.importanceSum / float64(a.observations)
		}
		s.CompositeScore = CompositeScore(s.Frequency, totalJobs, s.Importance, s.Weight)
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		an, bn := strings.ToLower(a.SkillName), strings.ToLower(b.SkillName)
		if an != bn {
			return an < bn
		}
		return a.SkillID.String() < b.SkillID.String()
	})

	return out
}

// CompositeScore is 0.4*frequency share + 0.4*importance/5 + 0.2*weight.
func CompositeScore(frequency, totalJobs int, importance, weight float64) float64 {
	freq := 0.0
	if totalJobs > 0 {
		freq = clamp01(float64(frequency) / float64(totalJobs))
	}
	imp := NormalizeWeight(&importance, ScaleOrdinal5)
	w := NormalizeWeight(&weight, ScaleUnit)
	return compositeFrequencyWeight*freq + compositeImportanceWeight*imp + compositeWeightWeight*w
}

func TopSkills(ranked []RankedSkill, n int) []RankedSkill {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

var genericSkills = newNameSet(
	"Reading Comprehension", "Active Listening", "Speaking", "Writing",
	"Critical Thinking", "Active Learning", "Monitoring", "Social Perceptiveness",
	"Coordination", "Persuasion", "Negotiation", "Instructing",
	"Complex Problem Solving", "Judgment and Decision Making", "Time Management",
	"Oral Comprehension", "Written Comprehension", "Oral Expression", "Written Expression",
	"Near Vision", "Speech Recognition", "Speech Clarity", "English Language",
	"Customer and Personal Service",
)

func newNameSet(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[strings.ToLower(n)] = struct{}{}
	}
	return out
}

func IsGenericSkill(name string) bool {
	_, ok := genericSkills[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// FilterGenericSkills drops foundational O*NET skills that appear in nearly
// every occupation and carry no signal for program matching.
func FilterGenericSkills(links []SkillLink) []SkillLink {
	out := make([]SkillLink, 0, len(links))
	for _, l := range links {
		if IsGenericSkill(l.SkillName) {
			continue
		}
		out = append(out, l)
	}
	return out
}
