package matching

import (
	"sort"

	"github.com/google/uuid"
)

const (
	DefaultMinSimilarity = 0.3
	DefaultMaxMatches    = 10
)

type SkillSet map[uuid.UUID]struct{}

func NewSkillSet(ids ...uuid.UUID) SkillSet {
	s := make(SkillSet, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

func (s SkillSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s SkillSet) IDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Jaccard returns |A∩B| / |A∪B|. Empty sets never match anything, including
// each other, so skill-less entities do not produce spurious matches.
func Jaccard(a, b SkillSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for id := range small {
		if large.Has(id) {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

type Candidate struct {
	ID         uuid.UUID
	Label      string
	Code       string
	Skills     SkillSet
	SkillNames map[uuid.UUID]string
}

type SimilarityOptions struct {
	MinSimilarity float64
	MaxResults    int
}

func (o SimilarityOptions) normalized() SimilarityOptions {
	if o.MinSimilarity <= 0 || o.MinSimilarity > 1 {
		o.MinSimilarity = DefaultMinSimilarity
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxMatches
	}
	return o
}

type SimilarityMatch struct {
	CandidateID    uuid.UUID
	Label          string
	Code           string
	Similarity     float64
	SharedSkills   []string
	SharedCount    int
	SourceCount    int
	CandidateCount int
}

// RankBySimilarity scores every candidate against source and keeps those at
// or above the threshold, best first. Ties are broken by candidate ID so
// repeated runs over unchanged data yield identical lists.
func RankBySimilarity(source SkillSet, candidates []Candidate, opts SimilarityOptions) []SimilarityMatch {
	opts = opts.normalized()
	if len(source) == 0 {
		return []SimilarityMatch{}
	}

	out := make([]SimilarityMatch, 0)
	seen := make(map[uuid.UUID]struct{}, len(candidates))
	for _, c := range candidates {
		if c.ID == uuid.Nil {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}

		sim := Jaccard(source, c.Skills)
		if sim < opts.MinSimilarity {
			continue
		}
		names, shared := sharedSkills(source, c)
		out = append(out, SimilarityMatch{
			CandidateID:    c.ID,
			Label:          c.Label,
			Code:           c.Code,
			Similarity:     sim,
			SharedSkills:   names,
			SharedCount:    shared,
			SourceCount:    len(source),
			CandidateCount: len(c.Skills),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].CandidateID.String() < out[j].CandidateID.String()
	})

	if len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	return out
}

// sharedSkills returns the sorted names of the intersection and its size.
// Unnamed skills count but are not listed.
func sharedSkills(source SkillSet, c Candidate) ([]string, int) {
	names := make([]string, 0)
	count := 0
	for id := range c.Skills {
		if !source.Has(id) {
			continue
		}
		count++
		if n := c.SkillNames[id]; n != "" {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, count
}
