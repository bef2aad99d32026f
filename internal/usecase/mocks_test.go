package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"skillsync/internal/domain/assessment"
	"skillsync/internal/domain/job"
	"skillsync/internal/domain/match"
	"skillsync/internal/domain/program"
	"skillsync/internal/domain/skill"
	"skillsync/internal/repository"

	"github.com/google/uuid"
)

type mockCrosswalkRepo struct {
	entries map[string][]job.CrosswalkEntry
	err     error
}

func (m mockCrosswalkRepo) FindByCIP(_ context.Context, cip string) ([]job.CrosswalkEntry, error) {
	return m.entries[cip], m.err
}

type mockJobRepo struct {
	jobs  []job.Job
	err   error
	calls int
}

func (m *mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	if m.err != nil {
		return job.Job{}, m.err
	}
	for _, j := range m.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return job.Job{}, repository.ErrJobNotFound
}

func (m *mockJobRepo) ListBySOCCodes(_ context.Context, soc []string, after uuid.UUID, limit int) ([]job.Job, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	want := map[string]struct{}{}
	for _, c := range soc {
		want[c] = struct{}{}
	}
	return keysetPage(m.jobs, after, limit, func(j job.Job) bool {
		_, ok := want[j.SOCCode]
		return ok
	}), nil
}

func (m *mockJobRepo) ListWithSkills(_ context.Context, after uuid.UUID, limit int) ([]job.Job, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return keysetPage(m.jobs, after, limit, func(job.Job) bool { return true }), nil
}

func keysetPage(all []job.Job, after uuid.UUID, limit int, keep func(job.Job) bool) []job.Job {
	sorted := append([]job.Job(nil), all...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.String() < sorted[j].ID.String() })
	out := make([]job.Job, 0)
	for _, j := range sorted {
		if j.ID.String() <= after.String() || !keep(j) {
			continue
		}
		out = append(out, j)
		if len(out) == limit {
			break
		}
	}
	return out
}

type mockJobSkillRepo struct {
	rows []repository.JobSkillRow
	err  error
}

func (m mockJobSkillRepo) FindByJobIDs(_ context.Context, ids []uuid.UUID) ([]repository.JobSkillRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]repository.JobSkillRow, 0)
	for _, r := range m.rows {
		if _, ok := want[r.JobID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockProgramRepo struct {
	programs map[uuid.UUID]program.Program
	skills   []repository.ProgramSkillRow
	err      error

	replaced map[uuid.UUID][]skill.ProgramLink
}

func (m *mockProgramRepo) GetByID(_ context.Context, id uuid.UUID) (program.Program, error) {
	if m.err != nil {
		return program.Program{}, m.err
	}
	p, ok := m.programs[id]
	if !ok {
		return program.Program{}, repository.ErrProgramNotFound
	}
	return p, nil
}

func (m *mockProgramRepo) ListWithCIP(context.Context) ([]program.Program, error) {
	out := make([]program.Program, 0)
	for _, p := range m.programs {
		if p.CIPCode != nil {
			out = append(out, p)
		}
	}
	return out, m.err
}

func (m *mockProgramRepo) FindSkills(_ context.Context, id uuid.UUID) ([]repository.ProgramSkillRow, error) {
	out := make([]repository.ProgramSkillRow, 0)
	for _, r := range m.skills {
		if r.ProgramID == id {
			out = append(out, r)
		}
	}
	return out, m.err
}

func (m *mockProgramRepo) FindCoveringSkills(_ context.Context, ids []uuid.UUID) ([]repository.ProgramSkillRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	covering := map[uuid.UUID]struct{}{}
	for _, r := range m.skills {
		if _, ok := want[r.SkillID]; ok {
			covering[r.ProgramID] = struct{}{}
		}
	}
	out := make([]repository.ProgramSkillRow, 0)
	for _, r := range m.skills {
		if _, ok := covering[r.ProgramID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockProgramRepo) ReplaceSkills(_ context.Context, id uuid.UUID, links []skill.ProgramLink) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.replaced == nil {
		m.replaced = map[uuid.UUID][]skill.ProgramLink{}
	}
	m.replaced[id] = links
	return len(links), nil
}

type mockProgramJobRepo struct {
	existing []uuid.UUID
	// conflicts are pairs written by someone else between read and insert
	conflicts map[uuid.UUID]struct{}
	err       error

	inserted []match.ProgramJob
}

func (m *mockProgramJobRepo) ExistingJobIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return m.existing, m.err
}

func (m *mockProgramJobRepo) InsertIfAbsent(_ context.Context, rows []match.ProgramJob) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := 0
	for _, r := range rows {
		if _, ok := m.conflicts[r.JobID]; ok {
			continue
		}
		m.inserted = append(m.inserted, r)
		n++
	}
	return n, nil
}

type mockAssessmentRepo struct {
	mu          sync.Mutex
	assessments map[uuid.UUID]assessment.Assessment
	rows        []repository.AssessmentSkillRow
	err         error
	insertErr   error

	results []assessment.SkillResult
}

func (m *mockAssessmentRepo) GetByID(_ context.Context, id uuid.UUID) (assessment.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return assessment.Assessment{}, m.err
	}
	a, ok := m.assessments[id]
	if !ok {
		return assessment.Assessment{}, repository.ErrAssessmentNotFound
	}
	return a, nil
}

func (m *mockAssessmentRepo) FindResultsWithRequirements(context.Context, uuid.UUID, uuid.UUID) ([]repository.AssessmentSkillRow, error) {
	return m.rows, m.err
}

func (m *mockAssessmentRepo) InsertResults(_ context.Context, results []assessment.SkillResult) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	n := 0
	for _, r := range results {
		dup := false
		for _, have := range m.results {
			if have.AssessmentID == r.AssessmentID && have.SkillID == r.SkillID {
				dup = true
				break
			}
		}
		if !dup {
			m.results = append(m.results, r)
			n++
		}
	}
	return n, m.err
}

func (m *mockAssessmentRepo) MarkAnalyzed(_ context.Context, id uuid.UUID, pct float64, tag string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	a, ok := m.assessments[id]
	if !ok || a.AnalyzedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	a.ReadinessPct = &pct
	a.StatusTag = &tag
	a.AnalyzedAt = &now
	m.assessments[id] = a
	return true, nil
}

type mockSkillRepo struct {
	known map[uuid.UUID]string
	err   error
}

func (m mockSkillRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]skill.Skill, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]skill.Skill, 0)
	for _, id := range ids {
		if name, ok := m.known[id]; ok {
			out = append(out, skill.Skill{ID: id, Name: name})
		}
	}
	return out, nil
}

// memCache is an in-process stand-in for the redis cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

type recordedEvent struct {
	kind  string
	id    uuid.UUID
	pct   float64
	tag   string
	count int
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) AssessmentAnalyzed(id uuid.UUID, pct float64, tag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: "assessment_analyzed", id: id, pct: pct, tag: tag})
}

func (p *recordingPublisher) ProgramSkillsRebuilt(id uuid.UUID, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: "program_skills_rebuilt", id: id, count: n})
}

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

// orderedIDs returns n ids in ascending string order.
func orderedIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
