package seeder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStableID(t *testing.T) {
	assert.Equal(t, stableID("job", "netadmin"), stableID("job", "netadmin"))
	assert.NotEqual(t, stableID("job", "netadmin"), stableID("skill", "netadmin"))
}

func TestDemoCatalogIsConsistent(t *testing.T) {
	skills := make(map[string]struct{}, len(demoSkills))
	for _, s := range demoSkills {
		skills[s.Key] = struct{}{}
	}
	for _, j := range demoJobs {
		for _, js := range j.Skills {
			_, ok := skills[js.Skill]
			assert.True(t, ok, "job %s links unknown skill %s", j.Key, js.Skill)
			assert.Contains(t, []string{"critical", "important", "helpful"}, js.Importance)
		}
	}

	socs := make(map[string]struct{})
	for _, j := range demoJobs {
		socs[j.SOCCode] = struct{}{}
		socs[j.SOCCode[:7]] = struct{}{}
	}
	for _, p := range demoPrograms {
		require.NotEmpty(t, p.Crosswalk)
		for _, soc := range p.Crosswalk {
			_, ok := socs[soc]
			assert.True(t, ok, "program %s crosswalks to unseeded %s", p.Key, soc)
		}
	}
}

func TestRunnerRejectsNilDB(t *testing.T) {
	assert.Error(t, Runner{Seeders: Defaults()}.Run(t.Context(), nil))
}
