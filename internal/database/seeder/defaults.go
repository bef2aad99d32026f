package seeder

// Defaults seeds a small demo catalog: skills, occupations with their skill
// links, and programs mapped to them through the crosswalk.
func Defaults() []Seeder {
	return []Seeder{
		CatalogSeeder{},
		ProgramsSeeder{},
	}
}
