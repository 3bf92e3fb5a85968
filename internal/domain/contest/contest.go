// Package contest holds the fixed parameters of a competition instance.
package contest

// Competition constants. Fixed for an Estimathon instance.
const (
	// TotalProblems is the number of problems in the set.
	TotalProblems = 13

	// SubmissionBudget is the maximum number of submissions per team.
	SubmissionBudget = 18
)

// Problem is one estimation problem with its hidden correct answer.
type Problem struct {
	ID          int     `koanf:"id" json:"id"`
	Description string  `koanf:"description" json:"description"`
	Answer      float64 `koanf:"answer" json:"-"`
}

// Catalog is the fixed problem set for a competition instance.
type Catalog struct {
	byID     map[int]Problem
	problems []Problem
}

// NewCatalog builds a catalog from a problem list.
func NewCatalog(problems []Problem) *Catalog {
	c := &Catalog{
		byID:     make(map[int]Problem, len(problems)),
		problems: make([]Problem, len(problems)),
	}
	copy(c.problems, problems)
	for _, p := range problems {
		c.byID[p.ID] = p
	}
	return c
}

// Lookup returns the problem with the given id.
func (c *Catalog) Lookup(id int) (Problem, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Problems returns the catalog entries in declaration order.
func (c *Catalog) Problems() []Problem {
	out := make([]Problem, len(c.problems))
	copy(out, c.problems)
	return out
}

// Len returns the number of problems in the catalog.
func (c *Catalog) Len() int {
	return len(c.problems)
}

// DefaultCatalog returns the built-in problem set. Real competitions load
// their own set from config; this one keeps the service usable out of
// the box.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Problem{
		{ID: 1, Description: "Estimate the population of metropolitan Tokyo.", Answer: 37_400_000},
		{ID: 2, Description: "Estimate the height of Mount Kilimanjaro in meters.", Answer: 5_895},
		{ID: 3, Description: "Estimate the length of the Amazon river in kilometers.", Answer: 6_400},
		{ID: 4, Description: "Estimate the number of keys on a concert grand piano.", Answer: 88},
		{ID: 5, Description: "Estimate the speed of sound at sea level in m/s.", Answer: 343},
		{ID: 6, Description: "Estimate the number of bones in an adult human body.", Answer: 206},
		{ID: 7, Description: "Estimate the surface area of Earth in millions of km^2.", Answer: 510},
		{ID: 8, Description: "Estimate the year the first transatlantic cable was laid.", Answer: 1858},
		{ID: 9, Description: "Estimate the average distance to the Moon in thousands of km.", Answer: 384},
		{ID: 10, Description: "Estimate the number of steps in the Eiffel Tower to the top floor.", Answer: 1665},
		{ID: 11, Description: "Estimate the boiling point of water at the summit of Everest in Celsius.", Answer: 71},
		{ID: 12, Description: "Estimate the number of piano tuners in Chicago.", Answer: 125},
		{ID: 13, Description: "Estimate the mass of a blue whale in kilograms.", Answer: 140_000},
	})
}
