package data

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// GeneratedUser is a randomly generated user record suitable for the sample
// application's user store.
type GeneratedUser struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Generator produces fake test data. A fixed seed makes a generator's output
// reproducible across runs.
type Generator struct {
	faker *gofakeit.Faker
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(int64(seed))}
}

// User generates a user with a unique ID.
func (g *Generator) User() GeneratedUser {
	name := g.faker.Name()
	return GeneratedUser{
		ID:    uuid.NewString(),
		Name:  name,
		Email: g.emailFor(name),
		Role:  g.faker.RandomString([]string{"admin", "editor", "viewer"}),
	}
}

// Email generates a plausible email address.
func (g *Generator) Email() string {
	return g.emailFor(g.faker.Name())
}

// Name generates a person's full name.
func (g *Generator) Name() string {
	return g.faker.Name()
}

// Sentence generates short filler text with the given word count.
func (g *Generator) Sentence(words int) string {
	return g.faker.Sentence(words)
}

func (g *Generator) emailFor(name string) string {
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return local + "@" + g.faker.DomainName()
}
