package seed

import (
	"fmt"
	"os"
	"strings"

	"smartchecklist/internal/models"
	"smartchecklist/internal/validation"

	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written data set of users with nested checklists.
//
//	users:
//	  - username: alice
//	    password: password123
//	    checklists:
//	      - title: Groceries
//	        items:
//	          - content: Milk
//	            subitems:
//	              - content: 2%
type Fixture struct {
	Users []FixtureUser `yaml:"users"`
}

type FixtureUser struct {
	Username   string             `yaml:"username"`
	Password   string             `yaml:"password"`
	Checklists []FixtureChecklist `yaml:"checklists"`
}

type FixtureChecklist struct {
	Title string        `yaml:"title"`
	Items []FixtureItem `yaml:"items"`
}

type FixtureItem struct {
	Content  string        `yaml:"content"`
	URL      string        `yaml:"url"`
	Checked  bool          `yaml:"checked"`
	Subitems []FixtureItem `yaml:"subitems"`
}

// LoadFixture reads and validates a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(raw)
}

// ParseFixture decodes a YAML fixture and applies the same validation the
// API applies to user input.
func ParseFixture(raw []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks usernames, titles and item content.
func (fx *Fixture) Validate() error {
	seen := map[string]bool{}
	for i, u := range fx.Users {
		name := strings.TrimSpace(u.Username)
		if err := validation.ValidateUsername(name); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
		if seen[name] {
			return fmt.Errorf("users[%d]: duplicate username %q", i, name)
		}
		seen[name] = true
		for j, cl := range u.Checklists {
			if _, err := validation.NormalizeTitle(cl.Title); err != nil {
				return fmt.Errorf("users[%d].checklists[%d]: %w", i, j, err)
			}
			if err := validateItems(cl.Items, fmt.Sprintf("users[%d].checklists[%d]", i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateItems(items []FixtureItem, path string) error {
	for k, it := range items {
		p := fmt.Sprintf("%s.items[%d]", path, k)
		if _, err := validation.NormalizeContent(it.Content); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if _, err := validation.NormalizeURL(it.URL); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if err := validateItems(it.Subitems, p); err != nil {
			return err
		}
	}
	return nil
}

// ItemCount returns the number of items in the fixture.
func (fx *Fixture) ItemCount() int {
	var count func([]FixtureItem) int
	count = func(items []FixtureItem) int {
		n := len(items)
		for _, it := range items {
			n += count(it.Subitems)
		}
		return n
	}
	total := 0
	for _, u := range fx.Users {
		for _, cl := range u.Checklists {
			total += count(cl.Items)
		}
	}
	return total
}

func (f *Factory) createFixtureItems(checklist *models.Checklist, parent *models.Item, items []FixtureItem) (int, error) {
	created := 0
	for _, fi := range items {
		content, _ := validation.NormalizeContent(fi.Content)
		url, _ := validation.NormalizeURL(fi.URL)
		item, err := f.CreateItem(checklist, parent, func(it *models.Item) {
			it.Content = content
			it.URL = url
			it.Checked = fi.Checked
		})
		if err != nil {
			return created, err
		}
		created++
		n, err := f.createFixtureItems(checklist, item, fi.Subitems)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}
