package seed

import (
	"fmt"
	"log"
	"strings"

	"smartchecklist/internal/models"

	"gorm.io/gorm"
)

// Summary reports what a seeding run created.
type Summary struct {
	Users      int
	Checklists int
	Items      int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d checklists, %d items", s.Users, s.Checklists, s.Items)
}

// Seeder populates a database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll deletes every item, checklist and user.
func (s *Seeder) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Item{}, &models.Checklist{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// SeedRandom creates users, each owning checklistsPerUser checklists filled
// with random item trees.
func (s *Seeder) SeedRandom(users, checklistsPerUser int) (Summary, error) {
	var sum Summary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		f := s.factory.withDB(tx)
		for i := 0; i < users; i++ {
			user, err := f.CreateUser()
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			sum.Users++
			for j := 0; j < checklistsPerUser; j++ {
				checklist, err := f.CreateChecklist(user)
				if err != nil {
					return fmt.Errorf("create checklist: %w", err)
				}
				sum.Checklists++
				items, err := f.CreateItemTree(checklist, 1+f.rng.Intn(4))
				sum.Items += len(items)
				if err != nil {
					return fmt.Errorf("create items: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	log.Printf("seeded %s", sum)
	return sum, nil
}

// ApplyFixture writes a fixture in one transaction. Users without a
// password get DefaultPassword.
func (s *Seeder) ApplyFixture(fx *Fixture) (Summary, error) {
	var sum Summary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		f := s.factory.withDB(tx)
		for _, u := range fx.Users {
			password := u.Password
			if password == "" {
				password = DefaultPassword
			}
			hashed, err := f.hashPassword(password)
			if err != nil {
				return err
			}
			user, err := f.CreateUser(func(m *models.User) {
				m.Username = strings.TrimSpace(u.Username)
				m.Password = hashed
			})
			if err != nil {
				return fmt.Errorf("create user %q: %w", u.Username, err)
			}
			sum.Users++

			for _, cl := range u.Checklists {
				title := strings.TrimSpace(cl.Title)
				checklist, err := f.CreateChecklist(user, func(m *models.Checklist) { m.Title = title })
				if err != nil {
					return fmt.Errorf("create checklist %q: %w", title, err)
				}
				sum.Checklists++
				n, err := f.createFixtureItems(checklist, nil, cl.Items)
				sum.Items += n
				if err != nil {
					return fmt.Errorf("create items of %q: %w", title, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	log.Printf("applied fixture: %s", sum)
	return sum, nil
}
