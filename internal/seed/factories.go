// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"smartchecklist/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

// Options tune generated data.
type Options struct {
	// SkipBcrypt stores the plain default password; only for throwaway databases.
	SkipBcrypt bool
	// DryRun assigns synthetic ids and writes nothing.
	DryRun bool
	// MaxDepth bounds the nesting of generated item trees.
	MaxDepth int
	// MaxChildren bounds how many subitems a generated item gets.
	MaxChildren int
	// Seed makes generated content reproducible when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 3
	}
	if opts.MaxChildren <= 0 {
		opts.MaxChildren = 4
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed)), nextID: 1000}
}

func (f *Factory) create(v any, assignID func(uint)) error {
	if f.opts.DryRun {
		f.nextID++
		assignID(f.nextID)
		return nil
	}
	return f.db.Create(v).Error
}

func (f *Factory) hashPassword(password string) (string, error) {
	if f.opts.SkipBcrypt {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving;
// a user left without a password gets DefaultPassword.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
	}
	for _, override := range overrides {
		override(user)
	}
	if user.Password == "" {
		hashed, err := f.hashPassword(DefaultPassword)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := f.create(user, func(id uint) { user.ID = id }); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateChecklist constructs and persists a checklist owned by user.
func (f *Factory) CreateChecklist(user *models.User, overrides ...func(*models.Checklist)) (*models.Checklist, error) {
	checklist := &models.Checklist{
		UserID: user.ID,
		Title:  gofakeit.HipsterSentence(3),
	}
	for _, override := range overrides {
		override(checklist)
	}

	if err := f.create(checklist, func(id uint) { checklist.ID = id }); err != nil {
		return nil, err
	}
	return checklist, nil
}

// CreateItem constructs and persists an item in checklist. A nil parent
// makes a root item.
func (f *Factory) CreateItem(checklist *models.Checklist, parent *models.Item, overrides ...func(*models.Item)) (*models.Item, error) {
	item := &models.Item{
		ChecklistID: checklist.ID,
		Content:     gofakeit.HackerPhrase(),
		Checked:     f.rng.Intn(4) == 0,
	}
	if parent != nil {
		item.ParentItemID = &parent.ID
	}
	if f.rng.Intn(5) == 0 {
		url := gofakeit.URL()
		item.URL = &url
	}
	for _, override := range overrides {
		override(item)
	}

	if err := f.create(item, func(id uint) { item.ID = id }); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItemTree adds roots random root items to checklist, each with a
// random subtree no deeper than MaxDepth. It returns every created item.
func (f *Factory) CreateItemTree(checklist *models.Checklist, roots int) ([]*models.Item, error) {
	var out []*models.Item
	var grow func(parent *models.Item, depth int) error
	grow = func(parent *models.Item, depth int) error {
		item, err := f.CreateItem(checklist, parent)
		if err != nil {
			return err
		}
		out = append(out, item)
		if depth >= f.opts.MaxDepth {
			return nil
		}
		for i := f.rng.Intn(f.opts.MaxChildren + 1); i > 0; i-- {
			if err := grow(item, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < roots; i++ {
		if err := grow(nil, 1); err != nil {
			return out, err
		}
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateItemTree: checklist=%d items=%d (no DB write)", checklist.ID, len(out))
	}
	return out, nil
}

// withDB returns a copy of f writing through db, typically a transaction.
func (f *Factory) withDB(db *gorm.DB) *Factory {
	clone := *f
	clone.db = db
	return &clone
}
