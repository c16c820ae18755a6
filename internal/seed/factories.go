// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devconnect/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control factory behavior.
type Options struct {
	// SkipBcrypt stores a plain password instead of a hash; faster for large
	// seed runs where nobody logs in.
	SkipBcrypt bool
	// DryRun logs what would be created without writing to the database.
	DryRun bool
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

var statuses = []string{
	"Developer",
	"Junior Developer",
	"Senior Developer",
	"Manager",
	"Student or Learning",
	"Instructor or Teacher",
	"Intern",
}

var skillPool = []string{
	"Go", "JavaScript", "TypeScript", "Python", "SQL", "PostgreSQL",
	"Redis", "Docker", "Kubernetes", "React", "Node.js", "GraphQL",
	"HTML", "CSS", "AWS", "Terraform",
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	email := gofakeit.Email()
	user := &models.User{
		Name:   gofakeit.Name(),
		Email:  email,
		Avatar: fmt.Sprintf("https://i.pravatar.cc/200?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Name, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile constructs and persists a profile for the given user,
// including a couple of experience entries.
func (f *Factory) CreateProfile(user *models.User, overrides ...func(*models.Profile)) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:         user.ID,
		Company:        gofakeit.Company(),
		Website:        gofakeit.URL(),
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
		Status:         statuses[rand.Intn(len(statuses))],
		Bio:            gofakeit.Sentence(12),
		GithubUsername: strings.ToLower(gofakeit.Username()),
		Skills:         pickSkills(3 + rand.Intn(4)),
		Social: models.Social{
			Twitter:  fmt.Sprintf("https://twitter.com/%s", strings.ToLower(gofakeit.Username())),
			Linkedin: fmt.Sprintf("https://linkedin.com/in/%s", strings.ToLower(gofakeit.Username())),
		},
		Experience: f.buildExperience(1 + rand.Intn(3)),
	}

	for _, override := range overrides {
		override(profile)
	}

	if f.opts.DryRun {
		f.nextID++
		profile.ID = f.nextID
		log.Printf("[dry-run] CreateProfile: user=%d status=%q skills=%d", profile.UserID, profile.Status, len(profile.Skills))
		return profile, nil
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// buildExperience generates n entries ordered newest first, with contiguous
// date ranges and the most recent one still current.
func (f *Factory) buildExperience(n int) []models.Experience {
	entries := make([]models.Experience, 0, n)
	end := time.Now().AddDate(0, -rand.Intn(6), 0)
	for i := 0; i < n; i++ {
		start := end.AddDate(-1-rand.Intn(3), -rand.Intn(12), 0)
		entry := models.Experience{
			ID:          uuid.NewString(),
			Title:       gofakeit.JobTitle(),
			Company:     gofakeit.Company(),
			Location:    gofakeit.City(),
			From:        start,
			Description: gofakeit.Sentence(10),
		}
		if i == 0 {
			entry.Current = true
		} else {
			to := end
			entry.To = &to
		}
		entries = append(entries, entry)
		end = start
	}
	return entries
}

func pickSkills(n int) []string {
	perm := rand.Perm(len(skillPool))
	if n > len(skillPool) {
		n = len(skillPool)
	}
	skills := make([]string, 0, n)
	for _, idx := range perm[:n] {
		skills = append(skills, skillPool[idx])
	}
	return skills
}
