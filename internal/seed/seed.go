package seed

import (
	"log"

	"gorm.io/gorm"
)

// Demo populates the database with n developer accounts, each with a profile.
// Existing rows are left alone; the helper is additive and safe to rerun.
func Demo(db *gorm.DB, n int, opts Options) error {
	factory := NewFactory(db, opts)

	for i := 0; i < n; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return err
		}
		if _, err := factory.CreateProfile(user); err != nil {
			return err
		}
	}

	log.Printf("seeded %d demo users with profiles", n)
	return nil
}
