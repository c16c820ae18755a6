// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"strings"

	"devconnect/internal/cache"
	"devconnect/internal/middleware"
	"devconnect/internal/models"
	"devconnect/internal/repository"

	"github.com/google/uuid"
)

// upsertAttempts bounds the optimistic retry loop on profile writes. Each
// attempt re-reads the row, so contention resolves in one or two passes.
const upsertAttempts = 3

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, userRepo: userRepo}
}

// ProfileInput carries the mergeable profile fields. A nil pointer means the
// caller did not send the field and the stored value is kept; a non-nil
// pointer, including one to an empty string, overwrites it.
type ProfileInput struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Status         *string `json:"status"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Linkedin       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

// apply merges the input into the profile, field by field.
func (in *ProfileInput) apply(p *models.Profile) {
	bindings := []struct {
		src *string
		dst *string
	}{
		{in.Company, &p.Company},
		{in.Website, &p.Website},
		{in.Location, &p.Location},
		{in.Status, &p.Status},
		{in.Bio, &p.Bio},
		{in.GithubUsername, &p.GithubUsername},
		{in.Youtube, &p.Social.Youtube},
		{in.Twitter, &p.Social.Twitter},
		{in.Facebook, &p.Social.Facebook},
		{in.Linkedin, &p.Social.Linkedin},
		{in.Instagram, &p.Social.Instagram},
	}
	for _, b := range bindings {
		if b.src != nil {
			*b.dst = *b.src
		}
	}
	if in.Skills != nil {
		p.Skills = splitSkills(*in.Skills)
	}
}

// splitSkills turns a comma-separated list into a slice. Only the whole
// string is trimmed; spaces around individual entries are kept as sent.
func splitSkills(s string) []string {
	return strings.Split(strings.TrimSpace(s), ",")
}

func validateNewProfile(in ProfileInput) error {
	var fields []models.FieldError
	if in.Status == nil || strings.TrimSpace(*in.Status) == "" {
		fields = append(fields, models.FieldError{Field: "status", Message: "Status is required"})
	}
	if in.Skills == nil || strings.TrimSpace(*in.Skills) == "" {
		fields = append(fields, models.FieldError{Field: "skills", Message: "Skills is required"})
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError(fields...)
	}
	return nil
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == "NOT_FOUND"
}

// Upsert creates the caller's profile or merges the input into the existing
// one. Concurrent writers are handled by re-reading and retrying on a
// version conflict, so no update is silently lost.
func (s *ProfileService) Upsert(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	var lastErr error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		if attempt > 0 {
			middleware.ProfileUpsertRetries.Inc()
		}

		profile, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			if !isNotFound(err) {
				return nil, err
			}
			if err := validateNewProfile(in); err != nil {
				return nil, err
			}
			fresh := &models.Profile{UserID: userID}
			in.apply(fresh)
			if err := s.profileRepo.Create(ctx, fresh); err != nil {
				if errors.Is(err, repository.ErrVersionConflict) {
					lastErr = err
					continue
				}
				return nil, err
			}
			return s.profileRepo.GetByUserID(ctx, userID)
		}

		in.apply(profile)
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return profile, nil
	}
	return nil, models.NewInternalError(lastErr)
}

// GetByUser returns the profile for the given user. Reads go through the
// cache; every write path invalidates the key, so a hit is at most one write
// behind under concurrency.
func (s *ProfileService) GetByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		p, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		profile = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns profiles with their owning users, newest first.
func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.profileRepo.List(ctx, limit, offset)
}

// ExperienceInput carries a new work-experience entry.
type ExperienceInput struct {
	Title       string              `json:"title"`
	Company     string              `json:"company"`
	Location    string              `json:"location"`
	From        *models.FlexibleDate `json:"from"`
	To          *models.FlexibleDate `json:"to"`
	Current     bool                `json:"current"`
	Description string              `json:"description"`
}

func validateExperience(in ExperienceInput) error {
	var fields []models.FieldError
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, models.FieldError{Field: "title", Message: "Title is required"})
	}
	if strings.TrimSpace(in.Company) == "" {
		fields = append(fields, models.FieldError{Field: "company", Message: "Company is required"})
	}
	if in.From == nil || in.From.Time().IsZero() {
		fields = append(fields, models.FieldError{Field: "from", Message: "From date is required"})
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError(fields...)
	}
	return nil
}

// AddExperience prepends a new entry to the profile's experience list. Every
// write attempt builds the entry from scratch, so a retried write gets a
// fresh ID rather than reusing one from a failed attempt.
func (s *ProfileService) AddExperience(ctx context.Context, userID uint, in ExperienceInput) (*models.Profile, error) {
	if err := validateExperience(in); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		if attempt > 0 {
			middleware.ProfileUpsertRetries.Inc()
		}

		profile, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}

		entry := models.Experience{
			ID:          uuid.NewString(),
			Title:       in.Title,
			Company:     in.Company,
			Location:    in.Location,
			From:        in.From.Time(),
			Current:     in.Current,
			Description: in.Description,
		}
		if in.To != nil {
			to := in.To.Time()
			entry.To = &to
		}

		profile.Experience = append([]models.Experience{entry}, profile.Experience...)
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return profile, nil
	}
	return nil, models.NewInternalError(lastErr)
}

// RemoveExperience deletes the entry with the given ID from the profile.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID uint, experienceID string) (*models.Profile, error) {
	var lastErr error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		if attempt > 0 {
			middleware.ProfileUpsertRetries.Inc()
		}

		profile, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}

		kept := make([]models.Experience, 0, len(profile.Experience))
		for _, exp := range profile.Experience {
			if exp.ID != experienceID {
				kept = append(kept, exp)
			}
		}
		if len(kept) == len(profile.Experience) {
			return nil, models.NewNotFoundError("Experience not found")
		}

		profile.Experience = kept
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return profile, nil
	}
	return nil, models.NewInternalError(lastErr)
}

// DeleteAccount removes the user's profile, then the user itself together
// with its active tokens.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
