package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"devconnect/internal/models"
	"devconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileRepoStub struct {
	getByUserIDFn    func(ctx context.Context, userID uint) (*models.Profile, error)
	listFn           func(ctx context.Context, limit, offset int) ([]models.Profile, error)
	createFn         func(ctx context.Context, profile *models.Profile) error
	updateFn         func(ctx context.Context, profile *models.Profile) error
	deleteByUserIDFn func(ctx context.Context, userID uint) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}

func (s *profileRepoStub) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}

func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

func (s *profileRepoStub) DeleteByUserID(ctx context.Context, userID uint) error {
	return s.deleteByUserIDFn(ctx, userID)
}

type userRepoStub struct {
	deleteFn func(ctx context.Context, id uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) { return nil, nil }
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) GetByIDWithToken(ctx context.Context, id uint, tok string) (*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error { return nil }
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}
func (s *userRepoStub) AddToken(ctx context.Context, userID uint, tok string) error    { return nil }
func (s *userRepoStub) RemoveToken(ctx context.Context, userID uint, tok string) error { return nil }
func (s *userRepoStub) ClearTokens(ctx context.Context, userID uint) error             { return nil }

func strPtr(s string) *string { return &s }

// noopProfileRepo panics on anything a test did not wire explicitly, so
// accidental calls show up immediately.
func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(context.Context, uint) (*models.Profile, error) {
			panic("GetByUserID not stubbed")
		},
		listFn: func(context.Context, int, int) ([]models.Profile, error) {
			panic("List not stubbed")
		},
		createFn: func(context.Context, *models.Profile) error {
			panic("Create not stubbed")
		},
		updateFn: func(context.Context, *models.Profile) error {
			panic("Update not stubbed")
		},
		deleteByUserIDFn: func(context.Context, uint) error {
			panic("DeleteByUserID not stubbed")
		},
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestSplitSkills(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain list", "Go,SQL", []string{"Go", "SQL"}},
		{"interior spaces kept", "Go, SQL,React", []string{"Go", " SQL", "React"}},
		{"outer whitespace trimmed", "  Go,SQL  ", []string{"Go", "SQL"}},
		{"single entry", "Go", []string{"Go"}},
		{"trailing comma yields empty entry", "Go,", []string{"Go", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSkills(tt.input))
		})
	}
}

func TestProfileService_Upsert_Create(t *testing.T) {
	t.Parallel()

	t.Run("creates when no profile exists", func(t *testing.T) {
		repo := noopProfileRepo()
		var created *models.Profile
		calls := 0
		repo.getByUserIDFn = func(_ context.Context, userID uint) (*models.Profile, error) {
			calls++
			if created == nil {
				return nil, models.NewNotFoundError("There is no profile for this user")
			}
			return created, nil
		}
		repo.createFn = func(_ context.Context, p *models.Profile) error {
			created = p
			return nil
		}

		svc := NewProfileService(repo, &userRepoStub{})
		profile, err := svc.Upsert(context.Background(), 1, ProfileInput{
			Status: strPtr("Developer"),
			Skills: strPtr("Go, SQL,React"),
			Bio:    strPtr("hi"),
		})
		require.NoError(t, err)
		assert.Equal(t, uint(1), profile.UserID)
		assert.Equal(t, "Developer", profile.Status)
		assert.Equal(t, []string{"Go", " SQL", "React"}, profile.Skills)
		assert.Equal(t, "hi", profile.Bio)
	})

	t.Run("requires status and skills on create", func(t *testing.T) {
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("There is no profile for this user")
		}

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.Upsert(context.Background(), 1, ProfileInput{Bio: strPtr("hi")})
		appErr := assertAppErrorCode(t, err, "VALIDATION_ERROR")
		require.Len(t, appErr.Fields, 2)
		assert.Equal(t, "status", appErr.Fields[0].Field)
		assert.Equal(t, "skills", appErr.Fields[1].Field)
	})
}

func TestProfileService_Upsert_Merge(t *testing.T) {
	t.Parallel()

	existing := func() *models.Profile {
		return &models.Profile{
			ID:      7,
			UserID:  1,
			Status:  "Developer",
			Company: "Acme",
			Bio:     "old bio",
			Skills:  []string{"Go"},
			Social:  models.Social{Twitter: "https://twitter.com/old"},
		}
	}

	t.Run("absent fields are kept, present fields overwrite", func(t *testing.T) {
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return existing(), nil
		}
		var saved *models.Profile
		repo.updateFn = func(_ context.Context, p *models.Profile) error {
			saved = p
			return nil
		}

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.Upsert(context.Background(), 1, ProfileInput{
			Bio:     strPtr("new bio"),
			Company: strPtr(""), // explicit clear
			Youtube: strPtr("https://youtube.com/@jane"),
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "new bio", saved.Bio)
		assert.Empty(t, saved.Company, "present empty string clears the field")
		assert.Equal(t, "Developer", saved.Status, "absent field keeps stored value")
		assert.Equal(t, []string{"Go"}, saved.Skills, "absent skills keep stored value")
		assert.Equal(t, "https://youtube.com/@jane", saved.Social.Youtube)
		assert.Equal(t, "https://twitter.com/old", saved.Social.Twitter)
	})

	t.Run("status and skills are not required on update", func(t *testing.T) {
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return existing(), nil
		}
		repo.updateFn = func(context.Context, *models.Profile) error { return nil }

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.Upsert(context.Background(), 1, ProfileInput{Bio: strPtr("just bio")})
		assert.NoError(t, err)
	})
}

func TestProfileService_Upsert_RetryOnConflict(t *testing.T) {
	t.Parallel()

	t.Run("re-reads and retries until the write lands", func(t *testing.T) {
		repo := noopProfileRepo()
		reads := 0
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			reads++
			return &models.Profile{ID: 7, UserID: 1, Status: "Developer", Version: reads}, nil
		}
		updates := 0
		repo.updateFn = func(context.Context, *models.Profile) error {
			updates++
			if updates == 1 {
				return repository.ErrVersionConflict
			}
			return nil
		}

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.Upsert(context.Background(), 1, ProfileInput{Bio: strPtr("x")})
		require.NoError(t, err)
		assert.Equal(t, 2, reads, "each attempt must re-read the row")
		assert.Equal(t, 2, updates)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return &models.Profile{ID: 7, UserID: 1, Status: "Developer"}, nil
		}
		updates := 0
		repo.updateFn = func(context.Context, *models.Profile) error {
			updates++
			return repository.ErrVersionConflict
		}

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.Upsert(context.Background(), 1, ProfileInput{Bio: strPtr("x")})
		assertAppErrorCode(t, err, "INTERNAL_ERROR")
		assert.Equal(t, upsertAttempts, updates)
	})
}

func TestProfileService_AddExperience(t *testing.T) {
	t.Parallel()

	from := models.NewFlexibleDate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	t.Run("prepends with a fresh id", func(t *testing.T) {
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return &models.Profile{
				ID: 7, UserID: 1, Status: "Developer",
				Experience: []models.Experience{{ID: "older", Title: "Junior"}},
			}, nil
		}
		var saved *models.Profile
		repo.updateFn = func(_ context.Context, p *models.Profile) error {
			saved = p
			return nil
		}

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.AddExperience(context.Background(), 1, ExperienceInput{
			Title:   "Engineer",
			Company: "Acme",
			From:    from,
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		require.Len(t, saved.Experience, 2)
		assert.Equal(t, "Engineer", saved.Experience[0].Title, "new entry goes first")
		assert.Equal(t, "older", saved.Experience[1].ID)
		assert.NotEmpty(t, saved.Experience[0].ID)
		assert.NotEqual(t, "older", saved.Experience[0].ID)
	})

	t.Run("retried write gets a different id", func(t *testing.T) {
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return &models.Profile{ID: 7, UserID: 1, Status: "Developer"}, nil
		}
		var ids []string
		updates := 0
		repo.updateFn = func(_ context.Context, p *models.Profile) error {
			ids = append(ids, p.Experience[0].ID)
			updates++
			if updates == 1 {
				return repository.ErrVersionConflict
			}
			return nil
		}

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.AddExperience(context.Background(), 1, ExperienceInput{
			Title:   "Engineer",
			Company: "Acme",
			From:    from,
		})
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.NotEqual(t, ids[0], ids[1])
	})

	t.Run("validates required fields", func(t *testing.T) {
		svc := NewProfileService(noopProfileRepo(), &userRepoStub{})
		_, err := svc.AddExperience(context.Background(), 1, ExperienceInput{})
		appErr := assertAppErrorCode(t, err, "VALIDATION_ERROR")
		require.Len(t, appErr.Fields, 3)
		assert.Equal(t, "title", appErr.Fields[0].Field)
		assert.Equal(t, "company", appErr.Fields[1].Field)
		assert.Equal(t, "from", appErr.Fields[2].Field)
	})
}

func TestProfileService_RemoveExperience(t *testing.T) {
	t.Parallel()

	profileWith := func(ids ...string) *models.Profile {
		p := &models.Profile{ID: 7, UserID: 1, Status: "Developer"}
		for _, id := range ids {
			p.Experience = append(p.Experience, models.Experience{ID: id})
		}
		return p
	}

	t.Run("removes the matching entry", func(t *testing.T) {
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return profileWith("a", "b", "c"), nil
		}
		var saved *models.Profile
		repo.updateFn = func(_ context.Context, p *models.Profile) error {
			saved = p
			return nil
		}

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.RemoveExperience(context.Background(), 1, "b")
		require.NoError(t, err)
		require.Len(t, saved.Experience, 2)
		assert.Equal(t, "a", saved.Experience[0].ID)
		assert.Equal(t, "c", saved.Experience[1].ID)
	})

	t.Run("unknown id fails without writing", func(t *testing.T) {
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return profileWith("a"), nil
		}

		svc := NewProfileService(repo, &userRepoStub{})
		_, err := svc.RemoveExperience(context.Background(), 1, "ghost")
		appErr := assertAppErrorCode(t, err, "NOT_FOUND")
		assert.Equal(t, "Experience not found", appErr.Message)
	})
}

func TestProfileService_DeleteAccount(t *testing.T) {
	t.Parallel()

	var order []string
	repo := noopProfileRepo()
	repo.deleteByUserIDFn = func(_ context.Context, userID uint) error {
		order = append(order, "profile")
		assert.Equal(t, uint(1), userID)
		return nil
	}
	users := &userRepoStub{deleteFn: func(_ context.Context, id uint) error {
		order = append(order, "user")
		assert.Equal(t, uint(1), id)
		return nil
	}}

	svc := NewProfileService(repo, users)
	require.NoError(t, svc.DeleteAccount(context.Background(), 1))
	assert.Equal(t, []string{"profile", "user"}, order)
}

func TestProfileService_Upsert_UnexpectedReadError(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	repo.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
		return nil, models.NewInternalError(errors.New("db down"))
	}

	svc := NewProfileService(repo, &userRepoStub{})
	_, err := svc.Upsert(context.Background(), 1, ProfileInput{Bio: strPtr("x")})
	assertAppErrorCode(t, err, "INTERNAL_ERROR")
}
