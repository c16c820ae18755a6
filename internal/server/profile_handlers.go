package server

import (
	"devconnect/internal/models"
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListProfiles handles GET /api/profiles
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	profiles, err := s.profileService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profiles/user/:userId
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil || userID <= 0 {
		// An unparsable ID can never have a profile, so the response is the
		// same domain message a missing profile gets.
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewNotFoundError("There is no profile for this user"))
	}

	profile, perr := s.profileService.GetByUser(c.Context(), uint(userID))
	if perr != nil {
		return s.respondServiceError(c, perr)
	}
	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetByUser(c.Context(), currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profiles
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var in service.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Upsert(c.Context(), currentUserID(c), in)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profiles and removes the profile together
// with the user account.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteAccount(c.Context(), currentUserID(c)); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// AddExperience handles PUT /api/profiles/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var in service.ExperienceInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.AddExperience(c.Context(), currentUserID(c), in)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profiles/experience/:expId
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	expID := c.Params("expId")

	profile, err := s.profileService.RemoveExperience(c.Context(), currentUserID(c), expID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetGithubRepos handles GET /api/profiles/github/:username
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewNotFoundError("No Github profile found"))
	}

	repos, err := s.githubService.ListRepos(c.Context(), username)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(repos)
}
