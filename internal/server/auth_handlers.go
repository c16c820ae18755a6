package server

import (
	"strings"

	"devconnect/internal/models"
	"devconnect/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var fields []models.FieldError
	if err := validation.ValidateName(req.Name); err != nil {
		fields = append(fields, models.FieldError{Field: "name", Message: err.Error()})
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		fields = append(fields, models.FieldError{Field: "email", Message: err.Error()})
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		fields = append(fields, models.FieldError{Field: "password", Message: err.Error()})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fields...))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if user already exists
	existing, err := s.userRepo.GetByEmail(c.Context(), email)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("User already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return s.respondServiceError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashedPassword),
		Avatar:   gravatarURL(email),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return s.respondServiceError(c, err)
	}

	tok, err := s.issueSession(c, user.ID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": tok,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(c.Context(), email)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	tok, err := s.issueSession(c, user.ID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": tok,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout. Only the presented token is revoked;
// sessions on other devices stay signed in.
func (s *Server) Logout(c *fiber.Ctx) error {
	userID := currentUserID(c)

	tok := presentedToken(c)
	if tok == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Please authenticate"))
	}

	if err := s.userRepo.RemoveToken(c.Context(), userID, tok); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// LogoutAll handles POST /api/auth/logout-all and revokes every active
// session for the user.
func (s *Server) LogoutAll(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if err := s.userRepo.ClearTokens(c.Context(), userID); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Logged out everywhere"})
}

// GetMe handles GET /api/auth/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(user)
}

// issueSession signs a token for the user and records it in the active-token
// list so it can be revoked later.
func (s *Server) issueSession(c *fiber.Ctx, userID uint) (string, error) {
	tok, err := s.codec.Issue(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if err := s.userRepo.AddToken(c.Context(), userID, tok); err != nil {
		return "", err
	}
	return tok, nil
}

// presentedToken re-reads the bearer token from the request. RequireAuth only
// attaches the resolved identity, so revocation handlers extract the raw
// credential themselves.
func presentedToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get(fiber.HeaderAuthorization), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
