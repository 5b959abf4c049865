package server

import (
	"spincat/internal/featureflags"
	"spincat/internal/models"
	"spincat/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest holds admin credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ReviewRequest is a moderation decision.
type ReviewRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// AdminSubmitMemeRequest is a submission made by an admin. Status defaults to approved.
type AdminSubmitMemeRequest struct {
	URL         string   `json:"url"`
	Platform    string   `json:"platform"`
	VideoID     string   `json:"videoId"`
	Status      string   `json:"status,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// AdminLogin handles POST /api/admin/login
// @Summary Admin login
// @Description Authenticate an admin and open a session. The token is valid until expiresAt.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /admin/login [post]
func (s *Server) AdminLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := decodeBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(res)
}

// GetAdminMe handles GET /api/admin/me
// @Summary Current admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Admin
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/me [get]
func (s *Server) GetAdminMe(c *fiber.Ctx) error {
	admin, err := s.authService.Admin(c.UserContext(), adminIDFrom(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(admin)
}

// GetPendingMemes handles GET /api/admin/memes/pending
// @Summary Moderation queue
// @Description Pending memes, oldest first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "1-based page" default(1)
// @Param limit query int false "Page size, at most 100" default(12)
// @Success 200 {array} models.Meme
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/memes/pending [get]
func (s *Server) GetPendingMemes(c *fiber.Ctx) error {
	page := parsePage(c)
	memes, err := s.memeService.ListPending(c.UserContext(), page.Page, page.Limit)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(memes)
}

// GetMemesByStatus handles GET /api/admin/memes?status=
// @Summary List memes by status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string true "pending, approved or rejected"
// @Param page query int false "1-based page" default(1)
// @Param limit query int false "Page size, at most 100" default(12)
// @Success 200 {array} models.Meme
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/memes [get]
func (s *Server) GetMemesByStatus(c *fiber.Ctx) error {
	page := parsePage(c)
	memes, err := s.memeService.ListByStatus(c.UserContext(), c.Query("status"), page.Page, page.Limit)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(memes)
}

// ReviewMeme handles POST /api/admin/memes/:id/review
// @Summary Review a meme
// @Description Approve or reject a meme. Re-reviewing an already reviewed meme is allowed.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meme ID"
// @Param request body ReviewRequest true "Decision"
// @Success 200 {object} models.Meme
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/memes/{id}/review [post]
func (s *Server) ReviewMeme(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req ReviewRequest
	if err := decodeBody(c, &req); err != nil {
		return nil
	}

	meme, err := s.memeService.Review(c.UserContext(), adminIDFrom(c), id, service.ReviewInput{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(meme)
}

// AdminSubmitMeme handles POST /api/admin/memes
// @Summary Submit a meme as admin
// @Description Admin submissions skip the queue: status defaults to approved.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AdminSubmitMemeRequest true "Meme"
// @Success 201 {object} models.Meme
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/memes [post]
func (s *Server) AdminSubmitMeme(c *fiber.Ctx) error {
	adminID := adminIDFrom(c)
	if !s.featureFlags.Enabled(featureflags.AdminSubmit, adminID) {
		return models.RespondWithError(c, fiber.StatusNotFound, &models.AppError{
			Code:    models.CodeNotFound,
			Message: "Admin submission is disabled",
		})
	}

	var req AdminSubmitMemeRequest
	if err := decodeBody(c, &req); err != nil {
		return nil
	}

	meme, err := s.memeService.SubmitAsAdmin(c.UserContext(), adminID, service.SubmitMemeInput{
		URL:         req.URL,
		Platform:    req.Platform,
		VideoID:     req.VideoID,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      req.Status,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(meme)
}

// GetFeatureFlags returns every known flag evaluated for the current admin.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"evaluated": s.featureFlags.Snapshot(adminIDFrom(c)),
	})
}
