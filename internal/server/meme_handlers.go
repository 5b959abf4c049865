package server

import (
	"spincat/internal/models"
	"spincat/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitMemeRequest is the public submission body.
type SubmitMemeRequest struct {
	URL         string   `json:"url"`
	Platform    string   `json:"platform"`
	VideoID     string   `json:"videoId"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// VoteRequest is the body of a vote.
type VoteRequest struct {
	Type string `json:"type"`
}

// SubmitMeme handles POST /api/memes
// @Summary Submit a meme
// @Description Submit an Instagram or TikTok video for moderation. New memes start pending.
// @Tags memes
// @Accept json
// @Produce json
// @Param request body SubmitMemeRequest true "Meme"
// @Success 201 {object} models.Meme
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /memes [post]
func (s *Server) SubmitMeme(c *fiber.Ctx) error {
	var req SubmitMemeRequest
	if err := decodeBody(c, &req); err != nil {
		return nil
	}

	meme, err := s.memeService.Submit(c.UserContext(), service.SubmitMemeInput{
		URL:         req.URL,
		Platform:    req.Platform,
		VideoID:     req.VideoID,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(meme)
}

// DiscoverMemes handles GET /api/memes/discover
// @Summary Discover approved memes
// @Description Filtered, sorted, paginated list of approved memes. A short page means there are no more results.
// @Tags memes
// @Produce json
// @Param category query string false "trending, newest or popular"
// @Param platform query string false "INSTAGRAM, TIKTOK or all"
// @Param dateRange query string false "today, week, month or all"
// @Param search query string false "Matches description or an exact tag"
// @Param page query int false "1-based page" default(1)
// @Param limit query int false "Page size, at most 100" default(12)
// @Success 200 {array} models.Meme
// @Failure 400 {object} models.ErrorResponse
// @Router /memes/discover [get]
func (s *Server) DiscoverMemes(c *fiber.Ctx) error {
	page := parsePage(c)
	memes, err := s.memeService.Discover(c.UserContext(), service.DiscoverParams{
		Category:  c.Query("category"),
		Platform:  c.Query("platform"),
		DateRange: c.Query("dateRange"),
		Search:    c.Query("search"),
		Page:      page.Page,
		Limit:     page.Limit,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(memes)
}

// GetTrendingTags handles GET /api/memes/trending-tags
// @Summary Trending tags
// @Description Up to ten tags used most often by memes created in the last seven days.
// @Tags memes
// @Produce json
// @Success 200 {array} string
// @Router /memes/trending-tags [get]
func (s *Server) GetTrendingTags(c *fiber.Ctx) error {
	tags, err := s.memeService.TrendingTags(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(tags)
}

// VoteMeme handles POST /api/memes/:id/vote
// @Summary Vote on a meme
// @Tags memes
// @Accept json
// @Produce json
// @Param id path int true "Meme ID"
// @Param request body VoteRequest true "up or down"
// @Success 200 {object} models.Meme
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /memes/{id}/vote [post]
func (s *Server) VoteMeme(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req VoteRequest
	if err := decodeBody(c, &req); err != nil {
		return nil
	}

	meme, err := s.memeService.Vote(c.UserContext(), id, req.Type)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(meme)
}
