package server

import (
	"spincat/internal/models"
	"spincat/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitScore handles POST /api/scores
// @Summary Submit a typing game score
// @Description All fields are required; zero is a valid value.
// @Tags scores
// @Accept json
// @Produce json
// @Param request body service.SubmitScoreInput true "Finished run"
// @Success 201 {object} models.Score
// @Failure 400 {object} models.ErrorResponse
// @Router /scores [post]
func (s *Server) SubmitScore(c *fiber.Ctx) error {
	var req service.SubmitScoreInput
	if err := decodeBody(c, &req); err != nil {
		return nil
	}

	score, err := s.leaderboardService.SubmitScore(c.UserContext(), req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(score)
}

// GetLeaderboard handles GET /api/scores/leaderboard
// @Summary Leaderboard
// @Description Best run of each player, highest score first, faster time on ties.
// @Tags scores
// @Produce json
// @Param limit query int false "Rows" default(10)
// @Success 200 {array} models.Score
// @Router /scores/leaderboard [get]
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	scores, err := s.leaderboardService.Leaderboard(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(scores)
}

// GetPlayerScores handles GET /api/scores/players/:name
// @Summary Player history
// @Tags scores
// @Produce json
// @Param name path string true "Player name"
// @Param limit query int false "Rows" default(10)
// @Success 200 {array} models.Score
// @Failure 400 {object} models.ErrorResponse
// @Router /scores/players/{name} [get]
func (s *Server) GetPlayerScores(c *fiber.Ctx) error {
	scores, err := s.leaderboardService.PlayerHistory(c.UserContext(), c.Params("name"), c.QueryInt("limit", 0))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(scores)
}
