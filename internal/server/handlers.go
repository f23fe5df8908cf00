package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inodb/vibe-dna/internal/genes"
	"github.com/inodb/vibe-dna/internal/quiz"
)

type sequenceRequest struct {
	Gene     string `json:"gene" query:"gene" form:"gene"`
	Organism string `json:"organism" query:"organism" form:"organism"`
}

func (s *Server) getSequence(c echo.Context) error {
	var req sequenceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	rec, err := s.resolver.Resolve(c.Request().Context(), req.Gene, req.Organism)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) getRandomSequence(c echo.Context) error {
	rec, err := s.resolver.ResolveFromPool(c.Request().Context(), s.pool)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) getQuizQuestion(c echo.Context) error {
	q, err := s.game.NewSequenceQuestion(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

type answerRequest struct {
	Name           string `json:"name"`
	QuestionID     string `json:"question_id"`
	Answer         string `json:"answer"`
	SelectedAnswer string `json:"selected_answer"`
}

func (r answerRequest) choice() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.SelectedAnswer
}

func (s *Server) postQuizAnswer(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	res, err := s.game.AnswerSequence(c.Request().Context(), req.Name, req.QuestionID, req.choice())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getScore(c echo.Context) error {
	name := c.Param("name")
	total, err := s.game.Score(c.Request().Context(), name)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"name": name, "total_score": total})
}

func (s *Server) getLeaderboard(c echo.Context) error {
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return badRequest(c, "limit must be a positive integer")
		}
		limit = n
	}

	entries, err := s.game.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) getTriviaQuestion(c echo.Context) error {
	q, err := s.game.RandomTrivia(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

type triviaRequest struct {
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Difficulty    string `json:"difficulty"`
	Category      string `json:"category"`
}

func (s *Server) postTriviaQuestion(c echo.Context) error {
	var req triviaRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	id, err := s.game.AddTrivia(c.Request().Context(), quiz.TriviaInput{
		Question:   req.Question,
		Options:    []string{req.OptionA, req.OptionB, req.OptionC, req.OptionD},
		Answer:     req.CorrectAnswer,
		Difficulty: req.Difficulty,
		Category:   req.Category,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"message":     "Trivia question added successfully",
		"question_id": id,
	})
}

func (s *Server) postTriviaAnswer(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	res, err := s.game.AnswerTrivia(c.Request().Context(), req.Name, req.QuestionID, req.choice())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getChromosomeQuestion(c echo.Context) error {
	q, err := s.game.NewChromosomeQuestion(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (s *Server) postChromosomeAnswer(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	res, err := s.game.AnswerChromosome(c.Request().Context(), req.Name, req.QuestionID, req.choice())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getGenes(c echo.Context) error {
	if s.catalog == nil {
		return s.fail(c, genes.ErrNotFound)
	}
	list, err := s.catalog.Browse(c.Request().Context(), s.cfg.GeneSymbols)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) getGene(c echo.Context) error {
	if s.catalog == nil {
		return s.fail(c, genes.ErrNotFound)
	}
	r, err := s.catalog.Get(c.Request().Context(), c.Param("symbol"), c.QueryParam("organism"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}
