package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dpshade/prompt-builder/internal/commands"
	"github.com/dpshade/prompt-builder/internal/models"
)

// GenerateResponse is the success body of POST /api/generate-prompt
type GenerateResponse struct {
	Prompt string `json:"prompt"`
}

// ComposeRequest is the body of POST /api/compose
type ComposeRequest struct {
	models.PromptDraft
	Template string `json:"template,omitempty" validate:"omitempty,templatekey"`
}

// ComposeResponse is the success body of POST /api/compose
type ComposeResponse struct {
	Prompt   string                 `json:"prompt"`
	Analysis *models.AnalysisResult `json:"analysis"`
}

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	Prompt string `json:"prompt"`
}

// AnalyzeResponse is the success body of POST /api/analyze
type AnalyzeResponse struct {
	Analysis *models.AnalysisResult `json:"analysis"`
}

func (s *Server) handleGeneratePrompt(c *gin.Context) {
	var req models.GenerationRequest
	if err := s.validator.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	result, ok := s.execute(c, commands.CommandGenerate, map[string]interface{}{
		"description":       req.Description,
		"userContext":       req.UserContext,
		"additionalContext": req.AdditionalContext,
	})
	if !ok {
		return
	}

	data := result.Data.(commands.GenerateResult)
	c.JSON(http.StatusOK, GenerateResponse{Prompt: data.Prompt})
}

func (s *Server) handleHealth(c *gin.Context) {
	result, ok := s.execute(c, commands.CommandHealth, nil)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": result.Data.(commands.HealthResult).OK})
}

func (s *Server) handleCompose(c *gin.Context) {
	var req ComposeRequest
	if err := s.validator.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	result, ok := s.execute(c, commands.CommandCompose, map[string]interface{}{
		"draft":    req.PromptDraft,
		"template": req.Template,
	})
	if !ok {
		return
	}

	data := result.Data.(commands.ComposeResult)
	c.JSON(http.StatusOK, ComposeResponse{Prompt: data.Prompt, Analysis: data.Analysis})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := s.validator.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	result, ok := s.execute(c, commands.CommandAnalyze, map[string]interface{}{"prompt": req.Prompt})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{Analysis: result.Data.(commands.AnalyzeResult).Analysis})
}

func (s *Server) handleTemplates(c *gin.Context) {
	result, ok := s.execute(c, commands.CommandListTemplates, map[string]interface{}{
		"search": c.Query("search"),
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": result.Data})
}

func (s *Server) handleConstraintKinds(c *gin.Context) {
	result, ok := s.execute(c, commands.CommandListConstraintKinds, nil)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"kinds": result.Data})
}
