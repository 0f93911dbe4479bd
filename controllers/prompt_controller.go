package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecotrack/ecotrack/insight"
	"github.com/ecotrack/ecotrack/llm"
	"github.com/ecotrack/ecotrack/utils"
)

const maxPromptRunes = 4000

// PromptController rewrites a user's draft prompt into a cleaner one before it
// is sent to a generative model, keeping the intent intact.
type PromptController struct {
	gen llm.Client
}

// NewPromptController creates a PromptController. gen may be nil.
func NewPromptController(gen llm.Client) *PromptController {
	return &PromptController{gen: gen}
}

const optimizePromptTemplate = `Rewrite the following prompt to be clearer and more specific while preserving its exact intent.
Keep any code blocks verbatim. Do not answer the prompt, only rewrite it.
Reply with the rewritten prompt as plain text and nothing else.

Prompt:
%s`

// Optimize returns an improved version of the submitted prompt. When the
// generative service is unavailable the original text is normalized locally.
func (p *PromptController) Optimize(ctx *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		utils.Error(ctx, http.StatusBadRequest, 40061, "prompt must not be empty")
		return
	}
	if runes := []rune(prompt); len(runes) > maxPromptRunes {
		prompt = string(runes[:maxPromptRunes])
	}

	optimized, remote := p.optimize(ctx, prompt)

	utils.Success(ctx, gin.H{
		"prompt":    optimized,
		"optimized": remote,
	})
}

func (p *PromptController) optimize(ctx *gin.Context, prompt string) (string, bool) {
	if p.gen != nil {
		body, err := p.gen.Generate(ctx.Request.Context(), fmt.Sprintf(optimizePromptTemplate, prompt))
		if err == nil {
			if s := strings.TrimSpace(insight.StripCodeFences(body)); s != "" {
				return s, true
			}
		} else if utils.Sugar != nil {
			utils.Sugar.Infow("prompt optimization unavailable, normalizing locally", "reason", err)
		}
	}
	return normalizePrompt(prompt), false
}

// normalizePrompt is the local fallback: collapse runs of blank lines and trim
// trailing whitespace per line. Code fences are left untouched.
func normalizePrompt(prompt string) string {
	lines := strings.Split(prompt, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasPrefix(strings.TrimSpace(trimmed), "```") {
			inFence = !inFence
			out = append(out, trimmed)
			blank = false
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		if trimmed == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
