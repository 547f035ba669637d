package advisory

import (
	"context"
	"encoding/json"
	"fmt"

	"example.com/edueat/services/cafeteria/config"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Fallback values returned when the text-generation service fails or
// produces nothing useful. Advisory calls never surface an error.
const (
	FallbackHealthTip = "Una dieta balanceada es la clave de la salud."
	DefaultHealthTip  = "Comer balanceado ayuda a crecer fuerte."
)

// MenuSuggestion is one day of a suggested weekly menu
type MenuSuggestion struct {
	Day         string `json:"dia"`
	Dish        string `json:"plato"`
	Description string `json:"descripcion"`
}

// Client calls the external text-generation capability for tips and menu
// suggestions. Every call is best-effort: failures resolve to fixed
// fallback values, never to an error.
type Client struct {
	rest  *resty.Client
	model string
}

// NewClient creates a new advisory client
func NewClient(cfg config.AdvisoryConfig) *Client {
	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", cfg.APIKey)

	return &Client{
		rest:  rest,
		model: cfg.Model,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if jsonOutput {
		req.GenerationConfig = &generationConfig{ResponseMimeType: "application/json"}
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", err
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("text generation request failed with status %d", resp.StatusCode())
	}

	var parsed generateResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse generation response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// HealthTip returns a short nutritional tip for the given dish. On any
// failure the fixed fallback string is returned.
func (c *Client) HealthTip(ctx context.Context, dishName string) string {
	prompt := fmt.Sprintf(
		"Proporciona un consejo nutricional muy breve (máximo 20 palabras) para niños que consumen: %s",
		dishName,
	)

	text, err := c.generate(ctx, prompt, false)
	if err != nil {
		log.Warn().Err(err).Str("dish", dishName).Msg("Health tip request failed, using fallback")
		return FallbackHealthTip
	}
	if text == "" {
		return DefaultHealthTip
	}
	return text
}

// SuggestWeeklyMenu returns a five-day healthy menu suggestion. On any
// failure an empty list is returned.
func (c *Client) SuggestWeeklyMenu(ctx context.Context) []MenuSuggestion {
	prompt := "Genera una sugerencia de menú escolar saludable para 5 días de la semana (Lunes a Viernes). " +
		"Responde únicamente con un arreglo JSON de objetos {\"dia\", \"plato\", \"descripcion\"}."

	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		log.Warn().Err(err).Msg("Weekly menu suggestion failed, returning empty list")
		return []MenuSuggestion{}
	}

	var suggestions []MenuSuggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		log.Warn().Err(err).Msg("Weekly menu response was not valid JSON, returning empty list")
		return []MenuSuggestion{}
	}

	return suggestions
}
