package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"backend/config"

	"go.uber.org/zap"
)

// DefaultNutritionPrompt is used when no prompt file is configured.
const DefaultNutritionPrompt = `You are a registered dietitian. Estimate the nutritional content of the food the user describes, for a typical single serving. Report your estimate by calling the record_nutrition_estimate function. Use realistic values; never guess wildly high or low. All values must be non-negative.`

// DefaultNutritionSchema constrains the model's function-call arguments to
// the macronutrient shape of a NutritionRecord.
const DefaultNutritionSchema = `{
  "type": "object",
  "properties": {
    "calories": {"type": "number", "minimum": 0},
    "proteinGrams": {"type": "number", "minimum": 0},
    "carbohydrates": {
      "type": "object",
      "properties": {
        "totalGrams": {"type": "number", "minimum": 0},
        "fiberGrams": {"type": "number", "minimum": 0},
        "sugarGrams": {"type": "number", "minimum": 0}
      },
      "required": ["totalGrams", "fiberGrams", "sugarGrams"]
    },
    "fat": {
      "type": "object",
      "properties": {
        "totalGrams": {"type": "number", "minimum": 0},
        "saturatedGrams": {"type": "number", "minimum": 0}
      },
      "required": ["totalGrams", "saturatedGrams"]
    }
  },
  "required": ["calories", "proteinGrams", "carbohydrates", "fat"]
}`

const estimateFunctionName = "record_nutrition_estimate"

var (
	// ErrNoEstimate means the model replied without the expected function call.
	ErrNoEstimate = errors.New("model response contained no nutrition estimate")
	// ErrAINotConfigured means no API key was provided; the estimator cannot
	// run at all, which is "no data", not a service fault.
	ErrAINotConfigured = errors.New("nutrition AI is not configured")
)

// NutritionAIService produces a best-effort macro estimate from a free-text
// food description. Unlike the food database client, a failed invocation is
// an error: the caller needs to distinguish a service fault from "no data
// exists". Single attempt, no retries.
type NutritionAIService struct {
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
	schema       json.RawMessage
	client       *http.Client
	logger       *zap.Logger
}

// NewNutritionAIService builds the estimator. The system prompt and output
// schema are injected once at construction, not re-read per call.
func NewNutritionAIService(cfg config.AIConfig, systemPrompt string, schema json.RawMessage, logger *zap.Logger) *NutritionAIService {
	return &NutritionAIService{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		model:        cfg.Model,
		systemPrompt: systemPrompt,
		schema:       schema,
		client:       &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:       logger,
	}
}

type chatCompletionRequest struct {
	Model       string     `json:"model"`
	Messages    []message  `json:"messages"`
	Tools       []tool     `json:"tools"`
	ToolChoice  toolChoice `json:"tool_choice"`
	Temperature float64    `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// estimatePayload matches the function-call schema. Calories arrive as a
// number and are rounded to whole kcal here.
type estimatePayload struct {
	Calories      float64 `json:"calories"`
	ProteinGrams  float64 `json:"proteinGrams"`
	Carbohydrates struct {
		TotalGrams float64 `json:"totalGrams"`
		FiberGrams float64 `json:"fiberGrams"`
		SugarGrams float64 `json:"sugarGrams"`
	} `json:"carbohydrates"`
	Fat struct {
		TotalGrams     float64 `json:"totalGrams"`
		SaturatedGrams float64 `json:"saturatedGrams"`
	} `json:"fat"`
}

// Estimate asks the model for nutrition of the described food. The response
// is structurally validated by the provider against the injected schema; a
// response without a parseable function call is an error.
func (s *NutritionAIService) Estimate(ctx context.Context, description string) (*Macronutrients, error) {
	if s.apiKey == "" {
		return nil, ErrAINotConfigured
	}

	choice := toolChoice{Type: "function"}
	choice.Function.Name = estimateFunctionName

	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []message{
			{Role: "system", Content: s.systemPrompt},
			{Role: "user", Content: description},
		},
		Tools: []tool{{
			Type: "function",
			Function: toolFunction{
				Name:        estimateFunctionName,
				Description: "Record the estimated macronutrients for a food.",
				Parameters:  s.schema,
			},
		}},
		ToolChoice:  choice,
		Temperature: 0.2,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model API error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model response: %w", err)
	}
	if len(chatResp.Choices) == 0 || len(chatResp.Choices[0].Message.ToolCalls) == 0 {
		return nil, ErrNoEstimate
	}

	args := chatResp.Choices[0].Message.ToolCalls[0].Function.Arguments
	var payload estimatePayload
	if err := json.Unmarshal([]byte(args), &payload); err != nil {
		s.logger.Error("model returned unparseable arguments", zap.Error(err), zap.String("arguments", args))
		return nil, fmt.Errorf("%w: %v", ErrNoEstimate, err)
	}

	s.logger.Info("nutrition estimate generated",
		zap.String("description", description),
		zap.Float64("calories", payload.Calories),
	)

	return &Macronutrients{
		Calories:     roundKcal(payload.Calories),
		ProteinGrams: roundGrams(payload.ProteinGrams),
		Carbohydrates: Carbohydrates{
			TotalGrams: roundGrams(payload.Carbohydrates.TotalGrams),
			FiberGrams: roundGrams(payload.Carbohydrates.FiberGrams),
			SugarGrams: roundGrams(payload.Carbohydrates.SugarGrams),
		},
		Fat: Fat{
			TotalGrams:     roundGrams(payload.Fat.TotalGrams),
			SaturatedGrams: roundGrams(payload.Fat.SaturatedGrams),
		},
	}, nil
}
