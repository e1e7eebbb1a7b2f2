package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nutriplan/models"

	openai "github.com/sashabaranov/go-openai"
)

// PlanGenerator turns a profile, the day's metrics and recent plan history
// into a validated plan document. Implementations must not retry; failure
// policy belongs to the caller.
type PlanGenerator interface {
	Generate(ctx context.Context, user *models.User, log *models.DailyLog, history []models.MealPlan) (*models.PlanDetails, error)
}

const planSystemInstruction = "You are a meal planning assistant that responds only with valid JSON objects. " +
	"Never use markdown formatting or code blocks. Respond with raw JSON only."

// historyLimit caps how many previous plans feed the prompt, so context size
// stays bounded no matter how long the user has been around.
const historyLimit = 3

type OpenAIPlanGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIPlanGenerator(apiKey, model string) *OpenAIPlanGenerator {
	return &OpenAIPlanGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAIPlanGenerator) Generate(ctx context.Context, user *models.User, log *models.DailyLog, history []models.MealPlan) (*models.PlanDetails, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: planSystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: buildPlanPrompt(user, log, history)},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}
	return parsePlanDetails(resp.Choices[0].Message.Content)
}

// buildPlanPrompt assembles the user context. Output is deterministic for a
// given (profile, log, history) triple.
func buildPlanPrompt(user *models.User, log *models.DailyLog, history []models.MealPlan) string {
	prefs := "none"
	if len(user.FoodPreferences) > 0 {
		prefs = string(user.FoodPreferences)
	}

	var sb strings.Builder
	sb.WriteString("Generate a detailed meal plan for a person with the following characteristics:\n")
	fmt.Fprintf(&sb, "- Height: %.0fcm\n", user.Height)
	fmt.Fprintf(&sb, "- Current Weight: %.1fkg\n", user.Weight)
	fmt.Fprintf(&sb, "- Target Weight: %.1fkg over %d weeks\n", user.DesiredWeight, user.GoalTimePeriod)
	fmt.Fprintf(&sb, "- Age: %d\n", user.Age)
	fmt.Fprintf(&sb, "- Activity Level Today: %s\n", log.ExpectedActivityLevel)
	fmt.Fprintf(&sb, "- Sleep Score: %d\n", log.SleepScore)
	fmt.Fprintf(&sb, "- Resting Heart Rate: %d\n", log.RestingHeartRate)
	fmt.Fprintf(&sb, "- Food Preferences: %s\n", prefs)
	fmt.Fprintf(&sb, "- Region: %s\n", user.GeographicalRegion)

	if lines := historySummaries(history); len(lines) > 0 {
		sb.WriteString("\nPrevious plans, most recent first (avoid repeating the same meals):\n")
		for _, line := range lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	sb.WriteString(`
Please provide a detailed meal plan with:
1. Breakfast, lunch, dinner, and snacks
2. Exact portions in grams
3. Calorie count per meal
4. Macronutrient breakdown (protein, carbs, fats)
5. Micronutrient highlights
6. Timing recommendations

IMPORTANT: You must respond with ONLY a valid JSON object in the following format, with no additional text or explanation:
{
  "totalCalories": number,
  "macronutrients": { "protein": number, "carbs": number, "fats": number },
  "meals": [
    {
      "type": string,
      "time": string,
      "foods": [{ "name": string, "portion": number, "calories": number }],
      "totalCalories": number
    }
  ],
  "micronutrients": { },
  "hydrationRecommendation": string
}`)
	return sb.String()
}

// historySummaries renders at most historyLimit one-line summaries of prior
// plans. Plans whose stored document no longer parses are skipped rather than
// failing the whole generation.
func historySummaries(history []models.MealPlan) []string {
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}
	var lines []string
	for _, plan := range history {
		var details models.PlanDetails
		if err := json.Unmarshal(plan.PlanDetails, &details); err != nil {
			continue
		}
		types := make([]string, 0, len(details.Meals))
		for _, m := range details.Meals {
			types = append(types, m.Type)
		}
		lines = append(lines, fmt.Sprintf("- %s: %.0f kcal, meals: %s",
			plan.GeneratedAt.Format("2006-01-02"), details.TotalCalories, strings.Join(types, ", ")))
	}
	return lines
}

// stripCodeFences removes markdown fences the model sometimes wraps its reply
// in despite the system instruction.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// parsePlanDetails validates the raw model reply against the response
// contract. Anything that is not a JSON object carrying the required
// top-level fields is a generation failure, never coerced.
func parsePlanDetails(raw string) (*models.PlanDetails, error) {
	cleaned := stripCodeFences(raw)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %v", ErrGenerationFailed, err)
	}
	for _, field := range []string{"totalCalories", "macronutrients", "meals"} {
		if _, ok := probe[field]; !ok {
			return nil, fmt.Errorf("%w: response missing required field %q", ErrGenerationFailed, field)
		}
	}

	var details models.PlanDetails
	if err := json.Unmarshal([]byte(cleaned), &details); err != nil {
		return nil, fmt.Errorf("%w: response does not match the plan schema: %v", ErrGenerationFailed, err)
	}
	if details.TotalCalories <= 0 {
		return nil, fmt.Errorf("%w: totalCalories must be positive", ErrGenerationFailed)
	}
	if len(details.Meals) == 0 {
		return nil, fmt.Errorf("%w: plan contains no meals", ErrGenerationFailed)
	}
	return &details, nil
}
