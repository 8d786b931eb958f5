package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── Prompt ─────────────────────────────────────────────────────────── */

// recommendationGreeting is the fixed opening the model is told to use when
// suggesting foods for the rest of the day.
const recommendationGreeting = "Hi heres the food recommendation for today:"

const nutritionistPreamble = `You are a professional and friendly sports nutritionist.
Your task is to give clear, actionable, and encouraging advice to help the user balance the rest of their meals today.
Your recommendations must always consider the user's stats (age, weight, height, goal, calories, and macros).
Your tone should be supportive, positive, and simple.

### User Stats:
- Age: %d
- Sex: %s
- Weight: %gkg
- Height: %gcm
- Goal: %s
- Professional Athlete: %s
- Daily Calorie Needs: %d kcal
- Macronutrient Targets: Protein %dg, Carbs %dg, Fat %dg
`

const promptNoFoods = `
The user has not logged any meals today.
Ask them politely to log at least one meal (breakfast, lunch, dinner, or snack) before giving a recommendation.
`

const promptAllMealsEaten = `
The user has eaten all their meals for today.
Do not recommend anything for today.
Instead, provide a friendly summary and give guidance or tips for tomorrow's meals based on the user's stats.
`

const promptRestOfDayTemplate = `
The user has already eaten the following foods today:
%s

Recommend **only new meals or snacks** for the rest of the day, based on the user's stats and remaining calorie/macronutrient needs.
Do **not** suggest any foods the user has already eaten.

**Start your response exactly like this:**

%s

After listing the new foods, write a short, friendly description of each item (e.g., "the quinoa provides protein and fiber...").
End with a sentence starting with "Dont forget" that gives practical, positive tips for the rest of the day's meals.
Keep it supportive, simple, and actionable, as if you were coaching the user personally.
`

// mainMealTypes must all be logged before the prompt switches to tomorrow's tips.
var mainMealTypes = []string{"breakfast", "lunch", "dinner"}

// foodListText numbers every food across the day's meals:
// "1. Oats (2x) - breakfast". Returns "" when no foods are logged.
func foodListText(meals []mealWithFoods) string {
	var lines []string
	n := 1
	for _, m := range meals {
		mealType := m.MealType
		if mealType == "" {
			mealType = "Meal"
		}
		for _, f := range m.Foods {
			qty := ""
			if f.Quantity != nil && *f.Quantity != 0 {
				qty = " (" + strconv.FormatFloat(*f.Quantity, 'f', -1, 64) + "x)"
			}
			lines = append(lines, fmt.Sprintf("%d. %s%s - %s", n, f.FoodName, qty, mealType))
			n++
		}
	}
	return strings.Join(lines, "\n")
}

// ateAllMainMeals reports whether breakfast, lunch and dinner are all logged.
func ateAllMainMeals(meals []mealWithFoods) bool {
	logged := make(map[string]bool, len(meals))
	for _, m := range meals {
		logged[strings.ToLower(m.MealType)] = true
	}
	for _, t := range mainMealTypes {
		if !logged[t] {
			return false
		}
	}
	return true
}

// buildRecommendationPrompt embeds the profile, its targets and the day's
// meals into the nutritionist prompt.
func buildRecommendationPrompt(p userProfile, meals []mealWithFoods) string {
	goal := p.Goal
	if goal == "" {
		goal = "Maintain Health"
	}
	pro := "No"
	if p.IsPro {
		pro = "Yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, nutritionistPreamble,
		p.Age, p.Sex, p.WeightKG, p.HeightCM, goal, pro,
		p.Calories, p.ProteinG, p.CarbsG, p.FatG)

	foods := foodListText(meals)
	switch {
	case foods == "":
		b.WriteString(promptNoFoods)
	case ateAllMainMeals(meals):
		b.WriteString(promptAllMealsEaten)
	default:
		fmt.Fprintf(&b, promptRestOfDayTemplate, foods, recommendationGreeting)
	}
	return b.String()
}

/* ─── Chat-completions HTTP client ───────────────────────────────────── */

// chatMessage is a single message in the chat completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// errNoChoices is returned when the gateway answers 200 without any choices,
// which is what an interstitial HTML/JSON page from the tunnel looks like.
var errNoChoices = errors.New("no choices in response")

// callChatCompletion sends a single-prompt chat completions request and returns
// the content of the first choice. LLM_API_KEY is sent as a bearer token when set.
func callChatCompletion(ctx context.Context, baseURL, model, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", strings.TrimRight(baseURL, "/")+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// The hosted gateway sits behind an ngrok tunnel, which otherwise answers
	// with a browser warning page.
	httpReq.Header.Set("ngrok-skip-browser-warning", "true")
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	}

	start := time.Now()
	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(httpReq)
	llmRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errNoChoices
	}

	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// generateRecommendation handles POST /api/recommendation.
// Loads the user's profile and the day's meals, asks the model for advice on
// the rest of the day, and returns its text.
func (h *Handler) generateRecommendation(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req recommendationRequest
	// An empty body is allowed and means today.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apiError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	profile, err := h.loadProfile(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recommendationRequestsTotal.WithLabelValues("no_profile").Inc()
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	meals, err := h.loadMealsForDate(c, userID, req.Date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	if len(meals) == 0 {
		recommendationRequestsTotal.WithLabelValues("no_meals").Inc()
		apiError(c, http.StatusBadRequest, "no meals logged for this date, please log a meal first")
		return
	}

	text, err := h.recommend(c.Request.Context(), buildRecommendationPrompt(profile, meals))
	if err != nil {
		log.Printf("[generateRecommendation] gateway error for user %d: %v", userID, err)
		apiError(c, http.StatusBadGateway, "recommendation request failed")
		return
	}

	c.JSON(http.StatusOK, recommendationResponse{
		UserID:         userID,
		Date:           req.Date,
		Recommendation: text,
	})
}

// recommend calls the gateway and records the outcome.
func (h *Handler) recommend(ctx context.Context, prompt string) (string, error) {
	model := h.llmModel
	if model == "" {
		model = "local-model"
	}
	text, err := callChatCompletion(ctx, h.llmBaseURL, model, prompt)
	if err != nil {
		recommendationRequestsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		text = "No recommendation generated"
	}
	recommendationRequestsTotal.WithLabelValues("ok").Inc()
	return text, nil
}
