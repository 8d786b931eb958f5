package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/athlete-macro-api/formula"
)

// profileEstimate is the response of the preview and submit endpoints.
type profileEstimate struct {
	Estimate formula.Estimate `json:"estimate"`
	Targets  formula.Targets  `json:"targets"`
}

// parseProfileRequest turns a request body into pipeline input. Every field is
// required and enum values are matched case-insensitively ("Male" → male).
// Returns a client-facing message on failure.
func parseProfileRequest(body profileRequest) (formula.Profile, error) {
	if body.Weight == nil || body.Height == nil || body.Age == nil ||
		strings.TrimSpace(body.Sex) == "" || strings.TrimSpace(body.SportsCategory) == "" ||
		strings.TrimSpace(body.Goal) == "" || body.IsPro == nil {
		return formula.Profile{}, errors.New("please fill in all fields")
	}

	p := formula.Profile{
		WeightKG:       *body.Weight,
		HeightCM:       *body.Height,
		Age:            *body.Age,
		Sex:            formula.ParseSex(body.Sex),
		SportsCategory: formula.ParseSportsCategory(body.SportsCategory),
		IsProfessional: *body.IsPro,
		Goal:           formula.ParseGoal(body.Goal),
	}
	if err := p.Validate(); err != nil {
		return formula.Profile{}, err
	}
	return p, nil
}

// estimateProfile runs the pipeline and records the metric.
func estimateProfile(p formula.Profile) profileEstimate {
	e := formula.Compute(p)
	observeEstimate(p)
	return profileEstimate{Estimate: e, Targets: e.Targets()}
}

// previewProfile computes calorie and macro targets without saving anything.
// POST /api/profile/preview.
func (h *Handler) previewProfile(c *gin.Context) {
	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := parseProfileRequest(body)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, estimateProfile(p))
}

// getProfile returns the authenticated user's profile and stored targets.
// GET /api/profile. 404 when no profile has been submitted.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := h.loadProfile(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// submitProfile validates the form, derives targets server-side, and creates
// or replaces the user's profile row.
// POST /api/profile.
func (h *Handler) submitProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := parseProfileRequest(body)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	est := estimateProfile(p)
	saved, err := h.saveProfile(c, userID, p, est.Targets)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "profile saved",
		"profile":  saved,
		"estimate": est.Estimate,
	})
}

/* ─── Persistence ────────────────────────────────────────────────────── */

func (h *Handler) loadProfile(c *gin.Context, userID int) (userProfile, error) {
	return selectProfile(c, h.db, userID, false)
}

func (h *Handler) saveProfile(c *gin.Context, userID int, p formula.Profile, t formula.Targets) (userProfile, error) {
	return upsertProfile(c, h.db, userID, p, t)
}

// selectProfile reads a user's profile through db, which may be a transaction.
// forUpdate locks the row until that transaction ends.
func selectProfile(ctx context.Context, db pgxQuerier, userID int, forUpdate bool) (userProfile, error) {
	sql := "SELECT * FROM user_profiles WHERE user_id = @userID"
	if forUpdate {
		sql += " FOR UPDATE"
	}
	return queryOne[userProfile](db, ctx, sql, pgx.NamedArgs{"userID": userID})
}

// upsertProfile stores the profile inputs together with their rounded targets.
func upsertProfile(ctx context.Context, db pgxQuerier, userID int, p formula.Profile, t formula.Targets) (userProfile, error) {
	return queryOne[userProfile](db, ctx,
		`INSERT INTO user_profiles
			(user_id, weight_kg, height_cm, age, sex, sports_category, goal, is_pro,
			 calories, carbs_g, protein_g, fat_g)
		 VALUES
			(@userID, @weight, @height, @age, @sex, @category, @goal, @isPro,
			 @calories, @carbs, @protein, @fat)
		 ON CONFLICT (user_id) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			height_cm = EXCLUDED.height_cm,
			age = EXCLUDED.age,
			sex = EXCLUDED.sex,
			sports_category = EXCLUDED.sports_category,
			goal = EXCLUDED.goal,
			is_pro = EXCLUDED.is_pro,
			calories = EXCLUDED.calories,
			carbs_g = EXCLUDED.carbs_g,
			protein_g = EXCLUDED.protein_g,
			fat_g = EXCLUDED.fat_g,
			updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "weight": p.WeightKG, "height": p.HeightCM, "age": p.Age,
			"sex": string(p.Sex), "category": string(p.SportsCategory), "goal": string(p.Goal),
			"isPro":    p.IsProfessional,
			"calories": t.Calories, "carbs": t.CarbsG, "protein": t.ProteinG, "fat": t.FatG,
		})
}
