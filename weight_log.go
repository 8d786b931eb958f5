package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/athlete-macro-api/formula"
)

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	if entries == nil {
		entries = []weightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// upsertWeightEntry creates or updates the weight entry for the given date.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight_kg": 72.4, "apply_to_profile": true }.
// With apply_to_profile the stored profile takes the new weight and its daily
// targets are re-derived; the response then carries the refreshed profile.
// The entry and the profile change commit together or not at all.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Date           string  `json:"date"`
		WeightKG       float64 `json:"weight_kg"`
		ApplyToProfile bool    `json:"apply_to_profile"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if !validWeightKG(body.WeightKG) {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 0 and 500")
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}
	defer tx.Rollback(c)

	entry, profile, err := recordWeight(c, tx, userID, body.Date, body.WeightKG, body.ApplyToProfile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
			return
		}
		log.Printf("[upsertWeightEntry] failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}
	if err := tx.Commit(c); err != nil {
		log.Printf("[upsertWeightEntry] commit failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	if profile == nil {
		c.JSON(http.StatusCreated, entry)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "profile": profile})
}

// recordWeight writes a weigh-in through db (a transaction in the handler).
// With applyToProfile the profile is locked and read first, so a user without
// a profile gets pgx.ErrNoRows before anything is written.
func recordWeight(ctx context.Context, db pgxQuerier, userID int, date string, weightKG float64, applyToProfile bool) (weightEntry, *userProfile, error) {
	var current userProfile
	if applyToProfile {
		var err error
		if current, err = selectProfile(ctx, db, userID, true); err != nil {
			return weightEntry{}, nil, err
		}
	}

	entry, err := queryOne[weightEntry](db, ctx,
		`INSERT INTO weight_log (user_id, date, weight_kg)
		 VALUES (@userID, @date, @weightKG)
		 ON CONFLICT (user_id, date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": date, "weightKG": weightKG})
	if err != nil {
		return weightEntry{}, nil, err
	}
	if !applyToProfile {
		return entry, nil, nil
	}

	p := reweighProfile(current, weightKG)
	saved, err := upsertProfile(ctx, db, userID, p, estimateProfile(p).Targets)
	if err != nil {
		return weightEntry{}, nil, err
	}
	return entry, &saved, nil
}

// reweighProfile returns the pipeline input of a stored profile with a new weight.
func reweighProfile(current userProfile, weightKG float64) formula.Profile {
	p := current.formulaProfile()
	p.WeightKG = weightKG
	return p
}

// validWeightKG bounds weigh-ins to what the estimation pipeline accepts.
func validWeightKG(kg float64) bool {
	return kg > 0 && kg <= formula.MaxWeightKG
}

// updateWeightEntry partially updates an existing weight entry.
// PUT /api/weight-log/:id. Body: { "date"?, "weight_kg"? }.
// Uses COALESCE so omitted fields keep their current values.
func (h *Handler) updateWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Date     *string  `json:"date"`
		WeightKG *float64 `json:"weight_kg"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date != nil {
		if _, err := time.Parse("2006-01-02", *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	if body.WeightKG != nil && !validWeightKG(*body.WeightKG) {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 0 and 500")
		return
	}

	entry, err := queryOne[weightEntry](h.db, c,
		`UPDATE weight_log SET
			date      = COALESCE(@date, date),
			weight_kg = COALESCE(@weightKG, weight_kg)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "date": body.Date, "weightKG": body.WeightKG})
	if err != nil {
		// Distinguish a missing row from a real DB failure so callers get an
		// actionable status code rather than a misleading 404.
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "weight entry not found")
		} else if isUniqueViolation(err) {
			apiError(c, http.StatusConflict, "a weight entry already exists for that date")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update weight entry")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
