package services

import (
	"fmt"
	"strings"

	"github.com/kidwell/api-backend/internal/models"
)

// SystemDirective establishes the assistant's role for every advice request
const SystemDirective = "You are a professional child-health advisor. " +
	"Based on the daily log a parent provides, give practical, age-appropriate and encouraging advice " +
	"about the child's diet, exercise and sleep. Do not make diagnoses."

// closingInstruction is the fixed fourth section of every prompt
const closingInstruction = `4. Analysis requested
Please analyze the information above and provide:
1) Dietary nutrition: is the diet balanced and nutritious?
2) Exercise: are the intensity and duration appropriate?
3) Sleep: how is the sleep quality?
4) Overall: combined recommendations for the child's health.`

// sectionSeparator joins prompt sections
const sectionSeparator = "\n\n"

// ComposePrompt renders a record into the system directive and the user prompt.
// The output depends only on the record, so identical records give identical prompts.
func ComposePrompt(rec models.HealthRecord) (systemDirective string, userPrompt string) {
	sections := PromptSections(rec)
	return SystemDirective, "Here is my child's health log for today:" + sectionSeparator + strings.Join(sections[:], sectionSeparator)
}

// PromptSections renders the four labeled sections in order: diet, exercise, sleep, closing instruction
func PromptSections(rec models.HealthRecord) [4]string {
	return [4]string{
		dietSection(rec),
		exerciseSection(rec.Exercise),
		sleepSection(rec.Sleep),
		closingInstruction,
	}
}

func dietSection(rec models.HealthRecord) string {
	return fmt.Sprintf("1. Diet\n- Breakfast: %s\n- Lunch: %s\n- Dinner: %s",
		rec.Meal(models.MealBreakfast).Description,
		rec.Meal(models.MealLunch).Description,
		rec.Meal(models.MealDinner).Description,
	)
}

func exerciseSection(e models.ExerciseEntry) string {
	return fmt.Sprintf("2. Exercise\n- Type: %s\n- Duration: %s minutes\n- Description: %s",
		e.Type, e.DurationMinutes, e.Description)
}

func sleepSection(s models.SleepEntry) string {
	return fmt.Sprintf("3. Sleep\n- Bedtime: %s\n- Wake-up time: %s\n- Total sleep: %s hours",
		s.StartTime, s.EndTime, s.TotalHours)
}
