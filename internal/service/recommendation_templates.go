package service

import (
	"fmt"

	"burnout-assess/internal/domain"
)

// templateRecommendations devuelve el set fijo por nivel (tier 2).
func templateRecommendations(level domain.Level) []domain.Recommendation {
	switch level {
	case domain.LevelLow:
		return []domain.Recommendation{
			{
				Title:       "Continue Healthy Habits",
				Description: "Keep up your current routines that support work-life balance.",
				Rationale:   "Prevention is key to maintaining low stress levels.",
				Timeframe:   "Continue ongoing",
				Priority:    "low",
			},
			{
				Title:       "Regular Self-Check-ins",
				Description: "Schedule monthly assessments of your stress levels and workload.",
				Rationale:   "Early detection prevents burnout progression.",
				Timeframe:   "Monthly",
				Priority:    "medium",
			},
			{
				Title:       "Build Resilience",
				Description: "Develop skills like mindfulness and time management.",
				Rationale:   "Strong coping mechanisms protect against future stress.",
				Timeframe:   "Next 2-3 months",
				Priority:    "medium",
			},
		}
	case domain.LevelHigh:
		return []domain.Recommendation{
			{
				Title:       "Establish Firm Work Boundaries",
				Description: "Set non-negotiable work hours and completely stop weekend work to reclaim personal time.",
				Rationale:   "Directly addresses work-life imbalance and prevents constant work spillover.",
				Timeframe:   "Starting today",
				Priority:    "critical",
			},
			{
				Title:       "Address Workload and Deadlines",
				Description: "Have an urgent meeting with your manager about reducing context switching and extending unrealistic deadlines.",
				Rationale:   "Targets the chaotic workload and multiple urgent deadlines causing overwhelm.",
				Timeframe:   "This week",
				Priority:    "critical",
			},
			{
				Title:       "Seek Professional Support",
				Description: "Consult with a mental health professional for exhaustion and coping strategies.",
				Rationale:   "Addresses the daily exhaustion and feeling of being completely drained.",
				Timeframe:   "Within 1 week",
				Priority:    "high",
			},
			{
				Title:       "Take Recovery Time Off",
				Description: "Use sick leave for 3-5 days to completely disconnect and rest.",
				Rationale:   "Essential break from the overwhelming workload leading to mistakes.",
				Timeframe:   "As soon as possible",
				Priority:    "high",
			},
			{
				Title:       "Find External Meaning and Support",
				Description: "Engage in non-work activities and seek social support outside your team.",
				Rationale:   "Counters feelings of meaninglessness and lack of team support.",
				Timeframe:   "Starting this weekend",
				Priority:    "high",
			},
		}
	case domain.LevelModerate:
		return []domain.Recommendation{
			{
				Title:       "Set Clear Boundaries",
				Description: "Establish firm work hours and learn to say no to additional responsibilities.",
				Rationale:   "Prevents work overload and protects personal time.",
				Timeframe:   "Immediately",
				Priority:    "high",
			},
			{
				Title:       "Take Regular Breaks",
				Description: "Schedule 5-10 minute breaks every 2 hours during work.",
				Rationale:   "Prevents mental fatigue and maintains productivity.",
				Timeframe:   "Starting tomorrow",
				Priority:    "high",
			},
			{
				Title:       "Practice Stress Reduction",
				Description: "Incorporate daily mindfulness or deep breathing exercises.",
				Rationale:   "Reduces cortisol levels and improves mental clarity.",
				Timeframe:   "Daily, starting today",
				Priority:    "high",
			},
			{
				Title:       "Physical Activity",
				Description: "Aim for 30 minutes of moderate exercise 3-4 times per week.",
				Rationale:   "Releases endorphins and reduces stress hormones.",
				Timeframe:   "This week",
				Priority:    "medium",
			},
		}
	default:
		return nil
	}
}

// templateAnalysis arma el parrafo de analisis con el score como porcentaje.
func templateAnalysis(level domain.Level, score float64) string {
	pct := formatPercent(score)
	switch level {
	case domain.LevelLow:
		return "You're currently managing well with healthy stress levels. " +
			"Your responses indicate good work-life balance and effective coping strategies. " +
			"Continue these positive habits to maintain your well-being. " +
			fmt.Sprintf("With a burnout score of %s, you're in the healthy range.", pct)
	case domain.LevelHigh:
		return "You're experiencing significant burnout symptoms that require immediate attention. " +
			"Your responses indicate high stress levels, emotional exhaustion, and potential impact on your well-being. " +
			"Taking proactive steps for recovery is essential for your health and long-term productivity. " +
			fmt.Sprintf("Your burnout score of %s indicates high risk requiring immediate action and professional support.", pct)
	case domain.LevelModerate:
		return "You're showing early signs of burnout that need attention. " +
			"Your responses suggest increasing stress levels and some difficulty with work-life balance. " +
			"Implementing preventive measures now can help avoid more severe burnout. " +
			fmt.Sprintf("Your burnout score of %s indicates moderate risk that warrants proactive measures.", pct)
	default:
		return ""
	}
}

// formatPercent: 0.7 -> "70.0%".
func formatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// templatePayload es el default que se calcula antes de intentar el tier remoto.
// Un nivel invalido se rederiva del score.
func templatePayload(level domain.Level, score float64) domain.RecommendationPayload {
	if !level.Valid() {
		level = domain.LevelFromScore(score)
	}
	return domain.RecommendationPayload{
		Level:           level,
		Confidence:      defaultConfidence,
		Summary:         templateAnalysis(level, score),
		Recommendations: templateRecommendations(level),
	}
}
