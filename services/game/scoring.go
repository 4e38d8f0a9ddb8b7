package game

import (
	"math"

	"passfailbot/models"
)

// Score is the rounded percentage of correct answers.
func Score(quiz *models.Quiz, answers []string) int {
	if quiz == nil || len(quiz.Questions) == 0 {
		return 0
	}

	correct := 0
	for i, q := range quiz.Questions {
		if i < len(answers) && answers[i] == q.Answer {
			correct++
		}
	}

	return int(math.Round(float64(correct) / float64(len(quiz.Questions)) * 100))
}

// Won reports whether a final score meets the target. The comparison is
// inclusive: hitting the target exactly is a win.
func Won(score, target int) bool {
	return score >= target
}

// Payout is the winnings credited on a win, fractional coins truncated.
// The bet was already deducted at start, so this includes the stake.
func Payout(bet, target int) int {
	return bet * (100 + target) / 100
}

// Review builds the read-only per-question breakdown shown after a result.
func Review(quiz *models.Quiz, answers []string) []models.ReviewItem {
	if quiz == nil {
		return nil
	}

	items := make([]models.ReviewItem, len(quiz.Questions))
	for i, q := range quiz.Questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		items[i] = models.ReviewItem{
			Question:   q.Question,
			UserAnswer: answer,
			Answer:     q.Answer,
			Correct:    answer == q.Answer,
		}
	}
	return items
}
