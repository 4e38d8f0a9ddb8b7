package services

import (
	"fmt"
	"sort"
	"strings"

	"passfailbot/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const (
	OptionCount  = 4
	MaxQuestions = 15
)

var padOptions = []string{"None of the above", "All of the above", "Not enough information", "Cannot be determined"}

// ValidateQuiz checks the shape invariants a provider quiz must satisfy:
// a non-empty question list capped at MaxQuestions, exactly OptionCount
// distinct options per question, and an answer that is one of the options.
func ValidateQuiz(quiz *models.Quiz) error {
	if quiz == nil || len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	if len(quiz.Questions) > MaxQuestions {
		return fmt.Errorf("quiz has %d questions, maximum is %d", len(quiz.Questions), MaxQuestions)
	}

	for i, q := range quiz.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d has empty text", i+1)
		}
		if len(q.Options) != OptionCount {
			return fmt.Errorf("question %d has %d options, expected %d", i+1, len(q.Options), OptionCount)
		}
		if len(lo.Uniq(q.Options)) != OptionCount {
			return fmt.Errorf("question %d has duplicate options", i+1)
		}
		if !lo.Contains(q.Options, q.Answer) {
			return fmt.Errorf("question %d answer is not among its options", i+1)
		}
	}

	return nil
}

// RepairQuiz coerces a provider quiz into a valid one: options are
// deduplicated, truncated or padded to OptionCount, an off-list answer is
// fuzzy-matched to the closest option (first option as a last resort), and
// the question count is capped. Questions with no usable text are dropped.
// An error means nothing usable survived and the caller should fall back.
func RepairQuiz(quiz *models.Quiz) (*models.Quiz, error) {
	if quiz == nil {
		return nil, fmt.Errorf("quiz is nil")
	}

	var repaired []models.Question
	for _, q := range quiz.Questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			continue
		}

		options := lo.Uniq(lo.FilterMap(q.Options, func(opt string, _ int) (string, bool) {
			trimmed := strings.TrimSpace(opt)
			return trimmed, trimmed != ""
		}))
		if len(options) == 0 {
			continue
		}
		if len(options) > OptionCount {
			options = options[:OptionCount]
		}
		for _, pad := range padOptions {
			if len(options) == OptionCount {
				break
			}
			if !lo.Contains(options, pad) {
				options = append(options, pad)
			}
		}

		answer := strings.TrimSpace(q.Answer)
		if !lo.Contains(options, answer) {
			answer = closestOption(answer, options)
		}

		repaired = append(repaired, models.Question{
			Question: text,
			Options:  options,
			Answer:   answer,
		})
		if len(repaired) == MaxQuestions {
			break
		}
	}

	if len(repaired) == 0 {
		return nil, fmt.Errorf("no usable questions after repair")
	}

	result := &models.Quiz{Questions: repaired}
	if err := ValidateQuiz(result); err != nil {
		return nil, fmt.Errorf("quiz still invalid after repair: %w", err)
	}
	return result, nil
}

// closestOption fuzzy-matches a stated answer against the options; when
// nothing ranks, the first option is substituted.
func closestOption(answer string, options []string) string {
	if answer != "" {
		ranks := fuzzy.RankFindNormalizedFold(answer, options)
		if len(ranks) > 0 {
			sort.Sort(ranks)
			return ranks[0].Target
		}
	}
	return options[0]
}

// FallbackQuiz is the fixed single-question quiz substituted when no
// provider can produce a valid structured result.
func FallbackQuiz() *models.Quiz {
	return &models.Quiz{
		Questions: []models.Question{
			{
				Question: "The quiz generator could not read your document. Free question instead: what does PDF stand for?",
				Options: []string{
					"Portable Document Format",
					"Printed Data File",
					"Public Document Folder",
					"Personal Draft Form",
				},
				Answer: "Portable Document Format",
			},
		},
	}
}
