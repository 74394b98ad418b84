package game

import "strings"

// AnswerCorrect compares a submitted answer against a question's stored
// answer. Open questions are trimmed and compared case-insensitively;
// multiple-choice options must match exactly.
func AnswerCorrect(q QuizQuestion, answer string) bool {
	switch q.Type {
	case QuestionOpen:
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
	default:
		return answer == q.CorrectAnswer
	}
}

// Score grades a full answer set against the quiz, answers aligned by
// question index. Missing answers score nothing; extra answers are ignored.
func Score(questions []QuizQuestion, answers []string) int {
	total := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if AnswerCorrect(q, answers[i]) {
			total += q.Points
		}
	}
	return total
}

// MaxScore is the sum of all question point values.
func MaxScore(questions []QuizQuestion) int {
	total := 0
	for _, q := range questions {
		total += q.Points
	}
	return total
}

// AnswersComplete reports whether every question has a non-empty answer,
// the gate the captain's submit button enforces.
func AnswersComplete(questions []QuizQuestion, answers []string) bool {
	if len(answers) < len(questions) {
		return false
	}
	for i := range questions {
		if strings.TrimSpace(answers[i]) == "" {
			return false
		}
	}
	return true
}
