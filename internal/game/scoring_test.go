package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuiz() []QuizQuestion {
	return []QuizQuestion{
		{ID: "q1", Question: "Capital of the Netherlands?", Type: QuestionOpen, CorrectAnswer: "Amsterdam", Points: 10},
		{ID: "q2", Question: "Pick one", Type: QuestionMultipleChoice, Options: []string{"A", "B", "C"}, CorrectAnswer: "B", Points: 5},
		{ID: "q3", Question: "2+2?", Type: QuestionOpen, CorrectAnswer: "4", Points: 3},
	}
}

func TestOpenAnswersCompareTrimmedCaseInsensitive(t *testing.T) {
	q := sampleQuiz()[0]

	assert.True(t, AnswerCorrect(q, "Amsterdam"))
	assert.True(t, AnswerCorrect(q, " amsterdam "))
	assert.True(t, AnswerCorrect(q, "AMSTERDAM"))
	assert.False(t, AnswerCorrect(q, "Rotterdam"))
}

func TestMultipleChoiceComparesExactly(t *testing.T) {
	q := sampleQuiz()[1]

	assert.True(t, AnswerCorrect(q, "B"))
	assert.False(t, AnswerCorrect(q, "b"))
	assert.False(t, AnswerCorrect(q, " B"))
}

func TestScoreSumsPointsOfCorrectAnswers(t *testing.T) {
	quiz := sampleQuiz()

	assert.Equal(t, 18, Score(quiz, []string{" amsterdam ", "B", "4"}))
	assert.Equal(t, 13, Score(quiz, []string{"Amsterdam", "b", "4"}))
	assert.Equal(t, 0, Score(quiz, []string{"", "", ""}))
}

func TestScoreToleratesShortOrLongAnswerSets(t *testing.T) {
	quiz := sampleQuiz()

	assert.Equal(t, 10, Score(quiz, []string{"Amsterdam"}))
	assert.Equal(t, 18, Score(quiz, []string{"Amsterdam", "B", "4", "extra"}))
	assert.Equal(t, 0, Score(quiz, nil))
}

func TestMaxScore(t *testing.T) {
	require.Equal(t, 18, MaxScore(sampleQuiz()))
}

func TestAnswersComplete(t *testing.T) {
	quiz := sampleQuiz()

	assert.True(t, AnswersComplete(quiz, []string{"a", "b", "c"}))
	assert.False(t, AnswersComplete(quiz, []string{"a", "b"}))
	assert.False(t, AnswersComplete(quiz, []string{"a", "  ", "c"}))
	assert.True(t, AnswersComplete(nil, nil))
}
