package cli

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"clinscore/internal/instruments"
	"clinscore/internal/models"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseAnswers(t *testing.T) {
	answers, err := parseAnswers("moca", []string{"1=1", "5=2,0,2", "13=6"})
	require.NoError(t, err)
	assert.Equal(t, models.Answer{Value: 1}, answers[1])
	assert.Equal(t, []int{0, 2}, answers[5].Selected)
	assert.Equal(t, models.Answer{Value: 6}, answers[13])

	answers, err = parseAnswers("moca", []string{"5="})
	require.NoError(t, err)
	assert.Equal(t, []int{}, answers[5].Selected)
}

func TestParseAnswersErrors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		rawAnswers []string
		want       string
	}{
		{"missing equals", "gad7", []string{"1"}, "expected"},
		{"bad question id", "gad7", []string{"x=1"}, "invalid question id"},
		{"unknown question", "gad7", []string{"99=1"}, "question 99: no such question"},
		{"bad value", "gad7", []string{"1=a"}, "invalid value"},
		{"value not an option", "gad7", []string{"1=4"}, "4 is not an option"},
		{"negative critical item", "epds", []string{"10=-1"}, "-1 is not an option"},
		{"index out of range", "moca", []string{"5=3"}, "no option 3"},
		{"unknown instrument", "phq9", []string{"1=1"}, "phq9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAnswers(tt.id, tt.rawAnswers)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInstrumentsCommand(t *testing.T) {
	out, err := execute(t, "instruments")
	require.NoError(t, err)
	for _, id := range []string{"audit", "bprs", "epds", "gad7", "mdq", "moca", "pcl5"} {
		assert.Contains(t, out, id)
	}

	out, err = execute(t, "instruments", "--category", "trauma")
	require.NoError(t, err)
	assert.Contains(t, out, "PCL-5")
	assert.NotContains(t, out, "GAD-7")

	out, err = execute(t, "instruments", "-q", "nothing-matches-this")
	require.NoError(t, err)
	assert.Contains(t, out, "No instruments match.")
}

func TestQuestionsCommand(t *testing.T) {
	out, err := execute(t, "questions", "gad7")
	require.NoError(t, err)
	assert.Contains(t, out, "GAD-7 (Anxiety)")
	assert.Contains(t, out, "1. Feeling nervous, anxious, or on edge")
	assert.Contains(t, out, "3 = Nearly every day")

	out, err = execute(t, "questions", "moca")
	require.NoError(t, err)
	assert.Contains(t, out, "[0]")

	_, err = execute(t, "questions", "phq9")
	assert.Error(t, err)
}

func TestScoreCommand(t *testing.T) {
	args := []string{"score", "gad7"}
	for i := 1; i <= 7; i++ {
		args = append(args, "-a", strconv.Itoa(i)+"=2")
	}
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Total:      14")
	assert.Contains(t, out, "Moderate Anxiety (moderate)")

	out, err = execute(t, "score", "epds", "-a", "10=2")
	require.NoError(t, err)
	assert.Contains(t, out, "Immediate Risk (critical)")
	assert.Contains(t, out, "critical_item_positive")

	_, err = execute(t, "score", "gad7", "-a", "1=9")
	var invalid *instruments.InvalidAnswerError
	require.True(t, errors.As(err, &invalid), "got %v", err)
	assert.Equal(t, 1, invalid.QuestionID)
}
