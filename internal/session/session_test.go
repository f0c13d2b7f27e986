package session

import (
	"errors"
	"testing"

	"clinscore/internal/instruments"
	"clinscore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartInitialStep(t *testing.T) {
	tests := []struct {
		id       string
		wantKind StepKind
		steps    int
	}{
		{"audit", StepQuestion, 10},
		{"bprs", StepInstructions, 19},
		{"epds", StepQuestion, 10},
		{"gad7", StepQuestion, 7},
		{"mdq", StepInstructions, 16},
		{"moca", StepQuestion, 13},
		{"pcl5", StepInstructions, 21},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := Start(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, s.Current().Kind)
			assert.Equal(t, 0, s.StepIndex())
			assert.Equal(t, tt.steps, s.TotalSteps())
			assert.False(t, s.Completed())
			assert.Empty(t, s.Answers())
			assert.InDelta(t, 1/float64(tt.steps), s.Progress(), 1e-9)
		})
	}
}

func TestStartUnknown(t *testing.T) {
	_, err := Start("phq9")
	var unknown *instruments.UnknownInstrumentError
	assert.True(t, errors.As(err, &unknown))
}

func TestPCL5Gating(t *testing.T) {
	s, err := Start("pcl5")
	require.NoError(t, err)

	require.NoError(t, s.Advance(), "instructions advance unconditionally")
	step := s.Current()
	require.Equal(t, StepQuestion, step.Kind)
	assert.Equal(t, 1, step.Question.ID)

	err = s.Advance()
	var required *AnswerRequiredError
	require.True(t, errors.As(err, &required))
	assert.Equal(t, 1, required.QuestionID)
	assert.Equal(t, "pcl5", required.InstrumentID)
	assert.Equal(t, 1, s.StepIndex(), "failed advance keeps the step")

	require.True(t, s.Answer(1, 3))
	require.NoError(t, s.Advance())
	assert.Equal(t, 2, s.Current().Question.ID)
}

func TestAnswerOnlyCurrentQuestion(t *testing.T) {
	s, err := Start("gad7")
	require.NoError(t, err)

	assert.False(t, s.Answer(2, 1), "not the current question")
	assert.False(t, s.Answer(1, 9), "not an option value")
	assert.Empty(t, s.Answers())

	assert.True(t, s.Answer(1, 1))
	assert.True(t, s.Answer(1, 3), "single-select overwrites")
	assert.Equal(t, models.Answers{1: {Value: 3}}, s.Answers())
	assert.Equal(t, 0, s.StepIndex(), "answering doesn't advance")
}

func TestAnswerOnInstructionsIgnored(t *testing.T) {
	s, err := Start("mdq")
	require.NoError(t, err)
	assert.False(t, s.Answer(1, 1))
	assert.Empty(t, s.Answers())
}

func TestMultiSelectToggle(t *testing.T) {
	s, err := Start("moca")
	require.NoError(t, err)

	for id := 1; id <= 4; id++ {
		q := s.Current().Question
		require.NotNil(t, q)
		require.True(t, s.Answer(id, q.Options[0].Value))
		require.NoError(t, s.Advance())
	}

	naming := s.Current().Question
	require.NotNil(t, naming)
	require.True(t, naming.IsMulti())
	lion, _ := naming.OptionIndex("lion")
	rhino, _ := naming.OptionIndex("rhinoceros")
	camel, _ := naming.OptionIndex("camel")

	assert.True(t, s.Answer(naming.ID, camel))
	assert.True(t, s.Answer(naming.ID, lion))
	assert.True(t, s.Answer(naming.ID, rhino))
	assert.True(t, s.Answer(naming.ID, rhino), "second tick toggles off")
	assert.False(t, s.Answer(naming.ID, 3), "index out of range")

	assert.Equal(t, []int{lion, camel}, s.Answers()[naming.ID].Selected)

	res, _, err := s.Result()
	require.NoError(t, err)
	got, _ := res.Domain("naming")
	assert.Equal(t, 2, got)
}

func TestMultiSelectEmptiedStillAnswered(t *testing.T) {
	s, err := Start("moca")
	require.NoError(t, err)
	for id := 1; id <= 4; id++ {
		require.True(t, s.Answer(id, 0))
		require.NoError(t, s.Advance())
	}
	require.True(t, s.Answer(5, 0))
	require.True(t, s.Answer(5, 0))
	assert.NoError(t, s.Advance())
}

func TestRetreat(t *testing.T) {
	s, err := Start("pcl5")
	require.NoError(t, err)

	s.Retreat()
	assert.Equal(t, 0, s.StepIndex(), "no-op at the first step")

	require.NoError(t, s.Advance())
	require.True(t, s.Answer(1, 2))
	require.NoError(t, s.Advance())
	assert.Equal(t, 2, s.StepIndex())

	s.Retreat()
	assert.Equal(t, 1, s.StepIndex())
	assert.Equal(t, models.Answers{1: {Value: 2}}, s.Answers(), "answers survive navigation")

	s.Retreat()
	assert.Equal(t, StepInstructions, s.Current().Kind)
}

func completeGAD7(t *testing.T, value int) *Session {
	t.Helper()
	s, err := Start("gad7")
	require.NoError(t, err)
	for id := 1; id <= 7; id++ {
		require.True(t, s.Answer(id, value))
		require.NoError(t, s.Advance())
	}
	return s
}

func TestCompletionIsTerminal(t *testing.T) {
	s := completeGAD7(t, 2)

	assert.True(t, s.Completed())
	assert.Equal(t, StepResults, s.Current().Kind)
	assert.Equal(t, 1.0, s.Progress())

	before := s.Answers()
	assert.NoError(t, s.Advance())
	s.Retreat()
	assert.False(t, s.Answer(7, 0))
	assert.True(t, s.Completed())
	assert.Equal(t, 7, s.StepIndex())
	assert.Equal(t, before, s.Answers())

	res, interp, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 14, res.Total)
	assert.Equal(t, "Moderate Anxiety", interp.Level)
}

func TestResetMatchesFreshStart(t *testing.T) {
	for _, id := range []string{"gad7", "mdq", "moca"} {
		t.Run(id, func(t *testing.T) {
			fresh, err := Start(id)
			require.NoError(t, err)

			s, err := Start(id)
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				step := s.Current()
				if step.Kind == StepQuestion {
					if step.Question.IsMulti() {
						s.Answer(step.Question.ID, 0)
					} else {
						s.Answer(step.Question.ID, step.Question.Options[0].Value)
					}
				}
				require.NoError(t, s.Advance())
			}
			s.Retreat()

			s.Reset()
			assert.Equal(t, fresh, s)
			assert.Equal(t, fresh.Current(), s.Current())
		})
	}
}

func TestResetAfterCompletion(t *testing.T) {
	s := completeGAD7(t, 1)
	s.Reset()
	fresh, err := Start("gad7")
	require.NoError(t, err)
	assert.Equal(t, fresh, s)
}

func TestAnswersReturnsCopy(t *testing.T) {
	s, err := Start("gad7")
	require.NoError(t, err)
	require.True(t, s.Answer(1, 2))
	got := s.Answers()
	got[1] = models.Answer{Value: 0}
	assert.Equal(t, 2, s.Answers()[1].Value)
}

func TestProgress(t *testing.T) {
	s, err := Start("pcl5")
	require.NoError(t, err)
	assert.InDelta(t, 1.0/21, s.Progress(), 1e-9)
	require.NoError(t, s.Advance())
	assert.InDelta(t, 2.0/21, s.Progress(), 1e-9)
}
