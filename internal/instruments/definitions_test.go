package instruments

import (
	"errors"
	"testing"

	"clinscore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionValues(q models.Question) []int {
	var out []int
	for _, o := range q.Options {
		out = append(out, o.Value)
	}
	return out
}

func TestQuestionSetShapes(t *testing.T) {
	tests := []struct {
		id           string
		count        int
		instructions bool
	}{
		{"audit", 10, false},
		{"bprs", 18, true},
		{"epds", 10, false},
		{"gad7", 7, false},
		{"mdq", 15, true},
		{"moca", 13, false},
		{"pcl5", 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			qs, err := Questions(tt.id)
			require.NoError(t, err)
			assert.Len(t, qs, tt.count)

			for i, q := range qs {
				assert.Equal(t, i+1, q.ID, "question ids are 1-based positions")
				assert.NotEmpty(t, q.Text)
				assert.NotEmpty(t, q.Options)
			}

			text, err := Instructions(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.instructions, text != "")
		})
	}
}

func TestAuditOptionSteps(t *testing.T) {
	qs, err := Questions("audit")
	require.NoError(t, err)
	for _, q := range qs[:8] {
		assert.Equal(t, []int{0, 1, 2, 3, 4}, optionValues(q))
	}
	assert.Equal(t, []int{0, 2, 4}, optionValues(qs[8]))
	assert.Equal(t, []int{0, 2, 4}, optionValues(qs[9]))
}

func TestBPRSRange(t *testing.T) {
	qs, err := Questions("bprs")
	require.NoError(t, err)
	for _, q := range qs {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, optionValues(q))
		assert.NotEmpty(t, q.Note)
	}
}

func TestEPDSCriticalItem(t *testing.T) {
	qs, err := Questions("epds")
	require.NoError(t, err)
	last := qs[9]
	assert.Equal(t, 10, last.ID)
	assert.Contains(t, last.Text, "harming myself")
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, optionValues(last))
}

func TestMDQItems(t *testing.T) {
	qs, err := Questions("mdq")
	require.NoError(t, err)
	for _, q := range qs[:14] {
		assert.Equal(t, []int{0, 1}, optionValues(q))
	}
	assert.Equal(t, []int{0, 1, 2, 3}, optionValues(qs[14]))
}

func TestMoCADomains(t *testing.T) {
	qs, err := Questions("moca")
	require.NoError(t, err)

	caps := map[string]int{}
	for _, q := range qs {
		require.NotEmpty(t, q.Domain)
		if q.IsMulti() {
			for _, o := range q.Options {
				caps[q.Domain] += o.Value
			}
			continue
		}
		best := 0
		for _, o := range q.Options {
			if o.Value > best {
				best = o.Value
			}
		}
		caps[q.Domain] += best
	}

	assert.Equal(t, map[string]int{
		"education":              1,
		"visuospatial_executive": 5,
		"naming":                 3,
		"attention":              6,
		"language":               3,
		"abstraction":            2,
		"delayed_recall":         5,
		"orientation":            6,
	}, caps)

	naming := qs[4]
	assert.True(t, naming.IsMulti())
	idx, ok := naming.OptionIndex("camel")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestPCL5Range(t *testing.T) {
	qs, err := Questions("pcl5")
	require.NoError(t, err)
	for _, q := range qs {
		assert.Equal(t, []int{0, 1, 2, 3, 4}, optionValues(q))
		assert.Equal(t, models.SingleSelect, q.Mode)
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	qs, err := Questions("gad7")
	require.NoError(t, err)
	qs[0].Text = "changed"
	qs[0].Options[0].Value = 99

	again, err := Questions("gad7")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Text)
	assert.Equal(t, 0, again[0].Options[0].Value)
}

func TestQuestionsUnknown(t *testing.T) {
	_, err := Questions("nope")
	var unknown *UnknownInstrumentError
	assert.True(t, errors.As(err, &unknown))

	_, err = Instructions("nope")
	assert.True(t, errors.As(err, &unknown))
}
