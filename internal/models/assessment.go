// assessment.go
package models

// SelectionMode says how many options of a question may be chosen.
type SelectionMode string

const (
	SingleSelect SelectionMode = "single"
	MultiSelect  SelectionMode = "multi"
)

// Instrument is a catalog entry for a standardized questionnaire.
type Instrument struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Category      string `yaml:"category" json:"category"`
	Description   string `yaml:"description" json:"description"`
	QuestionCount int    `yaml:"-" json:"questionCount"`
}

// Question struct to match the YAML structure
type Question struct {
	ID       int           `yaml:"id" json:"id"`
	Text     string        `yaml:"text" json:"text"`
	Domain   string        `yaml:"domain,omitempty" json:"domain,omitempty"`
	Mode     SelectionMode `yaml:"mode,omitempty" json:"mode"`
	Options  []Option      `yaml:"options" json:"options"`
	Note     string        `yaml:"note,omitempty" json:"note,omitempty"`
	ImageRef string        `yaml:"image,omitempty" json:"imageRef,omitempty"`
}

// Option struct for question choices
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value int    `yaml:"value" json:"value"`
}

// IsMulti reports whether the question accepts several options.
func (q Question) IsMulti() bool {
	return q.Mode == MultiSelect
}

// HasValue reports whether v is the value of one of the question's options.
func (q Question) HasValue(v int) bool {
	for _, o := range q.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// OptionIndex returns the position of the option with the given label.
func (q Question) OptionIndex(label string) (int, bool) {
	for i, o := range q.Options {
		if o.Label == label {
			return i, true
		}
	}
	return -1, false
}

// Answer is the response recorded for one question. Single-select questions
// use Value; multi-select questions list the indices of the ticked options
// in Selected.
type Answer struct {
	Value    int   `json:"value"`
	Selected []int `json:"selected,omitempty"`
}

// Answers maps question id to the recorded answer.
type Answers map[int]Answer

// Clone returns a deep copy so callers can't reach into session state.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for id, ans := range a {
		if ans.Selected != nil {
			ans.Selected = append([]int(nil), ans.Selected...)
		}
		out[id] = ans
	}
	return out
}
