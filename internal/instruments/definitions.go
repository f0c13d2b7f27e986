package instruments

import (
	"embed"
	"fmt"
	"path"

	"clinscore/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed definitions/*.yaml
var definitionFS embed.FS

// order is the stable catalog order.
var order = []string{"audit", "bprs", "epds", "gad7", "mdq", "moca", "pcl5"}

// definition is the on-disk shape of one instrument file. Questions that
// carry no options of their own use the file-level Options.
type definition struct {
	models.Instrument `yaml:",inline"`
	Instructions      string            `yaml:"instructions"`
	Options           []models.Option   `yaml:"options"`
	Questions         []models.Question `yaml:"questions"`
}

var registry = mustLoad()

func mustLoad() map[string]*definition {
	defs, err := load()
	if err != nil {
		panic(err)
	}
	return defs
}

func load() (map[string]*definition, error) {
	defs := make(map[string]*definition, len(order))
	for _, id := range order {
		def, err := parseDefinition(path.Join("definitions", id+".yaml"))
		if err != nil {
			return nil, err
		}
		if def.ID != id {
			return nil, fmt.Errorf("definition %s declares id %q", id, def.ID)
		}
		defs[id] = def
	}
	return defs, nil
}

// parseDefinition reads one embedded instrument file and fills in defaults.
func parseDefinition(name string) (*definition, error) {
	data, err := definitionFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read instrument file: %w", err)
	}

	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instrument %s: %w", name, err)
	}

	seen := make(map[int]bool, len(def.Questions))
	for i := range def.Questions {
		q := &def.Questions[i]
		if seen[q.ID] {
			return nil, fmt.Errorf("instrument %s: duplicate question id %d", def.ID, q.ID)
		}
		seen[q.ID] = true
		if q.Mode == "" {
			q.Mode = models.SingleSelect
		}
		if len(q.Options) == 0 {
			q.Options = append([]models.Option(nil), def.Options...)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("instrument %s: question %d has no options", def.ID, q.ID)
		}
	}
	def.QuestionCount = len(def.Questions)
	return &def, nil
}

func lookup(id string) (*definition, error) {
	def, ok := registry[id]
	if !ok {
		return nil, &UnknownInstrumentError{ID: id}
	}
	return def, nil
}

// Questions returns the ordered question set of an instrument.
func Questions(id string) ([]models.Question, error) {
	def, err := lookup(id)
	if err != nil {
		return nil, err
	}
	out := make([]models.Question, len(def.Questions))
	for i, q := range def.Questions {
		q.Options = append([]models.Option(nil), q.Options...)
		out[i] = q
	}
	return out, nil
}

// Instructions returns the text of the instructions-only step, or "" when
// the instrument starts directly with its first question.
func Instructions(id string) (string, error) {
	def, err := lookup(id)
	if err != nil {
		return "", err
	}
	return def.Instructions, nil
}
