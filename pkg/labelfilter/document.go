package labelfilter

import (
	"encoding/json"
	"fmt"
)

// ConfigFormatError reports a persisted configuration whose shape does
// not match the expected schema: a stage object without a "filters" key,
// or an action outside the recognized literals. It is the only error the
// engine ever raises; loading performs no partial recovery, so a failed
// load leaves no half-built pipeline behind.
type ConfigFormatError struct {
	// Stage is the name of the offending stage, when known.
	Stage string
	// Message describes the structural problem.
	Message string
}

func (e *ConfigFormatError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("could not load configuration: %s in stage %s", e.Message, e.Stage)
	}
	return fmt.Sprintf("could not load configuration: %s", e.Message)
}

// filterDocument is the wire shape of one filter. Enabled and Invert are
// pointers so absent fields can take their documented defaults (enabled
// true, invert false).
type filterDocument struct {
	Pattern string `json:"pattern"`
	Action  string `json:"action"`
	Enabled *bool  `json:"enabled,omitempty"`
	Invert  *bool  `json:"invert,omitempty"`
}

// stageDocument is the wire shape of one stage. Filters is a pointer so
// a missing "filters" key can be told apart from an empty list; the
// former is a format error.
type stageDocument struct {
	Name    string            `json:"name"`
	Filters *[]filterDocument `json:"filters"`
}

// document is the persisted configuration root.
type document struct {
	BlockerStages []stageDocument `json:"blocker_stages"`
	TargetStage   *stageDocument  `json:"target_stage"`
	SourceLabels  []string        `json:"source_labels,omitempty"`
}

// LoadDocument deserializes a persisted filter configuration into a new
// pipeline. Structural problems (missing "filters" key in a stage,
// unrecognized action literal, or malformed JSON) surface as
// *ConfigFormatError; nothing is partially applied.
func LoadDocument(data []byte) (*Pipeline, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigFormatError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return fromDocument(&doc)
}

func fromDocument(doc *document) (*Pipeline, error) {
	p := New()
	p.SetSourceLabels(doc.SourceLabels)

	for _, sd := range doc.BlockerStages {
		filters, err := loadStageFilters(sd)
		if err != nil {
			return nil, err
		}
		p.BlockerStages = append(p.BlockerStages, &Stage{
			Name:    sd.Name,
			Kind:    KindBlocker,
			Filters: filters,
		})
	}

	if doc.TargetStage != nil {
		filters, err := loadStageFilters(*doc.TargetStage)
		if err != nil {
			return nil, err
		}
		p.TargetStage = &Stage{
			Name:    doc.TargetStage.Name,
			Kind:    KindTarget,
			Filters: filters,
		}
	}

	return p, nil
}

func loadStageFilters(sd stageDocument) ([]Filter, error) {
	if sd.Filters == nil {
		return nil, &ConfigFormatError{Stage: sd.Name, Message: "missing filters field"}
	}

	filters := make([]Filter, 0, len(*sd.Filters))
	for _, fd := range *sd.Filters {
		action, err := ParseAction(fd.Action)
		if err != nil {
			return nil, &ConfigFormatError{Stage: sd.Name, Message: err.Error()}
		}

		f := Filter{
			Pattern: fd.Pattern,
			Action:  action,
			Enabled: true,
		}
		if fd.Enabled != nil {
			f.Enabled = *fd.Enabled
		}
		if fd.Invert != nil {
			f.Invert = *fd.Invert
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// MarshalDocument serializes the pipeline (stages, filters, and the
// current source labels) to the persisted JSON configuration format.
// Loading the result reconstructs an equivalent pipeline.
func (p *Pipeline) MarshalDocument() ([]byte, error) {
	doc := document{
		BlockerStages: make([]stageDocument, 0, len(p.BlockerStages)),
		SourceLabels:  p.sourceLabels,
	}

	for _, stage := range p.BlockerStages {
		doc.BlockerStages = append(doc.BlockerStages, stageToDocument(stage))
	}
	if p.TargetStage != nil {
		sd := stageToDocument(p.TargetStage)
		doc.TargetStage = &sd
	}

	return json.MarshalIndent(doc, "", "  ")
}

func stageToDocument(stage *Stage) stageDocument {
	filters := make([]filterDocument, 0, len(stage.Filters))
	for _, f := range stage.Filters {
		enabled := f.Enabled
		fd := filterDocument{
			Pattern: f.Pattern,
			Action:  string(f.Action),
			Enabled: &enabled,
		}
		if f.Invert {
			invert := f.Invert
			fd.Invert = &invert
		}
		filters = append(filters, fd)
	}
	return stageDocument{Name: stage.Name, Filters: &filters}
}
