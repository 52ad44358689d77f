// Package results holds the view state for an analysis results page:
// collapsible phase and work-package sections plus a JSON export of the
// underlying analysis.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"wbsview/internal/analysis"
)

// ExportFilename is the fixed suggested name for the exported analysis.
const ExportFilename = "wbs_analysis_result.json"

// MsgNoExportData is the alert shown when export is invoked without an
// analysis in memory. The wording is part of the user contract.
const MsgNoExportData = "Нет данных для экспорта"

type SectionKind string

const (
	SectionPhase       SectionKind = "phase"
	SectionWorkPackage SectionKind = "work_package"
)

// Section is one collapsible header plus the content block after it.
// Sections start expanded.
type Section struct {
	Kind      SectionKind
	ID        string
	Title     string
	Collapsed bool
	Children  []*Section
}

// Alerter surfaces blocking user-facing messages.
type Alerter interface {
	Alert(msg string)
}

// Saver opens the transient sink an export is written to. The controller
// closes whatever Create returns, whether or not the write succeeded.
type Saver interface {
	Create(name string) (io.WriteCloser, error)
}

// Controller owns the section states for one results page.
type Controller struct {
	sections []*Section
	alerter  Alerter
	saver    Saver
}

// NewController builds the outline for the given analysis: a top-level
// section per phase with a child section per work package. A nil result
// yields an empty outline.
func NewController(result *analysis.Result, alerter Alerter, saver Saver) *Controller {
	return &Controller{
		sections: buildOutline(result),
		alerter:  alerter,
		saver:    saver,
	}
}

func buildOutline(result *analysis.Result) []*Section {
	if result == nil {
		return nil
	}
	sections := make([]*Section, 0, len(result.WBS.Phases))
	for _, phase := range result.WBS.Phases {
		phaseSection := &Section{
			Kind:     SectionPhase,
			ID:       phase.ID,
			Title:    phase.Name,
			Children: make([]*Section, 0, len(phase.WorkPackages)),
		}
		for _, wp := range phase.WorkPackages {
			phaseSection.Children = append(phaseSection.Children, &Section{
				Kind:  SectionWorkPackage,
				ID:    wp.ID,
				Title: wp.Name,
			})
		}
		sections = append(sections, phaseSection)
	}
	return sections
}

// Sections returns the top-level (phase) sections.
func (c *Controller) Sections() []*Section {
	return c.sections
}

// Toggle flips one section between expanded and collapsed. Toggling twice
// returns the section to its original state.
func (c *Controller) Toggle(s *Section) {
	s.Collapsed = !s.Collapsed
}

// CollapseAll collapses every expanded top-level section. Sections that are
// already collapsed are left untouched.
func (c *Controller) CollapseAll() {
	for _, s := range c.sections {
		if !s.Collapsed {
			s.Collapsed = true
		}
	}
}

// HandleKey dispatches a global key press. Escape collapses all top-level
// sections; every other key is ignored.
func (c *Controller) HandleKey(key string) {
	if key == "Escape" {
		c.CollapseAll()
	}
}

// Export serializes the analysis to indented JSON and writes it through the
// saver under ExportFilename. A nil result raises exactly one alert and
// writes nothing; that path is not an error. The sink is always closed once
// created.
func (c *Controller) Export(result any) error {
	if result == nil {
		c.alerter.Alert(MsgNoExportData)
		return nil
	}
	data, err := MarshalIndent(result)
	if err != nil {
		return fmt.Errorf("serialize analysis: %w", err)
	}
	sink, err := c.saver.Create(ExportFilename)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	_, writeErr := sink.Write(data)
	closeErr := sink.Close()
	if writeErr != nil {
		return fmt.Errorf("write export: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close export: %w", closeErr)
	}
	return nil
}

// MarshalIndent renders the value with two-space indentation, no HTML
// escaping and no trailing newline.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
