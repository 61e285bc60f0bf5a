package rulesetfile

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/sonarprep/sonarprep/internal/domain"
)

// Document constants of the FxCop ruleset format the downstream analyzer
// consumes. The shape is an external contract; identifiers are the only
// variable part.
const (
	rulesetName        = "SonarQube"
	rulesetDescription = "This rule set was automatically generated from SonarQube"
	toolsVersion       = "14.0"
	analyzerID         = "Microsoft.Analyzers.ManagedCodeAnalysis"
	ruleNamespace      = "Microsoft.Rules.Managed"
	ruleAction         = "Warning"
)

// Writer emits FxCop-compatible ruleset documents and implements
// domain.RulesetWriter.
type Writer struct{}

func New() *Writer {
	return &Writer{}
}

type ruleSet struct {
	XMLName      xml.Name `xml:"RuleSet"`
	Name         string   `xml:"Name,attr"`
	Description  string   `xml:"Description,attr"`
	ToolsVersion string   `xml:"ToolsVersion,attr"`
	Rules        rules    `xml:"Rules"`
}

type rules struct {
	AnalyzerID    string `xml:"AnalyzerId,attr"`
	RuleNamespace string `xml:"RuleNamespace,attr"`
	Rules         []rule `xml:"Rule"`
}

type rule struct {
	ID     string `xml:"Id,attr"`
	Action string `xml:"Action,attr"`
}

// Render produces the ruleset document with the identifiers in input
// order, unsorted and undeduplicated.
func (w *Writer) Render(ruleIDs []string) ([]byte, error) {
	rs := ruleSet{
		Name:         rulesetName,
		Description:  rulesetDescription,
		ToolsVersion: toolsVersion,
		Rules: rules{
			AnalyzerID:    analyzerID,
			RuleNamespace: ruleNamespace,
		},
	}
	for _, id := range ruleIDs {
		rs.Rules.Rules = append(rs.Rules.Rules, rule{ID: id, Action: ruleAction})
	}

	body, err := xml.MarshalIndent(rs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering ruleset: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Write renders and persists the document at path.
func (w *Writer) Write(path string, ruleIDs []string) error {
	if err := domain.RequireNonBlank("path", path); err != nil {
		return err
	}
	doc, err := w.Render(ruleIDs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return fmt.Errorf("writing ruleset %s: %w", path, err)
	}
	return nil
}
