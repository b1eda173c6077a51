package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"

	"swingplanner/internal/domain"
)

// PlanDocument is the JSON shape of a rendered plan.
type PlanDocument struct {
	Symbol string      `json:"symbol,omitempty"`
	Plan   domain.Plan `json:"plan"`
}

// WriteJSON writes the plan as indented JSON.
func WriteJSON(w io.Writer, symbol string, plan domain.Plan) error {
	return writePretty(w, PlanDocument{Symbol: symbol, Plan: plan})
}

// WriteAnalysisJSON writes a ticker analysis as indented JSON.
func WriteAnalysisJSON(w io.Writer, a *domain.AnalysisResult) error {
	return writePretty(w, a)
}

func writePretty(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}
