// Package analysis summarizes comparison results and relates image
// properties to the saliency outcome.
package analysis

import (
	"fmt"
	"io"

	"github.com/kozaktomas/saliency-bias/internal/database"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary is the chosen-count report of one comparison.
type Summary struct {
	Group1       string  `json:"group1"`
	Group2       string  `json:"group2"`
	N1           int     `json:"n1"`
	N2           int     `json:"n2"`
	Discarded    int     `json:"discarded"`
	Samples      int     `json:"samples"`
	Ratio        float64 `json:"ratio"`
	RatioDefined bool    `json:"ratio_defined"`
}

// Summarize counts the chosen images of both groups. The ratio N1/N2 is left
// undefined when group 2 was never chosen.
func Summarize(r *database.ComparisonResult) Summary {
	s := Summary{
		Group1:    r.Group1.Name,
		Group2:    r.Group2.Name,
		N1:        len(r.Group1.Chosen),
		N2:        len(r.Group2.Chosen),
		Discarded: r.Discarded,
		Samples:   r.Samples,
	}
	if s.N2 > 0 {
		s.Ratio = float64(s.N1) / float64(s.N2)
		s.RatioDefined = true
	}
	return s
}

// RatioString formats the ratio with two decimals or "undefined".
func (s Summary) RatioString() string {
	if !s.RatioDefined {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", s.Ratio)
}

// Write prints the summary in the same layout for every command.
func (s Summary) Write(w io.Writer) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s: %d\n", s.Group1, s.N1)
	p.Fprintf(w, "%s: %d\n", s.Group2, s.N2)
	if s.Samples > 0 {
		p.Fprintf(w, "Discarded: %d of %d draws\n", s.Discarded, s.Samples)
	}
	fmt.Fprintf(w, "Ratio %s/%s: %s\n", s.Group1, s.Group2, s.RatioString())
}
