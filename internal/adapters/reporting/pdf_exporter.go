// Package reporting renders an end-of-session PDF summarizing an
// orchestrator run: per-band bandit performance, the Bayesian
// optimizer's best-known timing parameters, and the capture tally.
package reporting

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/FadeVT/pwny-core/internal/core/services/bandit"
)

// SessionSummary is the data an orchestrator binary assembles at the
// end of a run (or at a periodic checkpoint) to hand to the exporter.
type SessionSummary struct {
	ID              string
	Mode            domain.Mode
	StartedAt       time.Time
	GeneratedAt     time.Time
	EpochsCompleted int
	BandStats       map[domain.Band]bandit.BandStats
	BestParams      map[string]float64
	BestReward      float64
	CapturedCount   int
	CapturedMACs    []string
}

// PDFExporter renders a SessionSummary to PDF bytes.
type PDFExporter struct{}

// NewPDFExporter constructs a PDFExporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export generates the session report PDF.
func (e *PDFExporter) Export(summary SessionSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, summary)
	e.addBandStats(pdf, summary)
	e.addOptimizerState(pdf, summary)
	e.addCaptures(pdf, summary)
	e.addFooter(pdf, summary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, summary SessionSummary) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 15, "Capture Session Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, fmt.Sprintf("Mode: %s", summary.Mode), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", summary.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	if !summary.StartedAt.IsZero() {
		pdf.CellFormat(0, 6, fmt.Sprintf("Session started: %s", summary.StartedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Epochs completed: %d", summary.EpochsCompleted), "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

func (e *PDFExporter) addBandStats(pdf *gofpdf.Fpdf, summary SessionSummary) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Channel Bandit: Per-Band Performance", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	bands := make([]domain.Band, 0, len(summary.BandStats))
	for b := range summary.BandStats {
		bands = append(bands, b)
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i] < bands[j] })

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(25, 8, "Band", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Channels", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Scans", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Successes", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Failures", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Success Rate", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for _, b := range bands {
		s := summary.BandStats[b]
		pdf.CellFormat(25, 7, string(b), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", s.Channels), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", s.TotalScans), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", s.Successes), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", s.Failures), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.1f%%", s.SuccessRate*100), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *PDFExporter) addOptimizerState(pdf *gofpdf.Fpdf, summary SessionSummary) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Bayesian Timing Optimizer", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(summary.BestParams) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "Optimizer disabled or no observations recorded yet", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7, fmt.Sprintf("Best reward: %.4f", summary.BestReward), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	names := make([]string, 0, len(summary.BestParams))
	for name := range summary.BestParams {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(70, 6, name+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(0, 102, 204)
		pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", summary.BestParams[name]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *PDFExporter) addCaptures(pdf *gofpdf.Fpdf, summary SessionSummary) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Captures", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total unique APs captured: %d", summary.CapturedCount), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(80, 80, 80)
	for i, mac := range summary.CapturedMACs {
		if i >= 40 {
			pdf.CellFormat(0, 5, fmt.Sprintf("... and %d more", len(summary.CapturedMACs)-40), "", 1, "L", false, 0, "")
			break
		}
		pdf.CellFormat(0, 5, "- "+mac, "", 1, "L", false, 0, "")
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, summary SessionSummary) {
	pdf.SetY(-20)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	footerText := "Generated by the orchestrator's epoch loop"
	if summary.ID != "" {
		id := summary.ID
		if len(id) > 8 {
			id = id[:8]
		}
		footerText += fmt.Sprintf(" | Report ID: %s", id)
	}
	pdf.CellFormat(0, 5, footerText, "", 1, "C", false, 0, "")
}
