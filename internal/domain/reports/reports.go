package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jung-kurt/gofpdf"
)

type EmployeeSummary struct {
	Name            string
	Department      string
	AverageScore    float64
	ScoreCount      int
	GoalsTotal      int
	GoalsCompleted  int
	GoalsInProgress int
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Summaries(ctx context.Context) ([]EmployeeSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.name,
           COALESCE(u.department, ''),
           COALESCE(AVG(ps.score), 0),
           COUNT(DISTINCT ps.id),
           COUNT(DISTINCT g.id),
           COUNT(DISTINCT g.id) FILTER (WHERE g.status = 'COMPLETED'),
           COUNT(DISTINCT g.id) FILTER (WHERE g.status = 'IN_PROGRESS')
    FROM users u
    LEFT JOIN performance_scores ps ON ps.employee_id = u.id
    LEFT JOIN goals g ON g.employee_id = u.id
    GROUP BY u.id, u.name, u.department
    ORDER BY u.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeSummary
	for rows.Next() {
		var es EmployeeSummary
		if err := rows.Scan(&es.Name, &es.Department, &es.AverageScore, &es.ScoreCount, &es.GoalsTotal, &es.GoalsCompleted, &es.GoalsInProgress); err != nil {
			return nil, err
		}
		out = append(out, es)
	}
	return out, rows.Err()
}

// PerformancePDF renders the per-employee summary table as a PDF for
// download from the admin surface.
func (s *Service) PerformancePDF(ctx context.Context) ([]byte, error) {
	summaries, err := s.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	return RenderPDF(summaries)
}

func RenderPDF(summaries []EmployeeSummary) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Performance Summary")
	pdf.Ln(12)

	headers := []string{"Employee", "Department", "Avg Score", "Scores", "Goals", "Completed", "In Progress"}
	widths := []float64{60, 50, 25, 25, 25, 30, 30}

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, es := range summaries {
		avg := "-"
		if es.ScoreCount > 0 {
			avg = fmt.Sprintf("%.2f", es.AverageScore)
		}
		cells := []string{
			es.Name,
			es.Department,
			avg,
			fmt.Sprintf("%d", es.ScoreCount),
			fmt.Sprintf("%d", es.GoalsTotal),
			fmt.Sprintf("%d", es.GoalsCompleted),
			fmt.Sprintf("%d", es.GoalsInProgress),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
