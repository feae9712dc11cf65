package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/conon21154/lineguide/internal/model"
)

var ErrFontMissing = errors.New("pdf font data is empty")

const rowsPerPage = 40

var (
	tableHeaders = []string{"순번", "전체주소", "상태", "업체명", "전화번호", "매칭타입"}
	colWidths    = []float64{14, 95, 18, 60, 36, 34}
)

// Generator renders job summaries. The font must carry Hangul glyphs.
type Generator struct {
	fontName string
	fontData []byte
}

func NewGenerator(fontData []byte) (*Generator, error) {
	if len(fontData) == 0 {
		return nil, ErrFontMissing
	}
	return &Generator{fontName: "Hangul", fontData: fontData}, nil
}

func (g *Generator) GenerateJob(job model.Job, records []model.AddressRecord) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 12)
	pdf.AddUTF8FontFromBytes(g.fontName, "", g.fontData)
	pdf.AddUTF8FontFromBytes(g.fontName, "B", g.fontData)

	pdf.AddPage()
	g.writeHeader(pdf, job)
	drawTableRow(pdf, g.fontName, tableHeaders, true)

	for i, record := range records {
		if i > 0 && i%rowsPerPage == 0 {
			pdf.AddPage()
			drawTableRow(pdf, g.fontName, tableHeaders, true)
		}
		drawTableRow(pdf, g.fontName, []string{
			fmt.Sprintf("%d", record.ID),
			record.FullAddress,
			statusLabel(record.Status),
			safeValue(record.ResolvedPlaceName),
			safeValue(record.ResolvedPhone),
			string(record.MatchType),
		}, false)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeHeader(pdf *gofpdf.Fpdf, job model.Job) {
	progress := job.Progress()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "연락처 검색 결과", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("작업 %s (%s)", job.ID, job.Status), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("전체 %d / 처리 %d / 성공 %d / 실패 %d (%d%%)",
		job.Total, job.Processed, job.Succeeded, job.Failed, progress.Percent), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("생성 %s, 완료 %s", formatDate(job.CreatedAt), formatTimePtr(job.FinishedAt)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 7)
	for i, col := range cols {
		align := "L"
		if i == 0 {
			align = "R"
		}
		pdf.CellFormat(colWidths[i], 3.6, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func statusLabel(status model.AddressStatus) string {
	switch status {
	case model.AddressStatusSuccess:
		return "성공"
	case model.AddressStatusFailed:
		return "실패"
	default:
		return "대기"
	}
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}
