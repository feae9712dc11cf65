package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/conon21154/lineguide/internal/model"
)

const (
	resultSheet  = "연락처_검색_결과"
	summarySheet = "요약"
	outageSheet  = "정전_매핑"
	unknownValue = "확인불가"
)

type column struct {
	header string
	width  float64
}

var resultColumns = []column{
	{"순번", 8},
	{"시도", 12},
	{"구", 12},
	{"동", 15},
	{"번지", 15},
	{"전체주소", 35},
	{"추가정보", 25},
	{"상태", 10},
	{"업체명", 20},
	{"전화번호", 15},
	{"카테고리", 20},
	{"오류내용", 25},
	{"매칭타입", 14},
}

var outageColumns = []column{
	{"일자", 12},
	{"요일", 8},
	{"시간", 14},
	{"고객명", 25},
	{"실제주소", 40},
	{"전화번호", 16},
	{"총장비수", 10},
	{"매칭방법", 14},
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateJob renders a job's records plus a summary sheet.
func (g *Generator) GenerateJob(job model.Job, records []model.AddressRecord) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", resultSheet)
	if err := writeHeader(file, resultSheet, resultColumns); err != nil {
		return nil, err
	}

	for i, record := range records {
		row := i + 2
		values := []interface{}{
			record.ID,
			record.City,
			record.District,
			record.Neighborhood,
			record.Lot,
			record.FullAddress,
			record.ExtraInfo,
			statusLabel(record.Status),
			record.ResolvedPlaceName,
			record.ResolvedPhone,
			record.Category,
			record.Error,
			string(record.MatchType),
		}
		if err := writeRow(file, resultSheet, row, values); err != nil {
			return nil, err
		}
	}

	if _, err := file.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, summarySheet, job)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, job model.Job) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	progress := job.Progress()
	set("A1", "작업 ID")
	set("B1", job.ID.String())
	set("A2", "상태")
	set("B2", string(job.Status))
	set("A3", "전체")
	set("B3", job.Total)
	set("A4", "처리")
	set("B4", job.Processed)
	set("A5", "성공")
	set("B5", job.Succeeded)
	set("A6", "실패")
	set("B6", job.Failed)
	set("A7", "제외된 행")
	set("B7", job.Dropped)
	set("A8", "진행률")
	set("B8", fmt.Sprintf("%d%%", progress.Percent))
	set("A9", "생성일시")
	set("B9", formatDateTime(job.CreatedAt))
	set("A10", "완료일시")
	set("B10", formatTimePtr(job.FinishedAt))

	_ = file.SetColWidth(sheet, "A", "A", 16)
	_ = file.SetColWidth(sheet, "B", "B", 40)
}

// GenerateOutage renders outage-target mappings.
func (g *Generator) GenerateOutage(mappings []model.OutageMapping) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", outageSheet)
	if err := writeHeader(file, outageSheet, outageColumns); err != nil {
		return nil, err
	}

	for i, m := range mappings {
		values := []interface{}{
			m.Target.Date,
			m.Target.Weekday,
			m.Target.Time,
			m.Target.CustomerName,
			orUnknown(m.Address),
			orUnknown(m.Phone),
			formatCount(m.EquipmentCount),
			string(m.MatchMethod),
		}
		if err := writeRow(file, outageSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(file *excelize.File, sheet string, columns []column) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = file.SetCellValue(sheet, cell, col.header)

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		_ = file.SetColWidth(sheet, name, name, col.width)
	}

	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	return file.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(file *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return file.SetSheetRow(sheet, cell, &values)
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

func orUnknown(value string) string {
	if value == "" {
		return unknownValue
	}
	return value
}

func formatCount(count *int) interface{} {
	if count == nil {
		return unknownValue
	}
	return *count
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDateTime(*t)
}
