package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/conon21154/lineguide/internal/model"
)

func TestGenerateJob(t *testing.T) {
	finished := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	job := model.Job{
		ID:         uuid.New(),
		Status:     model.JobStatusCompleted,
		Total:      2,
		Processed:  2,
		Succeeded:  1,
		Failed:     1,
		CreatedAt:  finished.Add(-time.Minute),
		FinishedAt: &finished,
	}
	records := []model.AddressRecord{
		{ID: 1, City: "부산", District: "동래구", Neighborhood: "온천동", Lot: "871-95", FullAddress: "부산 동래구 온천동 871-95",
			Status: model.AddressStatusSuccess, ResolvedPlaceName: "온천식당", ResolvedPhone: "051-111-2222", MatchType: model.MatchTypeExactLocation},
		{ID: 2, City: "울산", District: "남구", Neighborhood: "삼산동", FullAddress: "울산 남구 삼산동",
			Status: model.AddressStatusFailed, Error: "contact not found", MatchType: model.MatchTypeNone},
	}

	data, err := NewGenerator().GenerateJob(job, records)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{resultSheet, summarySheet}, file.GetSheetList())

	rows, err := file.GetRows(resultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "순번", rows[0][0])
	assert.Equal(t, "오류내용", rows[0][11])
	assert.Equal(t, "성공", rows[1][7])
	assert.Equal(t, "051-111-2222", rows[1][9])
	assert.Equal(t, "exact_location", rows[1][12])
	assert.Equal(t, "실패", rows[2][7])
	assert.Equal(t, "contact not found", rows[2][11])

	width, err := file.GetColWidth(resultSheet, "F")
	require.NoError(t, err)
	assert.Equal(t, 35.0, width)

	id, err := file.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, job.ID.String(), id)
	percent, err := file.GetCellValue(summarySheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, "100%", percent)
}

func TestGenerateOutage(t *testing.T) {
	count := 8
	mappings := []model.OutageMapping{
		{
			Target:         model.OutageTarget{Date: "2024-06-01", Weekday: "토", Time: "09:00~12:00", CustomerName: "온천식당"},
			Address:        "부산 동래구 온천동 871-95",
			Phone:          "051-111-2222",
			EquipmentCount: &count,
			MatchMethod:    model.EquipmentMatchExact,
		},
		{
			Target:      model.OutageTarget{CustomerName: "없는상호"},
			MatchMethod: model.EquipmentMatchNone,
		},
	}

	data, err := NewGenerator().GenerateOutage(mappings)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(outageSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-06-01", "토", "09:00~12:00", "온천식당", "부산 동래구 온천동 871-95", "051-111-2222", "8", "exact"}, rows[1])
	assert.Equal(t, unknownValue, rows[2][4])
	assert.Equal(t, unknownValue, rows[2][6])
	assert.Equal(t, "no-match", rows[2][7])
}
