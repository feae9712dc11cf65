package equipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conon21154/lineguide/internal/model"
)

func TestCanonicalHeader(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "주소", want: "address"},
		{raw: "사업장 주소", want: "address"},
		{raw: "사업장\n주소", want: "address"},
		{raw: "설치 주소", want: "address"},
		{raw: "설치주소", want: "address"},
		{raw: "Address", want: "address"},
		{raw: "설치 대수", want: "count"},
		{raw: "장비\t수", want: "count"},
		{raw: "Installed Count", want: "count"},
		{raw: " 비고 ", want: "비고"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalHeader(tt.raw), tt.raw)
	}
}

func TestTableFromRows(t *testing.T) {
	header := []string{"번호", "사업장 주소", "장비수"}
	rows := [][]string{
		{"1", "부산 동래구 온천동 871-95", "5"},
		{"2", " ", "7"},
		{"3", "부산 동래구 온천동 871-95", "1,200"},
		{"4", "부산 동래구 명륜동 1", "n/a"},
		{"5", "부산 동래구 명륜동 2"},
		{"6", "부산 동래구 명륜동 3", "2.0"},
	}

	table, err := TableFromRows(header, rows)
	require.NoError(t, err)

	assert.Equal(t, []model.EquipmentRecord{
		{Address: "부산 동래구 온천동 871-95", EquipmentCount: 5},
		{Address: "부산 동래구 온천동 871-95", EquipmentCount: 1200},
		{Address: "부산 동래구 명륜동 1", EquipmentCount: 0},
		{Address: "부산 동래구 명륜동 2", EquipmentCount: 0},
		{Address: "부산 동래구 명륜동 3", EquipmentCount: 2},
	}, table.Records())
}

func TestTableFromRowsMissingColumn(t *testing.T) {
	_, err := TableFromRows([]string{"주소", "비고"}, nil)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = TableFromRows([]string{"이름", "장비수"}, nil)
	assert.ErrorIs(t, err, ErrMissingColumn)
}
