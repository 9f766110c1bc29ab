package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitiscli/internal/shared/testutil"
	"vitiscli/pkg/contracts/domain"
)

func TestParseWide(t *testing.T) {
	tests := []struct {
		name string
		opts WideOptions
		want []domain.TradeRecord
	}{
		{
			name: "default window drops 2008",
			opts: DefaultWideOptions(),
			want: []domain.TradeRecord{
				{Category: "Paraguay", Year: 2009, Volume: 200, Value: 400},
				{Category: "Paraguay", Year: 2010, Volume: 300, Value: 660},
				{Category: "Russia", Year: 2009, Volume: 50, Value: 90},
				{Category: "Haiti", Year: 2010, Volume: 20, Value: 70},
			},
		},
		{
			name: "open window keeps every year with positive figures",
			opts: WideOptions{Comma: ';'},
			want: []domain.TradeRecord{
				{Category: "Paraguay", Year: 2008, Volume: 100, Value: 250},
				{Category: "Paraguay", Year: 2009, Volume: 200, Value: 400},
				{Category: "Paraguay", Year: 2010, Volume: 300, Value: 660},
				{Category: "Russia", Year: 2009, Volume: 50, Value: 90},
				{Category: "Haiti", Year: 2008, Volume: 10, Value: 30},
				{Category: "Haiti", Year: 2010, Volume: 20, Value: 70},
			},
		},
		{
			name: "single year window",
			opts: WideOptions{StartYear: 2010, EndYear: 2010},
			want: []domain.TradeRecord{
				{Category: "Paraguay", Year: 2010, Volume: 300, Value: 660},
				{Category: "Haiti", Year: 2010, Volume: 20, Value: 70},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWide(strings.NewReader(testutil.RawExportCSV), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWideHeaderVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		comma rune
		want  []domain.TradeRecord
	}{
		{
			name:  "byte order mark and suffixed years",
			input: "\uFEFFId;País;2009;2009.1\n1;Chile;10;20\n",
			want:  []domain.TradeRecord{{Category: "Chile", Year: 2009, Volume: 10, Value: 20}},
		},
		{
			name:  "country column located by position",
			input: "Id;Pais;2009;2009\n1;Chile;10;20\n",
			want:  []domain.TradeRecord{{Category: "Chile", Year: 2009, Volume: 10, Value: 20}},
		},
		{
			name:  "decimal commas and nd markers",
			input: "Id;País;2009;2009;2010;2010\n1;Chile;\"10,5\";\"21,0\";nd;nd\n",
			want:  []domain.TradeRecord{{Category: "Chile", Year: 2009, Volume: 10.5, Value: 21}},
		},
		{
			name:  "comma separated",
			input: "Id,País,2009,2009\n1,Chile,10,20\n",
			comma: ',',
			want:  []domain.TradeRecord{{Category: "Chile", Year: 2009, Volume: 10, Value: 20}},
		},
		{
			name:  "blank countries and short rows skipped",
			input: "Id;País;2009;2009\n1;;10;20\n2\n3;Peru;5\n",
			want:  []domain.TradeRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWide(strings.NewReader(tt.input), WideOptions{Comma: tt.comma})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWideErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty input", input: "", wantErr: ErrNoHeader.Error()},
		{name: "no year columns", input: "Id;País;Total\n1;Chile;10\n", wantErr: ErrNoHeader.Error()},
		{name: "invalid quantity", input: "Id;País;2009;2009\n1;Chile;abc;20\n", wantErr: "line 2, Chile quantity for 2009"},
		{name: "invalid value", input: "Id;País;2009;2009\n1;Chile;10;x\n", wantErr: "line 2, Chile value for 2009"},
		{name: "infinite value", input: "Id;País;2009;2009\n1;Chile;10;Inf\n", wantErr: `Chile value for 2009: invalid number "Inf"`},
		{name: "nan quantity", input: "Id;País;2009;2009\n1;Chile;NaN;20\n", wantErr: `Chile quantity for 2009: invalid number "NaN"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWide(strings.NewReader(tt.input), DefaultWideOptions())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRowsDoesNotMutateHeader(t *testing.T) {
	rows := [][]string{
		{"\uFEFFId", "País", "2009", "2009"},
		{"1", "Chile", "1", "2"},
	}
	_, err := ParseRows(rows, WideOptions{})
	require.NoError(t, err)
	assert.Equal(t, "\uFEFFId", rows[0][0])
}
