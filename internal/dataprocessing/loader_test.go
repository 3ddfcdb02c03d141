package dataprocessing

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ysianalyzer/internal/errors"
	"ysianalyzer/pkg/contracts/domain"
)

func TestLoadRawTable(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantRows  int
		wantWell  string
		wantChem  string
		wantLine  int
	}{
		{
			name:     "comma separated",
			input:    "Plate,Well Id,Chemistry,Concentration\nP1,R24_A01,Glucose,2.0\nP1,R24_A02,Lactate,1.1\n",
			wantRows: 2,
			wantWell: "R24_A01",
			wantChem: "Glucose",
			wantLine: 2,
		},
		{
			name:     "semicolon separated",
			input:    "Plate;Well Id;Chemistry;Concentration\nP1;R24_A01;Glucose;2,0\nP1;R24_A02;Lactate;1,1\n",
			wantRows: 2,
			wantWell: "R24_A01",
			wantChem: "Glucose",
			wantLine: 2,
		},
		{
			name:     "tab separated",
			input:    "Plate\tWell Id\tChemistry\tConcentration\nP1\tR24_A01\tGlucose\t2.0\nP1\tR24_A02\tLactate\t1.1\n",
			wantRows: 2,
			wantWell: "R24_A01",
			wantChem: "Glucose",
			wantLine: 2,
		},
		{
			name:     "blank lines are skipped but line numbers kept",
			input:    "Well Id,Chemistry,Concentration\n\nR24_B03,NH4+,0.5\n",
			wantRows: 1,
			wantWell: "R24_B03",
			wantChem: "NH4+",
			wantLine: 3,
		},
		{
			name:     "utf-8 byte order mark on header",
			input:    "\xef\xbb\xbfWell Id,Chemistry,Concentration\nR24_C08,Glutamine,3\n",
			wantRows: 1,
			wantWell: "R24_C08",
			wantChem: "Glutamine",
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadRawTable(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.wantRows, table.Len())
			assert.Equal(t, tt.wantWell, table.Value(0, domain.ColumnWellID))
			assert.Equal(t, tt.wantChem, table.Value(0, domain.ColumnChemistry))
			assert.Equal(t, tt.wantLine, table.Line(0))
		})
	}
}

func TestLoadRawTable_Latin1(t *testing.T) {
	// 0xB5 is the micro sign in ISO-8859-1.
	input := "Well Id,Chemistry,Concentration,Units\nR24_A01,Glucose,2.0,\xb5mol/L\n"

	table, err := LoadRawTable(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "µmol/L", table.Value(0, "Units"))
}

func TestLoadRawTable_ExtraColumnsPreserved(t *testing.T) {
	input := "Sample,Well Id,Chemistry,Concentration,Operator\nS,R24_A01,Glucose,2.0,jd\n"

	table, err := LoadRawTable(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sample", "Well Id", "Chemistry", "Concentration", "Operator"}, table.Headers())
	assert.Equal(t, "jd", table.Value(0, "Operator"))
}

func TestLoadRawTable_DuplicateHeaders(t *testing.T) {
	input := "Chemistry,Concentration,Well Id,Note,Note\nGlucose,2.0,R24_A01,first,second\n"

	table, err := LoadRawTable(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Chemistry", "Concentration", "Well Id", "Note", "Note.1"}, table.Headers())
	assert.Equal(t, "first", table.Value(0, "Note"))
	assert.Equal(t, "second", table.Value(0, "Note.1"))
}

func TestLoadRawTable_RowWidth(t *testing.T) {
	t.Run("trailing empty fields are dropped", func(t *testing.T) {
		table, err := LoadRawTable(strings.NewReader("Well Id,Chemistry,Concentration\nR24_A01,Glucose,2.0,,\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"R24_A01", "Glucose", "2.0"}, table.Rows()[0])
	})

	t.Run("short rows are padded", func(t *testing.T) {
		table, err := LoadRawTable(strings.NewReader("Well Id,Chemistry,Concentration,Units\nR24_A01,Glucose,2.0\n"))
		require.NoError(t, err)
		assert.Equal(t, "", table.Value(0, "Units"))
	})

	t.Run("extra values reject the upload", func(t *testing.T) {
		input := "Well Id,Chemistry,Concentration\nR24_A01,Glucose,2.0\nR24_A02,Lactate,1.1,EXTRA\n"

		_, err := LoadRawTable(strings.NewReader(input))
		var appErr *errors.AppError
		require.True(t, stderrors.As(err, &appErr))
		assert.Equal(t, errors.ErrTypeParsing, appErr.Type)
		assert.Contains(t, appErr.Message, "line 3")
		assert.Contains(t, appErr.Message, "4 fields")
	})
}

func TestLoadRawTable_Errors(t *testing.T) {
	t.Run("empty upload", func(t *testing.T) {
		_, err := LoadRawTable(strings.NewReader("  \n"))
		var appErr *errors.AppError
		require.True(t, stderrors.As(err, &appErr))
		assert.Equal(t, errors.ErrTypeParsing, appErr.Type)
	})

	t.Run("missing required columns", func(t *testing.T) {
		_, err := LoadRawTable(strings.NewReader("Well,Analyte,Value\nR24_A01,Glucose,2\n"))
		var missing *MissingColumnsError
		require.True(t, stderrors.As(err, &missing))
		assert.Equal(t, []string{"Chemistry", "Concentration", "Well Id"}, missing.Columns)
		assert.Contains(t, err.Error(), "Well Id")
	})

	t.Run("header only is a valid empty table", func(t *testing.T) {
		table, err := LoadRawTable(strings.NewReader("Well Id,Chemistry,Concentration\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rune
	}{
		{name: "comma", input: "a,b,c\n1,2,3\n4,5,6\n", want: ','},
		{name: "semicolon", input: "a;b;c\n1;2;3\n4;5;6\n", want: ';'},
		{name: "tab", input: "a\tb\tc\n1\t2\t3\n4\t5\t6\n", want: '\t'},
		{name: "single column falls back to comma", input: "a\n1\n2\n", want: ','},
		{name: "empty falls back to comma", input: "", want: ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter([]byte(tt.input)))
		})
	}
}
