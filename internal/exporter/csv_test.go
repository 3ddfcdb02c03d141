package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"ysianalyzer/pkg/contracts/domain"
)

func TestWriteSummaryCSV(t *testing.T) {
	combined := &domain.CombinedTable{}
	combined.Append(
		domain.SummaryBlock{
			Chemistry:         "Glucose",
			MeanConcentration: null.FloatFrom(2.1),
			StdConcentration:  null.FloatFrom(0.141),
			Experiment:        "Run 1",
			Well:              "Sample1",
			Source:            domain.SourceBioanalysis,
		},
		domain.SummaryBlock{
			Chemistry:         "Lactate",
			MeanConcentration: null.FloatFrom(1.1),
			Experiment:        "Run 1",
			Well:              "Sample2",
			Source:            domain.SourceISE,
		},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, combined))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Chemistry", "Mean Concentration (g/L)", "std (g/L)", "Experiment", "Well", "Source"}, records[0])
	assert.Equal(t, []string{"Glucose", "2.100", "0.141", "Run 1", "Sample1", "bioanalysis"}, records[1])
	assert.Equal(t, []string{"Lactate", "1.100", "", "Run 1", "Sample2", "ise"}, records[2])
}

func TestWriteCSV_Options(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "x,y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())
}

func TestSummaryRecords_Nil(t *testing.T) {
	assert.Empty(t, SummaryRecords(nil))
}
