package csvimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelprint-service/apperrors"
)

func assertParsingError(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)

	var parsingErr *ParsingError
	require.True(t, errors.As(err, &parsingErr), "expected a *ParsingError, got %T", err)
	assert.Equal(t, message, parsingErr.Message)
	assert.Equal(t, message, err.Error())
	assert.Equal(t, apperrors.KindParsing, apperrors.KindOf(err))
}

func TestParseValidData(t *testing.T) {
	records, err := Parse("barcode,text\nDN1,A\nDN2,B\n")
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{"barcode": "DN1", "text": "A"},
		{"barcode": "DN2", "text": "B"},
	}, records)
}

func TestParseWindowsLineEndings(t *testing.T) {
	records, err := Parse("barcode,text\r\nDN1,A\r\nDN2,B\r\n")
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "B", records[1]["text"])
}

func TestParseWithoutTrailingNewline(t *testing.T) {
	records, err := Parse("a,b\n1,2")
	require.NoError(t, err)
	assert.Equal(t, []Record{{"a": "1", "b": "2"}}, records)
}

func TestParseKeepsNumbersAsStrings(t *testing.T) {
	records, err := Parse("count,ratio\n10,0.5\n")
	require.NoError(t, err)
	assert.Equal(t, "10", records[0]["count"])
	assert.Equal(t, "0.5", records[0]["ratio"])
}

func TestParseHeaderOnly(t *testing.T) {
	records, err := Parse("a,b\n")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{"unnamed header", "a,,c\n1,2,3\n", "Header in column 2 is un-named."},
		{"empty file", "", "Header in column 1 is un-named."},
		{"duplicate header", "header,header\nval1,val2", `More than one column has the header "header".`},
		{"unnamed before duplicate", "a,a,\n1,2,3\n", "Header in column 3 is un-named."},
		{"short row", "a,b\nx\n", "Line 2 has the wrong number of fields: 1 when there should be 2."},
		{"long row", "a,b\n1,2\n1,2,3\n", "Line 3 has the wrong number of fields: 3 when there should be 2."},
		{"blank line in the middle", "a,b\n1,2\n\n3,4\n", "Line 3 contains no data."},
		{"two trailing blank lines", "a,b\n1,2\n\n\n", "Line 3 contains no data."},
		{"quoted comma is a separator", "a,b\n\"x,y\",z\n", "Line 2 has the wrong number of fields: 3 when there should be 2."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Parse(tt.data)
			assert.Nil(t, records)
			assertParsingError(t, err, tt.message)
		})
	}
}

func TestHeaders(t *testing.T) {
	assert.Equal(t, []string{"barcode", "text"}, Headers("barcode,text\r\nDN1,A\r\n"))
}
