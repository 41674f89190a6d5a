package sheet

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	input := "Partida,Aduana\n01234567,LIMA\n01239999,CALLAO\n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"01234567", "LIMA"}, rows[1])
}

func TestReadCSV_Semicolon(t *testing.T) {
	input := "a;b\n1;2\n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, rows[1])
}

func TestReadCSV_VariableFields(t *testing.T) {
	input := "a,b,c\n1\n1,2,3,4\n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 1)
	assert.Len(t, rows[2], 4)
}

func TestReadCSV_StripsBOM(t *testing.T) {
	input := "\ufeffPartida,Aduana\n1,LIMA\n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Partida", rows[0][0])
}

func TestReadCSV_Latin1(t *testing.T) {
	// "Último" encoded as windows-1252: 0xDA = Ú.
	input := "Puerto\n\xdaltimo\n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{Charset: "windows-1252"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Último", rows[1][0])
}

func TestReadCSV_UnknownCharset(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("a\n"), CSVOptions{Charset: "klingon-8"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported charset")
}

func TestReadCSV_MalformedQuotes(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("a,\"b\n"), CSVOptions{})
	assert.Error(t, err)
}

func TestStreamCSV_ContextCancellation(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		sb.WriteString("a,b,c\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	rowCh, errCh := StreamCSV(ctx, strings.NewReader(sb.String()), CSVOptions{})

	count := 0
	for range rowCh {
		count++
		if count >= 5 {
			cancel()
			break
		}
	}
	for range rowCh { //nolint:revive // drain
	}
	for range errCh { //nolint:revive // drain
	}
	cancel()
}
