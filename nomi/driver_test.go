package nomi_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/filippoaprilee/effemmeweb-helper/nomi"
)

func TestSplitCSV(t *testing.T) {
	input := strings.Join([]string{
		"ROSSI,MARIO",
		"DI,MARCO ANTONIO",
		"A.S.D. JUVENTUS,CLUB",
		"VAN DER BERG MARIA",
		"\"LO\",\"BUE\"",
		"VERDI",
	}, "\n") + "\n"

	var out bytes.Buffer
	n, err := nomi.SplitCSV(strings.NewReader(input), &out, nomi.SplitOptions{})
	require.NoError(t, err)
	require.Equal(t, 6, n)

	expected := strings.Join([]string{
		"COGNOME,NOME",
		"ROSSI,MARIO",
		"DI MARCO,ANTONIO",
		",A.S.D. JUVENTUS CLUB",
		"VAN DER,BERG MARIA",
		"LO BUE,",
		"VERDI,",
	}, "\n") + "\n"
	require.Equal(t, expected, out.String())
}

func TestSplitCSVSemicolon(t *testing.T) {
	input := "DE;LUCA ANNA\nBIANCHI;LUCIA\n"

	var out bytes.Buffer
	n, err := nomi.SplitCSV(strings.NewReader(input), &out, nomi.SplitOptions{Comma: ';'})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "COGNOME;NOME\nDE LUCA;ANNA\nBIANCHI;LUCIA\n", out.String())
}

func TestSplitCSVLatin1(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("NICOLÒ,ANDREA\n")
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = nomi.SplitCSV(strings.NewReader(encoded), &out, nomi.SplitOptions{Encoding: "latin1"})
	require.NoError(t, err)
	require.Equal(t, "COGNOME,NOME\nNICOLÒ,ANDREA\n", out.String())
}

func TestSplitCSVUnknownEncoding(t *testing.T) {
	var out bytes.Buffer
	_, err := nomi.SplitCSV(strings.NewReader("A,B\n"), &out, nomi.SplitOptions{Encoding: "ebcdic"})
	require.Error(t, err)
}

func TestSplitCSVKeepsBlankLines(t *testing.T) {
	input := "ROSSI,MARIO\n\nVERDI,ANNA\r\n\r\n"

	var out bytes.Buffer
	n, err := nomi.SplitCSV(strings.NewReader(input), &out, nomi.SplitOptions{})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "COGNOME,NOME\nROSSI,MARIO\n,\nVERDI,ANNA\n,\n", out.String())
}

func TestSplitCSVQuotedNewline(t *testing.T) {
	input := "\"DE\",\"LUCA\nMARIO\"\nBIANCHI,LUCIA"

	var out bytes.Buffer
	n, err := nomi.SplitCSV(strings.NewReader(input), &out, nomi.SplitOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "COGNOME,NOME\nDE LUCA,MARIO\nBIANCHI,LUCIA\n", out.String())
}
