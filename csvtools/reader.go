// Package csvtools raccoglie le utility sui file CSV esportati dal gestionale:
// filtro duplicati, nuove colonne, join con la tabella comuni, merge e pulizia.
package csvtools

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding supportati in lettura.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// NewReader crea un csv.Reader tollerante (numero di campi variabile,
// virgolette non bilanciate) con la codifica indicata.
func NewReader(r io.Reader, comma rune, encoding string) (*csv.Reader, error) {
	src, err := Decode(r, encoding)
	if err != nil {
		return nil, err
	}

	return NewLenientReader(src, comma), nil
}

// NewLenientReader crea un csv.Reader con numero di campi variabile e
// virgolette non bilanciate, senza conversione di codifica.
func NewLenientReader(r io.Reader, comma rune) *csv.Reader {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader
}

// Decode converte r in UTF-8 a partire dalla codifica indicata.
func Decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingLatin1, "iso-8859-1", "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codifica non supportata: %s", encoding)
	}
}

// ParseComma converte il delimitatore passato da riga di comando.
func ParseComma(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimitatore non valido: %q", s)
	}
	return runes[0], nil
}

// Table è un CSV letto interamente in memoria con la sua intestazione.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable legge un file CSV con intestazione.
func ReadTable(path string, comma rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("impossibile aprire il file %s: %w", path, err)
	}
	defer file.Close()

	return ReadTableFrom(file, comma)
}

// ReadTableFrom legge un CSV con intestazione da un reader.
func ReadTableFrom(r io.Reader, comma rune) (*Table, error) {
	reader, err := NewReader(r, comma, EncodingUTF8)
	if err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("errore nella lettura del file CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file vuoto")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	return &Table{Header: header, Rows: records[1:]}, nil
}

// Index restituisce la posizione della colonna, confrontando i nomi senza
// distinzione di maiuscole e spazi. -1 se assente.
func (t *Table) Index(column string) int {
	return columnIndex(t.Header, column)
}

// MustIndex è come Index ma restituisce un errore se la colonna manca.
func (t *Table) MustIndex(column string) (int, error) {
	idx := t.Index(column)
	if idx == -1 {
		return -1, fmt.Errorf("colonna '%s' non trovata", column)
	}
	return idx, nil
}

// Value restituisce il valore della colonna idx, stringa vuota se la riga è corta.
func Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// WriteTable scrive intestazione e righe nel file indicato.
func WriteTable(path string, comma rune, header []string, rows [][]string) error {
	output, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("impossibile creare il file di output: %w", err)
	}
	defer output.Close()

	if err := writeTableTo(output, comma, header, rows); err != nil {
		return err
	}
	return output.Close()
}

func writeTableTo(w io.Writer, comma rune, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if comma != 0 {
		writer.Comma = comma
	}

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("errore durante la scrittura dell'intestazione: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("errore durante la scrittura delle righe: %w", err)
	}
	return nil
}

func columnIndex(header []string, column string) int {
	want := strings.ToLower(strings.TrimSpace(column))
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) == want {
			return i
		}
	}
	return -1
}
