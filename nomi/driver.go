package nomi

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/filippoaprilee/effemmeweb-helper/csvtools"
)

// Header è l'intestazione del file prodotto da SplitCSV.
var Header = []string{"COGNOME", "NOME"}

// SplitOptions configura SplitCSV.
type SplitOptions struct {
	Comma    rune   // delimitatore di input e output, default ','
	Encoding string // codifica del file di input, default utf-8
	Logger   logrus.FieldLogger
}

// SplitCSV legge le righe da r, le classifica e scrive COGNOME/NOME su w
// nello stesso ordine. Ogni riga di input produce una riga di output, anche
// quando è vuota. Restituisce il numero di righe scritte (intestazione esclusa).
func SplitCSV(r io.Reader, w io.Writer, opts SplitOptions) (int, error) {
	comma := opts.Comma
	if comma == 0 {
		comma = ','
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	src, err := csvtools.Decode(r, opts.Encoding)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.Write(Header); err != nil {
		return 0, fmt.Errorf("errore durante la scrittura dell'intestazione: %w", err)
	}

	count := 0
	write := func(record []string) error {
		parts := Classify(record)
		if parts.Surname == "" && parts.GivenName == "" {
			log.WithField("riga", count+1).Debug("riga senza nominativo")
		}
		if err := writer.Write([]string{parts.Surname, parts.GivenName}); err != nil {
			return fmt.Errorf("errore durante la scrittura della riga %d: %w", count+1, err)
		}
		count++
		return nil
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var pending strings.Builder
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if pending.Len() == 0 && line == "" {
			if err := write(nil); err != nil {
				return count, err
			}
			continue
		}

		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(line)

		// un campo tra virgolette può proseguire sulla riga successiva
		if strings.Count(pending.String(), `"`)%2 == 1 {
			continue
		}

		record, err := parseRecord(pending.String(), comma)
		if err != nil {
			return count, fmt.Errorf("errore nella lettura della riga %d: %w", count+1, err)
		}
		pending.Reset()

		if err := write(record); err != nil {
			return count, err
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("errore nella lettura della riga %d: %w", count+1, err)
	}

	if pending.Len() > 0 {
		record, err := parseRecord(pending.String(), comma)
		if err != nil {
			return count, fmt.Errorf("errore nella lettura della riga %d: %w", count+1, err)
		}
		if err := write(record); err != nil {
			return count, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, fmt.Errorf("errore durante il flush del CSV: %w", err)
	}

	return count, nil
}

const maxLineSize = 1 << 20

func parseRecord(line string, comma rune) ([]string, error) {
	record, err := csvtools.NewLenientReader(strings.NewReader(line), comma).Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return record, err
}
