// Package sqlgen genera blocchi PL/SQL con istruzioni EXECUTE IMMEDIATE a
// partire dai CSV e divide i file SQL troppo grandi per essere eseguiti in un colpo.
package sqlgen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/filippoaprilee/effemmeweb-helper/csvtools"
)

// Tabella e colonne di default per i dettagli dei progetti.
const DefaultTable = "DETTAGLI_PROGETTI"

var DefaultColumns = []string{"ID", "FK_PROGETTO_ID", "LINK", "USERNAME", "PASSWORD", "DETTAGLI"}

// InsertOptions configura GenerateInserts.
type InsertOptions struct {
	Table   string
	Columns []string
	Comma   rune // default ';'
	// FillID genera un UUID quando la prima colonna è vuota.
	FillID bool
	Logger logrus.FieldLogger
}

// EscapeSQL raddoppia gli apici singoli.
func EscapeSQL(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// InsertStatement costruisce l'istruzione EXECUTE IMMEDIATE per una riga.
// I valori sono racchiusi tra apici raddoppiati perché la INSERT è a sua
// volta una stringa letterale.
func InsertStatement(table string, columns, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "''" + EscapeSQL(EscapeSQL(v)) + "''"
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(quoted, ", "))
	return "EXECUTE IMMEDIATE '" + insert + "';"
}

// GenerateInserts legge il CSV da r (intestazione saltata) e scrive su w il
// blocco BEGIN ... END; con una istruzione per riga. Le righe con meno valori
// delle colonne vengono ignorate. Restituisce il numero di istruzioni scritte.
func GenerateInserts(r io.Reader, w io.Writer, opts InsertOptions) (int, error) {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if len(opts.Columns) == 0 {
		opts.Columns = DefaultColumns
	}
	if opts.Comma == 0 {
		opts.Comma = ';'
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	reader, err := csvtools.NewReader(r, opts.Comma, csvtools.EncodingUTF8)
	if err != nil {
		return 0, err
	}

	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("errore nella lettura dell'intestazione CSV: %w", err)
	}

	writer := bufio.NewWriter(w)
	if _, err := writer.WriteString("BEGIN\n"); err != nil {
		return 0, err
	}

	count := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("errore nella lettura del file CSV: %w", err)
		}

		if len(record) < len(opts.Columns) {
			log.WithFields(logrus.Fields{"riga": line, "valori": record}).Warn("riga incompleta ignorata")
			continue
		}

		values := record[:len(opts.Columns)]
		if opts.FillID && strings.TrimSpace(values[0]) == "" {
			values[0] = uuid.NewString()
		}

		if _, err := writer.WriteString(InsertStatement(opts.Table, opts.Columns, values) + "\n"); err != nil {
			return count, err
		}
		count++
	}

	if _, err := writer.WriteString("END;\n"); err != nil {
		return count, err
	}
	return count, writer.Flush()
}
