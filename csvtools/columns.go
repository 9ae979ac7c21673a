package csvtools

import (
	"fmt"
	"strings"
)

// ColSesso è la colonna aggiunta da AddSexColumn.
const ColSesso = "SESSO"

// GuessSex stima il sesso dal nome: F se termina per "a", altrimenti M.
func GuessSex(name string) string {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), "a") {
		return "F"
	}
	return "M"
}

// AddSexColumn aggiunge la colonna SESSO calcolata dalla colonna nameColumn.
func AddSexColumn(t *Table, nameColumn string) (*Table, error) {
	nameIdx, err := t.MustIndex(nameColumn)
	if err != nil {
		return nil, err
	}

	out := &Table{
		Header: append(append([]string{}, t.Header...), ColSesso),
		Rows:   make([][]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		newRow := make([]string, len(t.Header), len(t.Header)+1)
		copy(newRow, row)
		newRow = append(newRow, GuessSex(Value(row, nameIdx)))
		out.Rows = append(out.Rows, newRow)
	}

	return out, nil
}

// LoadComuniMapping costruisce la mappa COMUNE (maiuscolo) -> ID.
func LoadComuniMapping(t *Table) (map[string]string, error) {
	comuneIdx, err := t.MustIndex("COMUNE")
	if err != nil {
		return nil, err
	}
	idIdx, err := t.MustIndex("ID")
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		comune := strings.ToUpper(strings.TrimSpace(Value(row, comuneIdx)))
		mapping[comune] = strings.TrimSpace(Value(row, idIdx))
	}
	return mapping, nil
}

// ReplaceComuneWithID sostituisce il nome del comune con il suo ID; se il
// comune non è nella mappa il campo resta vuoto. Le altre colonne non cambiano.
// Restituisce il numero di comuni non trovati.
func ReplaceComuneWithID(t *Table, column string, mapping map[string]string) (int, error) {
	idx, err := t.MustIndex(column)
	if err != nil {
		return 0, err
	}

	missing := 0
	for i, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		id, ok := mapping[strings.ToUpper(strings.TrimSpace(row[idx]))]
		if !ok {
			missing++
		}
		t.Rows[i][idx] = id
	}
	return missing, nil
}

// DefaultConcatOrder è l'ordine delle colonne del file anagrafico finale.
var DefaultConcatOrder = []string{
	"COGNOME", "NOME", "Codice fiscale", "Codice alternativo 1", "Indirizzo", "Comune", "Provincia", "Cap",
}

// ConcatColumns affianca due tabelle riga per riga e riordina le colonne
// secondo order. Le due tabelle devono avere lo stesso numero di righe.
func ConcatColumns(left, right *Table, order []string) (*Table, error) {
	if len(left.Rows) != len(right.Rows) {
		return nil, fmt.Errorf("i file CSV hanno un numero di righe diverso (%d e %d): impossibile unirli in base all'ordine delle righe", len(left.Rows), len(right.Rows))
	}

	header := append(append([]string{}, left.Header...), right.Header...)
	if len(order) == 0 {
		order = header
	}

	positions := make([]int, len(order))
	for i, col := range order {
		pos := -1
		for j, h := range header {
			if h == col {
				pos = j
				break
			}
		}
		if pos == -1 {
			return nil, fmt.Errorf("colonna '%s' non trovata", col)
		}
		positions[i] = pos
	}

	out := &Table{Header: append([]string{}, order...), Rows: make([][]string, 0, len(left.Rows))}
	for i := range left.Rows {
		joined := make([]string, len(header))
		copy(joined, left.Rows[i])
		for j := range right.Header {
			joined[len(left.Header)+j] = Value(right.Rows[i], j)
		}

		row := make([]string, len(positions))
		for k, pos := range positions {
			row[k] = joined[pos]
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}
