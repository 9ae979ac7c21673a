package csvtools

import (
	"strconv"
	"strings"
)

// Colonne dell'export rubrica usate per il controllo duplicati.
const (
	ColTelefono = "EFFEMMEWEB_TELEFONO1"
	ColNome     = "EFFEMMEWEB_NOME"
	ColChiamato = "EFFEMMEWEB_FLAG_CHIAMATO"
	ColRisposto = "EFFEMMEWEB_FLAG_RISPOSTO"
)

// FilterDuplicates restituisce tutte le occorrenze delle righe duplicate su
// telefono e nome che non sono ancora state chiamate né hanno risposto.
func FilterDuplicates(t *Table) ([][]string, error) {
	phoneIdx, err := t.MustIndex(ColTelefono)
	if err != nil {
		return nil, err
	}
	nameIdx, err := t.MustIndex(ColNome)
	if err != nil {
		return nil, err
	}
	calledIdx, err := t.MustIndex(ColChiamato)
	if err != nil {
		return nil, err
	}
	answeredIdx, err := t.MustIndex(ColRisposto)
	if err != nil {
		return nil, err
	}

	key := func(row []string) string {
		return Value(row, phoneIdx) + "\x00" + Value(row, nameIdx)
	}

	counts := make(map[string]int, len(t.Rows))
	for _, row := range t.Rows {
		counts[key(row)]++
	}

	var filtered [][]string
	for _, row := range t.Rows {
		if counts[key(row)] < 2 {
			continue
		}
		if isZeroFlag(Value(row, calledIdx)) && isZeroFlag(Value(row, answeredIdx)) {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}

// isZeroFlag accetta "0", "0.0" e simili, come il confronto numerico dell'export.
func isZeroFlag(v string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return err == nil && f == 0
}
