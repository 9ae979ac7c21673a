// Package nomi separa cognome e nome nelle righe di un'anagrafica CSV.
package nomi

import "strings"

// orgMarker identifica una ragione sociale (associazione sportiva) e non una persona.
const orgMarker = "A.S.D."

// surnamePrefixes sono i prefissi che indicano un possibile doppio cognome.
var surnamePrefixes = map[string]struct{}{
	"DA":  {},
	"DE":  {},
	"DEL": {},
	"DEI": {},
	"DI":  {},
	"D'":  {},
	"LA":  {},
	"LE":  {},
	"LO":  {},
	"VAN": {},
	"VON": {},
}

// NameParts è il risultato della classificazione di una riga.
type NameParts struct {
	Surname   string
	GivenName string
}

// IsPrefix indica se il token è un prefisso di cognome (case-insensitive).
func IsPrefix(token string) bool {
	_, ok := surnamePrefixes[strings.ToUpper(token)]
	return ok
}

// Classify divide una riga di 1 o 2 campi in cognome e nome.
// Non fallisce mai: righe vuote o malformate producono stringhe vuote.
func Classify(row []string) NameParts {
	switch {
	case len(row) == 0:
		return NameParts{}
	case len(row) >= 2:
		return classifyPair(cleanField(row[0]), strings.TrimSpace(row[1]))
	default:
		return classifySingle(cleanField(row[0]))
	}
}

func classifyPair(field1, field2 string) NameParts {
	if isOrganization(field1) {
		if field2 == "" {
			return NameParts{GivenName: field1}
		}
		return NameParts{GivenName: field1 + " " + field2}
	}

	if !IsPrefix(field1) {
		return NameParts{Surname: field1, GivenName: field2}
	}

	// doppio cognome: prefisso + prima parola del secondo campo
	tokens := strings.Fields(field2)
	if len(tokens) == 0 {
		return NameParts{Surname: field1, GivenName: field2}
	}
	return NameParts{
		Surname:   field1 + " " + tokens[0],
		GivenName: strings.Join(tokens[1:], " "),
	}
}

func classifySingle(full string) NameParts {
	if isOrganization(full) {
		return NameParts{GivenName: full}
	}

	tokens := strings.Fields(full)
	if len(tokens) <= 1 {
		return NameParts{Surname: full}
	}

	// Solo il primo token viene confrontato con i prefissi: "VAN DER BERG"
	// diventa "VAN DER" + "BERG".
	if IsPrefix(tokens[0]) {
		return NameParts{
			Surname:   tokens[0] + " " + tokens[1],
			GivenName: strings.Join(tokens[2:], " "),
		}
	}
	return NameParts{
		Surname:   tokens[0],
		GivenName: strings.Join(tokens[1:], " "),
	}
}

func isOrganization(s string) bool {
	return strings.HasPrefix(strings.ToUpper(s), orgMarker)
}

// cleanField rimuove i punto e virgola iniziali lasciati da export mal delimitati.
func cleanField(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, ";"))
}
