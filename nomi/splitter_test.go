package nomi_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/filippoaprilee/effemmeweb-helper/nomi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want nomi.NameParts
	}{
		{"riga vuota", nil, nomi.NameParts{}},
		{"cognome e nome", []string{"ROSSI", "MARIO"}, nomi.NameParts{Surname: "ROSSI", GivenName: "MARIO"}},
		{"prefisso nel primo campo", []string{"DI", "MARCO ANTONIO"}, nomi.NameParts{Surname: "DI MARCO", GivenName: "ANTONIO"}},
		{"prefisso minuscolo", []string{"de", "luca anna maria"}, nomi.NameParts{Surname: "de luca", GivenName: "anna maria"}},
		{"prefisso con un solo token", []string{"DEL", "PIERO"}, nomi.NameParts{Surname: "DEL PIERO", GivenName: ""}},
		{"prefisso con secondo campo vuoto", []string{"LA", "  "}, nomi.NameParts{Surname: "LA", GivenName: ""}},
		{"apostrofo", []string{"D'", "AMICO LUIGI"}, nomi.NameParts{Surname: "D' AMICO", GivenName: "LUIGI"}},
		{"associazione", []string{"A.S.D. JUVENTUS", "CLUB"}, nomi.NameParts{GivenName: "A.S.D. JUVENTUS CLUB"}},
		{"associazione senza secondo campo", []string{"a.s.d. tennis", ""}, nomi.NameParts{GivenName: "a.s.d. tennis"}},
		{"associazione prima del prefisso", []string{"A.S.D. DE LUCA", "SPORT CLUB"}, nomi.NameParts{GivenName: "A.S.D. DE LUCA SPORT CLUB"}},
		{"punto e virgola iniziale", []string{";;  VERDI ", " GIUSEPPE "}, nomi.NameParts{Surname: "VERDI", GivenName: "GIUSEPPE"}},
		{"tre campi", []string{"BIANCHI", "ANNA", "extra"}, nomi.NameParts{Surname: "BIANCHI", GivenName: "ANNA"}},
		{"campi vuoti", []string{"", ""}, nomi.NameParts{}},
		{"singolo vuoto", []string{"   "}, nomi.NameParts{}},
		{"singolo un token", []string{"ROSSI"}, nomi.NameParts{Surname: "ROSSI"}},
		{"singolo due token", []string{"ROSSI MARIO"}, nomi.NameParts{Surname: "ROSSI", GivenName: "MARIO"}},
		{"singolo più nomi", []string{"ROSSI MARIO LUIGI"}, nomi.NameParts{Surname: "ROSSI", GivenName: "MARIO LUIGI"}},
		{"singolo con prefisso", []string{"DI MARCO ANTONIO"}, nomi.NameParts{Surname: "DI MARCO", GivenName: "ANTONIO"}},
		{"singolo prefisso senza nome", []string{"DE SANTIS"}, nomi.NameParts{Surname: "DE SANTIS", GivenName: ""}},
		{"singolo van der", []string{"VAN DER BERG MARIA"}, nomi.NameParts{Surname: "VAN DER", GivenName: "BERG MARIA"}},
		{"singolo solo prefisso", []string{"VON"}, nomi.NameParts{Surname: "VON"}},
		{"singolo associazione", []string{";A.S.D. POLISPORTIVA"}, nomi.NameParts{GivenName: "A.S.D. POLISPORTIVA"}},
		{"spazi multipli", []string{"ROSSI   MARIO    LUIGI"}, nomi.NameParts{Surname: "ROSSI", GivenName: "MARIO LUIGI"}},
		{"accenti invariati", []string{"NICOLÒ", "GIOVANNI"}, nomi.NameParts{Surname: "NICOLÒ", GivenName: "GIOVANNI"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, nomi.Classify(tt.row))
		})
	}
}

func TestClassifyPreservesTokens(t *testing.T) {
	rows := [][]string{
		{"ROSSI MARIO LUIGI"},
		{"DI MARCO ANTONIO"},
		{"LO", "BUE FRANCESCA"},
		{"VERDI", "ANNA"},
	}

	for _, row := range rows {
		parts := nomi.Classify(row)
		joined := strings.TrimSpace(parts.Surname + " " + parts.GivenName)
		require.Equal(t, strings.Fields(strings.Join(row, " ")), strings.Fields(joined))

		// Riclassificando la riga ricomposta il punto di divisione non cambia.
		again := nomi.Classify([]string{joined})
		require.Equal(t, parts, again, "riga %v", row)
	}
}

func TestIsPrefix(t *testing.T) {
	for _, p := range []string{"da", "De", "DEL", "dei", "d'", "Van", "von"} {
		require.True(t, nomi.IsPrefix(p), p)
	}
	for _, p := range []string{"DER", "ROSSI", "", "A.S.D."} {
		require.False(t, nomi.IsPrefix(p), p)
	}
}
