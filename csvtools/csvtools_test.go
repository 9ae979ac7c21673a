package csvtools_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filippoaprilee/effemmeweb-helper/csvtools"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func table(t *testing.T, content string) *csvtools.Table {
	t.Helper()
	tbl, err := csvtools.ReadTableFrom(strings.NewReader(content), ',')
	require.NoError(t, err)
	return tbl
}

func TestReadTableStripsBOM(t *testing.T) {
	tbl := table(t, "\ufeffNOME,ID\nAnna,1\n")
	assert.Equal(t, 0, tbl.Index("nome"))
	assert.Equal(t, 1, tbl.Index(" id "))
	assert.Equal(t, -1, tbl.Index("missing"))
}

func TestParseComma(t *testing.T) {
	for in, want := range map[string]rune{"": ',', ",": ',', ";": ';', "tab": '\t', `\t`: '\t', "|": '|'} {
		got, err := csvtools.ParseComma(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := csvtools.ParseComma(";;")
	require.Error(t, err)
}

func TestFilterDuplicates(t *testing.T) {
	tbl := table(t, strings.Join([]string{
		"EFFEMMEWEB_NOME,EFFEMMEWEB_TELEFONO1,EFFEMMEWEB_FLAG_CHIAMATO,EFFEMMEWEB_FLAG_RISPOSTO",
		"Bar Roma,0831111,0,0",
		"Bar Roma,0831111,1,0",
		"Bar Roma,0831111,0.0,0",
		"Pizzeria,0832222,0,0",
		"Edicola,0833333,0,0",
		"Edicola,0833333,0,1",
	}, "\n"))

	rows, err := csvtools.FilterDuplicates(tbl)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Bar Roma", "0831111", "0", "0"}, rows[0])
	assert.Equal(t, []string{"Bar Roma", "0831111", "0.0", "0"}, rows[1])
	assert.Equal(t, []string{"Edicola", "0833333", "0", "0"}, rows[2])
}

func TestFilterDuplicatesMissingColumn(t *testing.T) {
	_, err := csvtools.FilterDuplicates(table(t, "EFFEMMEWEB_NOME\nx\n"))
	require.Error(t, err)
}

func TestAddSexColumn(t *testing.T) {
	tbl := table(t, "COGNOME,NOME\nRossi,Maria\nBianchi, Marco \nVerdi,ANDREA\nNeri,\n")

	out, err := csvtools.AddSexColumn(tbl, "NOME")
	require.NoError(t, err)
	assert.Equal(t, []string{"COGNOME", "NOME", "SESSO"}, out.Header)
	assert.Equal(t, "F", out.Rows[0][2])
	assert.Equal(t, "M", out.Rows[1][2])
	assert.Equal(t, "F", out.Rows[2][2])
	assert.Equal(t, "M", out.Rows[3][2])
}

func TestReplaceComuneWithID(t *testing.T) {
	mapping, err := csvtools.LoadComuniMapping(table(t, "ID,COMUNE\n10, Lecce \n20,Brindisi\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"LECCE": "10", "BRINDISI": "20"}, mapping)

	tbl := table(t, "COGNOME,Comune,Cap\nRossi,lecce,73100\nBianchi,Taranto,74100\n")
	missing, err := csvtools.ReplaceComuneWithID(tbl, "Comune", mapping)
	require.NoError(t, err)
	assert.Equal(t, 1, missing)
	assert.Equal(t, []string{"Rossi", "10", "73100"}, tbl.Rows[0])
	assert.Equal(t, []string{"Bianchi", "", "74100"}, tbl.Rows[1])
}

func TestConcatColumns(t *testing.T) {
	left := table(t, "COGNOME,NOME\nRossi,Mario\nBianchi,Anna\n")
	right := table(t, "Codice fiscale,Codice alternativo 1,Indirizzo,Comune,Provincia,Cap\nRSS,1,Via A,Lecce,LE,73100\nBNC,2,Via B,Bari,BA,70100\n")

	out, err := csvtools.ConcatColumns(left, right, csvtools.DefaultConcatOrder)
	require.NoError(t, err)
	assert.Equal(t, csvtools.DefaultConcatOrder, out.Header)
	assert.Equal(t, []string{"Rossi", "Mario", "RSS", "1", "Via A", "Lecce", "LE", "73100"}, out.Rows[0])

	_, err = csvtools.ConcatColumns(left, table(t, "X\n1\n"), nil)
	require.Error(t, err)

	_, err = csvtools.ConcatColumns(left, right, []string{"Inesistente"})
	require.Error(t, err)
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	header := "Nome Attività,Categoria,Telefono,Email\n"
	a := writeFile(t, dir, "a.csv", header+"Bar Roma,Bar,0831,bar@roma.it\nPizzeria,Ristorante,0832,\n")
	b := writeFile(t, dir, "b.csv", header+"BAR ROMA,Bar,0831,BAR@roma.it\nriga,corta\nEdicola,Negozio,0833,\n")
	out := filepath.Join(dir, "merged.csv")

	log, _ := test.NewNullLogger()
	stats, err := csvtools.MergeFiles(out, []string{a, b, filepath.Join(dir, "missing.csv")}, log)
	require.NoError(t, err)
	assert.Equal(t, csvtools.MergeStats{Written: 3, Duplicates: 1, Skipped: 1}, stats)

	merged, err := csvtools.ReadTable(out, ',')
	require.NoError(t, err)
	require.Len(t, merged.Rows, 3)
	assert.Equal(t, "Edicola", merged.Rows[2][0])
}

func TestMergeFilesNoInput(t *testing.T) {
	_, err := csvtools.MergeFiles(filepath.Join(t.TempDir(), "x.csv"), nil, logrus.New())
	require.Error(t, err)
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "https://example.it", csvtools.CleanURL("https://example.it/?utm_source=gmaps"))
	assert.Equal(t, "https://example.it/pagina", csvtools.CleanURL("https://example.it/pagina/"))
	assert.Equal(t, "", csvtools.CleanURL(""))
}

func TestCleanURLsInDir(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "risultati.csv", "Nome Attività,Sito Web\nBar,https://bar.it/?a=1\nPizzeria,http://pizza.it/\n")
	writeFile(t, dir, "senza_colonna.csv", "A,B\n1,2\n")

	log, hook := test.NewNullLogger()
	cleaned, err := csvtools.CleanURLsInDir(dir, log)
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned)
	assert.Len(t, hook.Entries, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Nome Attività,Sito Web\nBar,https://bar.it\nPizzeria,http://pizza.it\n", string(data))
}

func TestCategoriesAndFilter(t *testing.T) {
	tbl := table(t, "Nome Attività,Categoria\nBar Roma,Bar\nPizzeria,Ristorante\nCaffè,Bar\nEdicola,Negozio\n")

	cats, err := csvtools.Categories(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bar", "Negozio", "Ristorante"}, cats)

	rows, err := csvtools.FilterByCategory(tbl, []string{"Bar", " Negozio "})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Edicola", rows[2][0])
}

func TestWriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, csvtools.WriteTable(path, ';', []string{"A", "B"}, [][]string{{"1", "2"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A;B\n1;2\n", string(data))
}
