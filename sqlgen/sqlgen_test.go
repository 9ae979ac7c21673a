package sqlgen_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filippoaprilee/effemmeweb-helper/sqlgen"
)

func TestEscapeSQL(t *testing.T) {
	assert.Equal(t, "l''amico", sqlgen.EscapeSQL("l'amico"))
	assert.Equal(t, "nessuno", sqlgen.EscapeSQL("nessuno"))
}

func TestInsertStatement(t *testing.T) {
	stmt := sqlgen.InsertStatement("T", []string{"A", "B"}, []string{"1", "d'Arco"})
	assert.Equal(t, "EXECUTE IMMEDIATE 'INSERT INTO T (A, B) VALUES (''1'', ''d''''Arco'')';", stmt)
}

func TestGenerateInserts(t *testing.T) {
	input := strings.Join([]string{
		"ID;FK_PROGETTO_ID;LINK;USERNAME;PASSWORD;DETTAGLI",
		"1;7;https://sito.it;admin;segreta;note",
		"2;7;incompleta",
		";8;https://altro.it;user;pwd;",
	}, "\n") + "\n"

	log, hook := test.NewNullLogger()
	var out bytes.Buffer
	n, err := sqlgen.GenerateInserts(strings.NewReader(input), &out, sqlgen.InsertOptions{Logger: log})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, hook.Entries, 1)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "BEGIN", lines[0])
	assert.Equal(t, "EXECUTE IMMEDIATE 'INSERT INTO DETTAGLI_PROGETTI (ID, FK_PROGETTO_ID, LINK, USERNAME, PASSWORD, DETTAGLI) VALUES (''1'', ''7'', ''https://sito.it'', ''admin'', ''segreta'', ''note'')';", lines[1])
	assert.Contains(t, lines[2], "VALUES ('''', ''8''")
	assert.Equal(t, "END;", lines[3])
}

func TestGenerateInsertsFillID(t *testing.T) {
	input := "ID;NOME\n;Rossi\n"

	var out bytes.Buffer
	n, err := sqlgen.GenerateInserts(strings.NewReader(input), &out, sqlgen.InsertOptions{
		Table:   "RUBRICA",
		Columns: []string{"ID", "NOME"},
		FillID:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotContains(t, out.String(), "VALUES ('''',")
	assert.Regexp(t, `VALUES \(''[0-9a-f-]{36}'', ''Rossi''\)`, out.String())
}

func TestGenerateInsertsEmptyInput(t *testing.T) {
	var out bytes.Buffer
	_, err := sqlgen.GenerateInserts(strings.NewReader(""), &out, sqlgen.InsertOptions{})
	require.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	content := "BEGIN\n    EXECUTE IMMEDIATE 'INSERT INTO T VALUES (''a'')';\n" +
		"    EXECUTE IMMEDIATE 'INSERT INTO T VALUES (''multi\nriga'')';\n" +
		"    -- commento\nEND;\n"

	stmts := sqlgen.SplitStatements(content)
	require.Len(t, stmts, 2)
	assert.Equal(t, "EXECUTE IMMEDIATE 'INSERT INTO T VALUES (''a'')';", stmts[0])
	assert.Contains(t, stmts[1], "multi\nriga")
}

func TestSplitFile(t *testing.T) {
	dir := t.TempDir()

	var b strings.Builder
	b.WriteString("BEGIN\n")
	for i := 0; i < 5; i++ {
		b.WriteString("    EXECUTE IMMEDIATE 'INSERT INTO T VALUES (1)';\n")
	}
	b.WriteString("END;\n")
	input := filepath.Join(dir, "input.sql")
	require.NoError(t, os.WriteFile(input, []byte(b.String()), 0o644))

	outDir := filepath.Join(dir, "output_files")
	created, err := sqlgen.SplitFile(input, outDir, 2)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(outDir, "output_part_1.sql"),
		filepath.Join(outDir, "output_part_2.sql"),
		filepath.Join(outDir, "output_part_3.sql"),
	}, created)

	last, err := os.ReadFile(created[2])
	require.NoError(t, err)
	assert.Equal(t, "BEGIN\n    EXECUTE IMMEDIATE 'INSERT INTO T VALUES (1)';\nEND\n", string(last))

	first, err := os.ReadFile(created[0])
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(first), "EXECUTE IMMEDIATE"))
}

func TestSplitFileMissing(t *testing.T) {
	_, err := sqlgen.SplitFile(filepath.Join(t.TempDir(), "nope.sql"), t.TempDir(), 0)
	require.Error(t, err)
}
