package sqlgen

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultStatementsPerFile è il numero massimo di istruzioni per file prodotto da SplitFile.
const DefaultStatementsPerFile = 1500

var executeImmediateRe = regexp.MustCompile(`(?s)EXECUTE IMMEDIATE '.+?';`)

// SplitStatements estrae le istruzioni EXECUTE IMMEDIATE dal contenuto di un file SQL.
func SplitStatements(content string) []string {
	return executeImmediateRe.FindAllString(content, -1)
}

// Chunk formatta un gruppo di istruzioni come blocco anonimo.
func Chunk(statements []string) string {
	return "BEGIN\n    " + strings.Join(statements, "\n    ") + "\nEND\n"
}

// SplitFile divide inputFile in file output_part_N.sql dentro outputDir, con
// al massimo perFile istruzioni ciascuno. Restituisce i percorsi creati.
func SplitFile(inputFile, outputDir string, perFile int) ([]string, error) {
	if perFile <= 0 {
		perFile = DefaultStatementsPerFile
	}

	content, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("impossibile leggere il file SQL: %w", err)
	}

	matches := SplitStatements(string(content))

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("errore nella creazione della directory %s: %w", outputDir, err)
	}

	var created []string
	for i := 0; i < len(matches); i += perFile {
		end := min(i+perFile, len(matches))

		outputFile := filepath.Join(outputDir, fmt.Sprintf("output_part_%d.sql", i/perFile+1))
		if err := os.WriteFile(outputFile, []byte(Chunk(matches[i:end])), 0o644); err != nil {
			return created, fmt.Errorf("errore nella scrittura del file %s: %w", outputFile, err)
		}
		created = append(created, outputFile)
	}

	return created, nil
}
