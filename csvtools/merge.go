package csvtools

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Colonne dei CSV prodotti dallo scraper.
const (
	ColNomeAttivita = "Nome Attività"
	ColCategoria    = "Categoria"
	ColSitoWeb      = "Sito Web"
	ColTelefonoWeb  = "Telefono"
	ColEmail        = "Email"
)

// MergeStats riassume il risultato di MergeFiles.
type MergeStats struct {
	Written    int
	Duplicates int
	Skipped    int
}

// MergeFiles unisce più CSV con la stessa intestazione in outputPath,
// scartando le righe malformate e i duplicati su nome attività, email e telefono.
// L'intestazione è quella del primo file.
func MergeFiles(outputPath string, inputs []string, log logrus.FieldLogger) (MergeStats, error) {
	var stats MergeStats
	if len(inputs) == 0 {
		return stats, fmt.Errorf("nessun file selezionato")
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return stats, fmt.Errorf("errore nella creazione del file di output: %w", err)
	}
	defer outputFile.Close()

	writer := csv.NewWriter(outputFile)
	defer writer.Flush()

	var header []string
	uniqueEntries := make(map[string]struct{})

	for _, filePath := range inputs {
		flog := log.WithField("file", filePath)

		records, fileHeader, err := readWithHeader(filePath)
		if err != nil {
			flog.WithError(err).Warn("file saltato")
			continue
		}

		if header == nil {
			header = fileHeader
			if err := writer.Write(header); err != nil {
				return stats, fmt.Errorf("errore durante la scrittura dell'intestazione: %w", err)
			}
		}

		nameIdx := columnIndex(fileHeader, ColNomeAttivita)
		emailIdx := columnIndex(fileHeader, ColEmail)
		phoneIdx := columnIndex(fileHeader, ColTelefonoWeb)

		for _, record := range records {
			if len(record) != len(header) {
				flog.WithField("riga", record).Debug("riga non valida")
				stats.Skipped++
				continue
			}

			key := strings.ToLower(Value(record, nameIdx) + Value(record, emailIdx) + Value(record, phoneIdx))
			if _, exists := uniqueEntries[key]; exists {
				flog.WithField("nome", Value(record, nameIdx)).Debug("duplicato trovato")
				stats.Duplicates++
				continue
			}
			uniqueEntries[key] = struct{}{}

			if err := writer.Write(record); err != nil {
				return stats, fmt.Errorf("errore durante la scrittura del record: %w", err)
			}
			stats.Written++
		}
	}

	if header == nil {
		return stats, fmt.Errorf("nessun file leggibile tra quelli selezionati")
	}

	writer.Flush()
	return stats, writer.Error()
}

func readWithHeader(path string) ([][]string, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("errore nell'apertura del file %s: %w", path, err)
	}
	defer file.Close()

	reader, err := NewReader(file, ',', EncodingUTF8)
	if err != nil {
		return nil, nil, err
	}

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("errore nella lettura dell'intestazione del file %s: %w", path, err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	return records, header, nil
}

// CleanURL rimuove query string e slash finale da un URL.
func CleanURL(url string) string {
	if idx := strings.Index(url, "?"); idx != -1 {
		url = url[:idx]
	}
	return strings.TrimSuffix(url, "/")
}

// CleanURLsInFile pulisce la colonna "Sito Web" riscrivendo il file tramite
// un file temporaneo.
func CleanURLsInFile(filePath string) error {
	t, err := ReadTable(filePath, ',')
	if err != nil {
		return err
	}

	urlIdx, err := t.MustIndex(ColSitoWeb)
	if err != nil {
		return err
	}

	for i, row := range t.Rows {
		if urlIdx < len(row) {
			t.Rows[i][urlIdx] = CleanURL(row[urlIdx])
		}
	}

	tempFilePath := filePath + ".tmp"
	if err := WriteTable(tempFilePath, ',', t.Header, t.Rows); err != nil {
		os.Remove(tempFilePath)
		return err
	}

	// Su Windows il file può restare bloccato per qualche istante.
	const maxRetries = 5
	for attempt := 1; ; attempt++ {
		err = os.Rename(tempFilePath, filePath)
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			os.Remove(tempFilePath)
			return fmt.Errorf("errore durante il rinominare il file temporaneo: %w", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// CleanURLsInDir applica CleanURLsInFile a tutti i CSV della directory.
// Gli errori sui singoli file vengono registrati e non interrompono il ciclo.
func CleanURLsInDir(dir string, log logrus.FieldLogger) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return 0, fmt.Errorf("errore nella scansione dei file CSV: %w", err)
	}

	cleaned := 0
	for _, file := range files {
		if err := CleanURLsInFile(file); err != nil {
			log.WithError(err).WithField("file", file).Warn("pulizia URL non riuscita")
			continue
		}
		cleaned++
	}
	return cleaned, nil
}

// Categories restituisce le categorie distinte in ordine alfabetico.
func Categories(t *Table) ([]string, error) {
	idx, err := t.MustIndex(ColCategoria)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, row := range t.Rows {
		if idx < len(row) {
			set[strings.TrimSpace(row[idx])] = struct{}{}
		}
	}

	list := make([]string, 0, len(set))
	for c := range set {
		list = append(list, c)
	}
	sort.Strings(list)
	return list, nil
}

// FilterByCategory mantiene solo le righe con una delle categorie indicate.
func FilterByCategory(t *Table, categories []string) ([][]string, error) {
	idx, err := t.MustIndex(ColCategoria)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(categories))
	for _, c := range categories {
		selected[strings.TrimSpace(c)] = true
	}

	var filtered [][]string
	for _, row := range t.Rows {
		if idx < len(row) && selected[strings.TrimSpace(row[idx])] {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}
