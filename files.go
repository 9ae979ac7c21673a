package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// openInput apre un file di input; "-" indica lo standard input.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("impossibile aprire il file di input: %w", err)
	}
	return f, nil
}

// outputFile è un file di output scritto su un file temporaneo e rinominato
// solo a scrittura completata, così un errore non lascia file a metà.
type outputFile struct {
	*os.File
	path string
}

func createOutput(path string) (*outputFile, error) {
	if path == "-" {
		return &outputFile{File: os.Stdout}, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("errore nella creazione della directory di output: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".effemmeweb-*")
	if err != nil {
		return nil, fmt.Errorf("errore nella creazione del file di output: %w", err)
	}
	// CreateTemp usa 0600, il file finale deve avere i permessi di os.Create
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("errore nella creazione del file di output: %w", err)
	}

	return &outputFile{File: tmp, path: path}, nil
}

// Commit chiude il file e lo sposta nella destinazione finale.
func (o *outputFile) Commit() error {
	if o.path == "" {
		return nil
	}
	if err := o.File.Close(); err != nil {
		os.Remove(o.File.Name())
		return err
	}
	if err := os.Rename(o.File.Name(), o.path); err != nil {
		os.Remove(o.File.Name())
		return fmt.Errorf("errore durante il salvataggio di %s: %w", o.path, err)
	}
	return nil
}

// Discard elimina il file temporaneo; non fa nulla dopo Commit.
func (o *outputFile) Discard() {
	if o.path == "" {
		return
	}
	o.File.Close()
	os.Remove(o.File.Name())
}
