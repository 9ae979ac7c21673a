package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/filippoaprilee/effemmeweb-helper/config"
)

// app contiene lo stato condiviso dai comandi, inizializzato prima di ogni esecuzione.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *logrus.Entry
}

var (
	title     = color.New(color.FgCyan, color.Bold).SprintFunc()
	section   = color.New(color.FgGreen, color.Bold).SprintFunc()
	highlight = color.New(color.FgYellow, color.Bold).SprintFunc()
	important = color.New(color.FgRed, color.Bold).SprintFunc()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, important("Errore: ")+err.Error())
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "effemmeweb",
		Short:         "Strumenti per la preparazione dei dati anagrafici e dei siti dei clienti",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			printBanner()
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "file di configurazione (default "+config.DefaultFile+")")

	root.AddCommand(
		newNomiCmd(a),
		newComuniCmd(a),
		newCSVCmd(a),
		newSQLCmd(a),
		newSitoCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	a.log = logger.WithFields(logrus.Fields{
		"run_id":  uuid.New().String(),
		"comando": cmd.CommandPath(),
	})

	return nil
}

func newLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("livello di log non valido: %w", err)
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

func printBanner() {
	banner := `
=====================================================================
                 🚀 EFFEMMEWEB HELPER 🚀
=====================================================================`

	fmt.Println(title(centerText(banner, terminalWidth())))
	fmt.Println()
	fmt.Println(section("📘 COMANDI:"))
	fmt.Printf("   ➤ %s: divide i nominativi in COGNOME e NOME.\n", highlight("nomi"))
	fmt.Printf("   ➤ %s: estrae l'elenco dei comuni da Wikipedia.\n", highlight("comuni"))
	fmt.Printf("   ➤ %s: duplicati, sesso, ID comuni, unione e pulizia dei CSV.\n", highlight("csv"))
	fmt.Printf("   ➤ %s: genera e divide gli script SQL di import.\n", highlight("sql"))
	fmt.Printf("   ➤ %s: analizza hosting, DNS e tecnologie di un sito.\n", highlight("sito"))
	fmt.Println()
	fmt.Printf("   - %s\n\n", important("Puoi interrompere l'esecuzione in sicurezza usando CTRL+C."))
}

// terminalWidth restituisce la larghezza del terminale, 80 se non rilevabile.
func terminalWidth() int {
	cmd := exec.Command("tput", "cols")
	cmd.Stdin = os.Stdin
	out, err := cmd.Output()
	if err != nil {
		return 80
	}
	width, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func centerText(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if padding := (width - utf8.RuneCountInString(line)) / 2; padding > 0 {
			lines[i] = strings.Repeat(" ", padding) + line
		}
	}
	return strings.Join(lines, "\n")
}

// done stampa il riepilogo finale di un comando su stderr, lasciando
// stdout ai dati quando l'output è "-".
func done(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.New(color.FgGreen).Sprintf("✅ "+format, args...))
}
