package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"collegeprep/config"
	"collegeprep/feature"
	"collegeprep/genai"
	"collegeprep/history"
	"collegeprep/logger"
	"collegeprep/pipeline"
	"collegeprep/server"
	"collegeprep/store"
)

// formFlags collects repeated -set key=value flags into a form snapshot.
type formFlags map[string]string

func (f formFlags) String() string { return "" }

func (f formFlags) Set(kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", kv)
	}
	f[key] = value
	return nil
}

func main() {
	_ = godotenv.Load()

	form := formFlags{}
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	serve := flag.Bool("serve", false, "start the generation proxy server")
	addr := flag.String("addr", "", "listen address when -serve (overrides config)")
	featureName := flag.String("feature", "", "feature to run: "+strings.Join(feature.Names(), ", "))
	flag.Var(form, "set", "form field as key=value (repeatable)")
	restore := flag.String("restore", "", "print the last persisted output of a feature")
	export := flag.Bool("export", false, "write the feature's plain-text artifact after a run")
	exportDir := flag.String("export-dir", ".", "directory for exported artifacts")
	semesters := flag.Int("semesters", 0, "set GPA semester count (2 or 3)")
	semester := flag.Int("semester", 0, "select the current GPA semester")
	deleteEntry := flag.Int("delete-entry", -1, "delete the GPA history entry at this index")
	clearHistory := flag.Bool("clear-history", false, "clear the current semester's GPA history")
	resetHistory := flag.Bool("reset-history", false, "reset all GPA history to defaults")
	showHistory := flag.Bool("show-history", false, "print the GPA history record")
	premiumKey := flag.String("premium", "", "activate the local premium flag with a key")
	theme := flag.String("theme", "", "set the theme preference (light or dark)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Default()

	// Proxy server mode.
	if *serve {
		client, err := buildClient(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		srv, err := server.New(client, cfg.Server)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.Server.Addr
		if *addr != "" {
			listen = *addr
		}
		log.Info("starting generation proxy", "addr", listen)
		if err := http.ListenAndServe(listen, srv.Handler()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	hist := history.New(st)
	snaps := history.NewSnapshots(st)
	prefs := feature.NewPrefs(st)
	premium := store.NewPremium(st)

	switch {
	case *theme != "":
		if err := prefs.SetTheme(*theme); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return

	case *premiumKey != "":
		if err := premium.Activate(*premiumKey); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("premium flag active (cosmetic only)")
		return

	case *semesters != 0:
		exitOnErr(hist.ChangeSemesterCount(*semesters))
		return
	case *semester != 0:
		exitOnErr(hist.ChangeCurrentSemester(*semester))
		return
	case *deleteEntry >= 0:
		exitOnErr(hist.DeleteEntry(*deleteEntry))
		return
	case *clearHistory:
		exitOnErr(hist.ClearCurrentSemester())
		return
	case *resetHistory:
		exitOnErr(hist.ResetAll())
		return
	case *showHistory:
		printHistory(hist.Record())
		return
	}

	client, err := buildClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pipe := pipeline.New(client, st)
	runner := feature.NewRunner(pipe, st, hist, snaps)

	if *restore != "" {
		html, err := runner.LastOutput(*restore)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(html)
		return
	}

	if *featureName == "" {
		flag.Usage()
		os.Exit(2)
	}

	outcome, err := runner.Run(context.Background(), *featureName, map[string]string(form), consoleTarget{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if outcome.Failure != nil {
		os.Exit(1)
	}

	if *export {
		def, _ := feature.Lookup(*featureName)
		exporter := pipeline.NewExporter(*exportDir)
		path, err := exporter.ExportMarkdown(def.ExportFile, outcome.Text)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Info("exported artifact", "path", path)
	}
}

// buildClient selects the generation backend from config.
func buildClient(cfg *config.Config) (genai.Client, error) {
	switch cfg.Provider {
	case "gemini":
		return genai.NewGeminiClient(cfg.Gemini.Endpoint, cfg.GeminiAPIKey(), nil)
	case "openai":
		return genai.NewOpenAIClient(&genai.OpenAISettings{
			Model:   cfg.OpenAI.Model,
			APIKey:  cfg.OpenAIAPIKey(),
			BaseURL: cfg.OpenAI.BaseURL,
		})
	case "proxy":
		return genai.NewProxyClient(cfg.Proxy.BaseURL, nil)
	case "mock":
		return genai.MockClient{}, nil
	default:
		return nil, fmt.Errorf("provider %s not supported", cfg.Provider)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.OpenRedisStore(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB)
	default:
		return store.OpenFileStore(cfg.Store.DataDir)
	}
}

// consoleTarget plays the output panel's role for one-shot runs.
type consoleTarget struct{}

func (consoleTarget) ShowGenerating() {
	fmt.Fprintln(os.Stderr, "Generating...")
}

func (consoleTarget) ShowHTML(html string) {
	fmt.Println(html)
}

func (consoleTarget) ShowError(message string) {
	fmt.Fprintln(os.Stderr, "Error: "+message)
}

func printHistory(rec history.Record) {
	fmt.Printf("semesters: %d (current %d)\n", rec.SemesterCount, rec.CurrentSemester)
	for i := 1; i <= rec.SemesterCount; i++ {
		entries := rec.History[fmt.Sprint(i)]
		fmt.Printf("semester %d: %d entries\n", i, len(entries))
		for j, e := range entries {
			fmt.Printf("  [%d] %s (%s)\n", j, e.Title, e.Date)
		}
	}
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
