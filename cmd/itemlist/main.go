// Command itemlist is the front-end for the local inventory list: it only
// invokes store/sheet/vision operations and renders their results.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/yctseng/itemlist/internal/config"
	"github.com/yctseng/itemlist/internal/imaging"
	"github.com/yctseng/itemlist/internal/model"
	"github.com/yctseng/itemlist/internal/storage"
	"github.com/yctseng/itemlist/internal/store"
	"github.com/yctseng/itemlist/internal/vision"
)

const usage = `Usage: itemlist [flags] <command> [command flags]

Commands:
  add       add a new item
  edit      edit an existing item by id
  rm        delete an item by id
  list      show the (searched, sorted) item list
  import    import items from an .xlsx file
  export    export all items to an .xlsx file
  analyze   guess item fields from a photo

Flags:
  -config <path>   YAML config file (default: none)
  -store <path>    collection blob path; .sqlite3/.db selects SQLite
                   (default: inventory_local_data.json)
  -h, -help        show this help and exit

Run "itemlist <command> -h" for command flags.
`

func main() {
	fs := flag.NewFlagSet("itemlist", flag.ContinueOnError)
	configPath := fs.String("config", "", "")
	storePath := fs.String("store", "", "")
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}

	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, fs.Arg(0), fs.Args()[1:]); err != nil {
		slog.Error("command failed", "command", fs.Arg(0), "error", err)
		os.Exit(1)
	}
}

// setupLogger installs a tint handler on stderr, colored only on a TTY.
func setupLogger(cfg config.Config) {
	level, _ := cfg.Level() // validated in config.Load
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
}

func run(ctx context.Context, cfg config.Config, command string, args []string) error {
	switch command {
	case "add":
		return cmdAdd(ctx, cfg, args)
	case "edit":
		return cmdEdit(cfg, args)
	case "rm":
		return cmdRemove(cfg, args)
	case "list":
		return cmdList(cfg, args)
	case "import":
		return cmdImport(cfg, args)
	case "export":
		return cmdExport(cfg, args)
	case "analyze":
		return cmdAnalyze(ctx, cfg, args)
	default:
		fmt.Fprint(os.Stdout, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// openStore opens the blob at the configured path and loads the store.
func openStore(cfg config.Config) (*store.Store, error) {
	blob, err := storage.Open(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(blob)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// newVisionClient builds the analysis client from the configured
// credential, preferring a service-account key over a plain API key.
func newVisionClient(cfg config.Config) (*vision.Client, error) {
	if cfg.ServiceAccountKey != "" {
		account, err := vision.LoadServiceAccount(cfg.ServiceAccountKey)
		if err != nil {
			return nil, err
		}
		return vision.NewServiceAccountClient(account), nil
	}
	if cfg.GeminiAPIKey != "" {
		return vision.NewClient(cfg.GeminiAPIKey), nil
	}
	return nil, fmt.Errorf("no Gemini credential configured (set GEMINI_API_KEY or a config file)")
}

// loadPhoto reads an image file and normalizes it into a stored data URI.
func loadPhoto(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}
	return imaging.Normalize(data)
}

// confirm asks the user a yes/no question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// warnIfUnsaved downgrades a flush failure to a warning: the change is
// applied in memory (and printed), it just may not survive this
// invocation. Any other error is passed through.
func warnIfUnsaved(err error) error {
	if errors.Is(err, model.ErrPersistence) {
		slog.Warn("change applied but could not be saved to storage", "error", err)
		return nil
	}
	return err
}
