package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jpschroeder/lispy"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole command: it evaluates -e, then any files, then piped
// stdin, and starts the REPL when none of those apply and stdin is a
// terminal.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lispy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	expr := fs.String("e", "", "evaluate `expr` and print the result")
	configPath := fs.String("config", defaultConfigPath(), "YAML config `file`")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	maxDepth := fs.Int("max-depth", 0, "maximum evaluation depth (0 uses the config or default)")
	collect := fs.Bool("collect-list", false, "make (list ...) return every element")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: lispy [flags] [file ...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger.Debug("config loaded", "path", *configPath, "max_depth", cfg.MaxDepth, "collect_list", cfg.CollectList)

	opts := lispy.Options{
		MaxDepth:    cfg.MaxDepth,
		Stdout:      stdout,
		CollectList: cfg.CollectList || *collect,
	}
	if *maxDepth > 0 {
		opts.MaxDepth = *maxDepth
	}

	in := lispy.New(opts)
	env, err := in.MakeEnv(nil)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	s := &session{in: in, env: env, logger: logger, stdout: stdout, stderr: stderr}

	switch {
	case *expr != "":
		return s.exec("-e", *expr, true)
	case fs.NArg() > 0:
		for _, path := range fs.Args() {
			src, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
			if code := s.exec(path, string(src), false); code != 0 {
				return code
			}
		}
		return 0
	case !isTerminal(stdin):
		src, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return s.exec("<stdin>", string(src), true)
	default:
		return s.repl(cfg)
	}
}

// session is one interpreter and the frame every source unit is evaluated
// in, so definitions carry over between files and REPL entries.
type session struct {
	in     *lispy.Interpreter
	env    *lispy.Env
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func (s *session) exec(name, src string, echo bool) int {
	s.logger.Debug("eval", "source", name, "bytes", len(src))
	val, err := s.in.Run(src, s.env)
	if err != nil {
		fmt.Fprintf(s.stderr, "Error: %v\n", err)
		return 1
	}
	if echo && val != nil {
		fmt.Fprintln(s.stdout, lispy.Print(val))
	}
	return 0
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
