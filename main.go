package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cmmlang/cmmc/compiler"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	IR_SUFFIX    = ".ir"
	IR_CACHE_DIR = "ir"
)

// Exit statuses.
const (
	exitOK      = 0
	exitCompile = 1 // syntax or semantic errors
	exitUsage   = 2 // bad flags or I/O failure
)

// defaultCMMCache returns CMMCACHE if set, otherwise the platform cache
// directory for windows, mac and linux.
func defaultCMMCache() string {
	if env := os.Getenv("CMMCACHE"); env != "" {
		return env
	}

	homeDir, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LocalAppData"); localAppData != "" {
			return filepath.Join(localAppData, "cmmc")
		}
		return filepath.Join(homeDir, "AppData", "Local", "cmmc")

	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches", "cmmc")

	default: // Linux and others
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "cmmc")
		}
		return filepath.Join(homeDir, ".cache", "cmmc")
	}
}

func setupLogger(level string, w io.Writer) *zap.Logger {
	al := zap.NewAtomicLevel()
	switch strings.ToUpper(level) {
	case "DEBUG":
		al.SetLevel(zap.DebugLevel)
	case "INFO":
		al.SetLevel(zap.InfoLevel)
	case "ERROR":
		al.SetLevel(zap.ErrorLevel)
	case "WARN":
		al.SetLevel(zap.WarnLevel)
	default:
		al.SetLevel(zap.InfoLevel)
	}
	ec := zap.NewDevelopmentEncoderConfig()
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), al))
}

// outputPath replaces the source extension with IR_SUFFIX.
func outputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + IR_SUFFIX
}

// run is main without the process: it reads from and writes to fs, prints
// diagnostics to stdout and logs to stderr, and returns the exit status.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("cmmc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		output   = flags.StringP("output", "o", "", "Path of the IR file. Defaults to the source path with "+IR_SUFFIX)
		cacheDir = flags.String("cache-dir", defaultCMMCache(), "Directory of the IR cache. Overrides CMMCACHE")
		noCache  = flags.Bool("no-cache", false, "Always compile, bypassing the IR cache")
		logLevel = flags.String("log-level", "INFO", "Logging level. Supported levels: DEBUG, INFO, WARN, ERROR")
		version  = flags.Bool("version", false, "Print version information and exit")
	)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: cmmc [flags] <file.cmm>")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if *version {
		printVersion(stdout)
		return exitOK
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return exitUsage
	}

	logger := setupLogger(*logLevel, stderr)
	defer logger.Sync()

	srcPath := flags.Arg(0)
	src, err := afero.ReadFile(fs, srcPath)
	if err != nil {
		logger.Error("failed to read source", zap.String("path", srcPath), zap.Error(err))
		return exitUsage
	}

	build := func() (*cacheEntry, error) {
		var diag bytes.Buffer
		res, err := compiler.Compile(filepath.Base(srcPath), string(src), &diag, compiler.WithLogger(logger))
		entry := &cacheEntry{Diagnostics: diag.String()}
		if res != nil {
			entry.IR = res.IR
		}
		return entry, err
	}

	var entry *cacheEntry
	if *noCache {
		entry, err = build()
	} else {
		cache := newIRCache(fs, filepath.Join(*cacheDir, IR_CACHE_DIR), logger)
		entry, err = cache.getOrCompile(src, build)
	}
	if entry != nil {
		io.WriteString(stdout, entry.Diagnostics)
	}
	switch {
	case errors.Is(err, compiler.ErrSyntax), errors.Is(err, compiler.ErrSemantic):
		logger.Debug("compilation failed", zap.String("path", srcPath), zap.Error(err))
		return exitCompile
	case err != nil:
		logger.Error("compilation failed", zap.String("path", srcPath), zap.Error(err))
		return exitUsage
	}

	outPath := *output
	if outPath == "" {
		outPath = outputPath(srcPath)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create output directory", zap.String("path", dir), zap.Error(err))
			return exitUsage
		}
	}
	if err := afero.WriteFile(fs, outPath, []byte(entry.IR), 0644); err != nil {
		logger.Error("failed to write IR", zap.String("path", outPath), zap.Error(err))
		return exitUsage
	}
	logger.Info("wrote IR", zap.String("path", outPath))
	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}
