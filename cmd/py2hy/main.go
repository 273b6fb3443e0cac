// Command py2hy translates Python source files into Hy.
//
//	py2hy [flags] file.py...
//
// Every file.py is written next to its source as file.hy, or into the
// directory given with -o, keeping the directories of relative inputs.
// Without files the program reads Python from
// standard input and writes Hy to standard output.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xiam/py2hy"
	"github.com/xiam/py2hy/internal/pyparse"
	"golang.org/x/sync/errgroup"
)

var (
	flagOutput      = flag.String("o", "", "write .hy files into `dir`")
	flagJobs        = flag.Int("j", runtime.GOMAXPROCS(0), "translate up to `n` files at once")
	flagWidth       = flag.Int("width", 80, "lay forms out for `n` columns, 0 writes one line per form")
	flagPython      = flag.String("python", pyparse.DefaultPython, "python interpreter used to parse sources")
	flagVerify      = flag.Bool("verify", false, "read the output back and check it")
	flagVerbose     = flag.Bool("v", false, "log every file")
	flagInteractive = flag.Bool("i", false, "translate interactively")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: py2hy [flags] [file.py ...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New(os.Stderr, "py2hy: ", 0)

	opts := py2hy.DefaultOptions()
	opts.Parallelism = *flagJobs
	opts.Width = *flagWidth
	opts.Verify = *flagVerify
	if *flagVerbose {
		opts.Logger = logger
	}

	tr := py2hy.NewTranslator(&opts)
	parser := pyparse.New(*flagPython)
	if !parser.Available() {
		logger.Fatalf("%s not found, use -python", *flagPython)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *flagInteractive {
		if err := repl(ctx, tr, parser); err != nil {
			logger.Fatal(err)
		}
		return
	}

	if flag.NArg() == 0 {
		if err := translateStdin(ctx, tr, parser); err != nil {
			logger.Fatal(err)
		}
		return
	}

	paths, err := outputPaths(*flagOutput, flag.Args())
	if err != nil {
		logger.Fatal(err)
	}
	if failed := translateFiles(ctx, tr, parser, flag.Args(), paths, logger); failed > 0 {
		logger.Printf("%d of %d files failed", failed, flag.NArg())
		os.Exit(1)
	}
}

func translateStdin(ctx context.Context, tr *py2hy.Translator, parser *pyparse.Parser) error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	mod, err := parser.Parse(ctx, "<stdin>", src)
	if err != nil {
		return err
	}
	out, err := tr.Source(mod)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// translateFiles parses and translates files, writing each one to the path
// paths holds for it, and returns how many failed.
func translateFiles(ctx context.Context, tr *py2hy.Translator, parser *pyparse.Parser, files []string, paths map[string]string, logger *log.Logger) int {
	units := make([]py2hy.Unit, len(files))
	parseErrs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(tr.Options().Parallelism)
	for i, file := range files {
		i, file := i, file
		units[i].Name = file
		g.Go(func() error {
			units[i].Module, parseErrs[i] = parser.ParseFile(ctx, file)
			return nil
		})
	}
	_ = g.Wait()

	var pending []py2hy.Unit
	for i := range units {
		if parseErrs[i] == nil {
			pending = append(pending, units[i])
		}
	}
	results := tr.TranslateUnits(ctx, pending)

	failed := 0
	for i, file := range files {
		if parseErrs[i] != nil {
			logger.Printf("%s: %v", file, parseErrs[i])
			failed++
		}
	}
	for _, res := range results {
		if res.Err != nil {
			logger.Print(res.Err)
			failed++
			continue
		}
		if err := writeOutput(paths[res.Name], res.Source); err != nil {
			logger.Print(err)
			failed++
		}
	}
	return failed
}

// outputPath returns where the translation of file goes. With a dir, a
// relative input keeps its directories below dir and any other input is
// placed directly in it.
func outputPath(dir, file string) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ".hy"
	if dir == "" {
		return filepath.Join(filepath.Dir(file), name)
	}
	rel := filepath.Clean(file)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Join(dir, name)
	}
	return filepath.Join(dir, filepath.Dir(rel), name)
}

// outputPaths maps every file to its output path and fails when two files
// would be written to the same place.
func outputPaths(dir string, files []string) (map[string]string, error) {
	paths := make(map[string]string, len(files))
	owners := make(map[string]string, len(files))
	for _, file := range files {
		path := outputPath(dir, file)
		if prev, ok := owners[path]; ok {
			return nil, fmt.Errorf("%s and %s both translate to %s", prev, file, path)
		}
		owners[path] = file
		paths[file] = path
	}
	return paths, nil
}

func writeOutput(path string, src []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, src, 0o644)
}
