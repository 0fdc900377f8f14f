// Rill CLI - compiles and runs Rill programs.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"rill/compiler"
	"rill/manifest"
	"rill/vm"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose diagnostics")
	interactive := flag.Bool("i", false, "Start interactive REPL")
	evalExpr := flag.String("e", "", "Evaluate an expression and print the result")
	storePath := flag.String("store", "", "Program store path (overrides rill.toml)")
	save := flag.Bool("save", false, "Store compiled programs instead of running them")
	runHash := flag.String("hash", "", "Run a stored program by content hash")
	list := flag.Bool("list", false, "List stored programs")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rill [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles and runs .rl sources; .rlc files are precompiled programs.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  rill -i                  # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  rill -e '(+ 3 4)'        # Evaluate an expression\n")
		fmt.Fprintf(os.Stderr, "  rill main.rl             # Compile and run a source file\n")
		fmt.Fprintf(os.Stderr, "  rill -save main.rl       # Compile into the program store\n")
		fmt.Fprintf(os.Stderr, "  rill -hash <sha256>      # Run a stored program\n")
		fmt.Fprintf(os.Stderr, "  rill -list               # List stored programs\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	machine := vm.New()

	// A rill.toml above the working directory supplies defaults.
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *storePath == "" && m != nil {
		*storePath = m.StorePath()
	}

	if *list || *runHash != "" || *save {
		if err := withStore(machine, *storePath, *list, *runHash, *save, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *evalExpr != "" {
		result, err := evalSource(machine, "-e", *evalExpr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(machine.Format(result))
		return
	}

	files := flag.Args()
	if len(files) == 0 && m != nil && m.EntryPath() != "" {
		files = []string{m.EntryPath()}
	}
	for _, path := range files {
		if _, err := runFile(machine, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive || len(files) == 0 {
		runREPL(machine)
	}
}

// evalSource compiles and executes one source string.
func evalSource(machine *vm.VM, name, src string) (vm.Value, error) {
	fn, err := compiler.NewCompiler(machine).CompileSource(name, src)
	if err != nil {
		return vm.Nil, err
	}
	return machine.ExecuteBytecode(fn), nil
}

// runFile compiles and executes a source file, or decodes and executes
// a precompiled one.
func runFile(machine *vm.VM, path string) (vm.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return vm.Nil, err
	}
	if filepath.Ext(path) == ".rlc" {
		fn, err := machine.DecodeFunc(data)
		if err != nil {
			return vm.Nil, fmt.Errorf("%s: %w", path, err)
		}
		return machine.ExecuteBytecode(fn), nil
	}
	return evalSource(machine, path, string(data))
}

// withStore handles the program-store subcommands: list, run by hash
// and save.
func withStore(machine *vm.VM, path string, list bool, runHash string, save bool, files []string) error {
	if path == "" {
		return fmt.Errorf("no program store configured (use -store or a rill.toml)")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	store, err := vm.OpenProgramStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if list {
		infos, err := store.List()
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Printf("%s  %s\n", info.Hash, info.Name)
		}
		return nil
	}

	if runHash != "" {
		fn, err := store.Get(machine, runHash)
		if err != nil {
			return err
		}
		fmt.Println(machine.Format(machine.ExecuteBytecode(fn)))
		return nil
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		fn, err := compiler.NewCompiler(machine).CompileSource(file, string(data))
		if err != nil {
			return err
		}
		hash, err := store.Put(machine, fn)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", hash, file)
	}
	return nil
}

// runREPL starts an interactive read-eval-print loop.
func runREPL(machine *vm.VM) {
	fmt.Println("Rill REPL (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		result, err := evalSource(machine, "repl", line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(machine.Format(result))
	}
}
