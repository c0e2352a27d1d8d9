package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/phil-mansfield/vecinterp/io"
	"github.com/phil-mansfield/vecinterp/logging"
)

// FileGroup contains utility files for writing profiles to.
type FileGroup struct {
	prof *os.File
}

// Close stops profiling and closes the files inside FileGroup.
func (fg *FileGroup) Close() error {
	if fg.prof != nil {
		pprof.StopCPUProfile()
		return fg.prof.Close()
	}
	return nil
}

func main() {
	var (
		resampleStr, gridStr, inspectStr string
		exampleConfig                    string
		threads                          int
		logLevel, logFormat, profileFile string
	)
	vars := map[string]*string{
		"Resample":      &resampleStr,
		"Grid":          &gridStr,
		"Inspect":       &inspectStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.IntVar(
		&threads, "Threads", runtime.NumCPU(),
		"Number of threads used. Default is the number of logical cores.",
	)
	flag.StringVar(
		&resampleStr, "Resample", "",
		"Configuration file for [Resample] mode.",
	)
	flag.StringVar(
		&gridStr, "Grid", "", "Configuration file for [Grid] mode.",
	)
	flag.StringVar(
		&inspectStr, "Inspect", "",
		"Model file whose contents are summarized to stdout.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. Accepted arguments are 'Resample' "+
			"and 'Grid'.",
	)
	flag.StringVar(
		&logLevel, "LogLevel", "info",
		"Minimum level logged: 'debug', 'info', 'warn', or 'error'.",
	)
	flag.StringVar(
		&logFormat, "LogFormat", "text", "Log format: 'text' or 'json'.",
	)
	flag.StringVar(
		&profileFile, "ProfileFile", "",
		"File that a CPU profile is written to.",
	)

	flag.Parse()

	logger, err := logging.New(os.Stderr, logFormat, logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	modeName, err := getModeName(vars)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(2)
	}

	fg := &FileGroup{}
	if profileFile != "" {
		if fg.prof, err = os.Create(profileFile); err != nil {
			logger.Error("could not create profile", "error", err)
			os.Exit(1)
		}
		if err = pprof.StartCPUProfile(fg.prof); err != nil {
			logger.Error("could not start profile", "error", err)
			os.Exit(1)
		}
	}

	err = run(context.Background(), logger.WithMode(modeName), modeName, vars, threads)
	if cerr := fg.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logger.Error(modeName+" failed", "error", err)
		os.Exit(1)
	}
}

// run calls the secondary main function of the given mode.
func run(
	ctx context.Context, logger *logging.Logger, modeName string,
	vars map[string]*string, threads int,
) error {
	switch modeName {
	case "Resample":
		con, err := io.ReadResampleConfig(*vars["Resample"])
		if err != nil {
			return err
		}
		return resampleMain(ctx, logger, con, threads)

	case "Grid":
		con, err := io.ReadGridConfig(*vars["Grid"])
		if err != nil {
			return err
		}
		return gridMain(ctx, logger, con, threads)

	case "Inspect":
		return inspectMain(os.Stdout, *vars["Inspect"])

	case "ExampleConfig":
		switch *vars["ExampleConfig"] {
		case "Resample":
			fmt.Println(io.ExampleResampleFile)
		case "Grid":
			fmt.Println(io.ExampleGridFile)
		default:
			return fmt.Errorf(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Resample' and 'Grid'.",
			)
		}
		return nil
	}
	panic("Impossible")
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		sort.Strings(setNames)
		return "", fmt.Errorf(
			"The following flags were set: %s, but vecinterp "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// readColumns reads the given columns of a table in any order, allowing
// repeats.
func readColumns(fname string, colIdxs []int) ([][]float64, error) {
	unique := []int{}
	seen := map[int]bool{}
	for _, c := range colIdxs {
		if !seen[c] {
			seen[c] = true
			unique = append(unique, c)
		}
	}
	sort.Ints(unique)

	cols, err := io.ReadColumns(fname, unique)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(colIdxs))
	for i, c := range colIdxs {
		out[i] = cols[sort.SearchInts(unique, c)]
	}
	return out, nil
}

// writeColumns writes a table to the file fname.
func writeColumns(fname string, header []string, cols ...[]float64) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := io.WriteColumns(f, header, cols...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
