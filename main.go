package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/m-manu/rfind/bytesutil"
	"github.com/m-manu/rfind/config"
	"github.com/m-manu/rfind/filter"
	"github.com/m-manu/rfind/fmte"
	"github.com/m-manu/rfind/format"
	rsfs "github.com/m-manu/rfind/fs"
	"github.com/m-manu/rfind/lib"
	"github.com/m-manu/rfind/remote"
	"github.com/m-manu/rfind/service"
	"github.com/spf13/pflag"
)

const version = "v1.0.0"

// Constants indicating return codes of this tool, when run from command line
const (
	exitCodeSuccess = iota
	exitCodeInvalidNumArgs
	exitCodeInvalidFilter
	exitCodeExclusionFilesError
	exitCodeConfigError
	exitCodeInvalidLocation
	exitCodeConnectError
	exitCodeTraversalError
	exitCodeAgentError
	exitCodeUnexpectedError
)

type cliFlags struct {
	flagSet        *pflag.FlagSet
	isHelp         func() bool
	isVersion      func() bool
	isAgent        func() bool
	isLong         func() bool
	isVerbose      func() bool
	isQuiet        func() bool
	getType        func() string
	getName        func() string
	getExclusions  func() []string
	getExclusionsF func() string
	getConfigPath  func() string
	getSSHKeyPath  func() string
	isForceSFTP    func() bool
}

func setupFlags(stderr io.Writer) *cliFlags {
	fs := pflag.NewFlagSet("rfind", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Run \"rfind --help\" for usage\n")
	}
	helpPtr := fs.BoolP("help", "h", false, "display help")
	versionPtr := fs.Bool("version", false, "display version")
	agentPtr := fs.Bool("agent", false, "serve directory listings over stdin/stdout (used by remote-execution mode)")
	_ = fs.MarkHidden("agent")
	longPtr := fs.BoolP("long", "l", false, "print entries in long (ls -l like) format")
	verbosePtr := fs.BoolP("verbose", "v", false, "print progress and a summary to standard error")
	quietPtr := fs.BoolP("quiet", "q", false, "don't print warnings to standard error")
	typePtr := fs.String("type", "", "type of entry to display: f (files) or d (directories)")
	namePtr := fs.String("name", "", "display only entries whose name matches this shell pattern")
	exclusionsPtr := fs.StringArray("exclude", nil, "hide entries with this exact name (can be repeated)")
	exclusionsFilePtr := fs.String("exclusions", "", "path to file containing newline separated list of names to hide")
	configPtr := fs.String("config", "", fmt.Sprintf("path to configuration file (default %s)", config.DefaultConfigPath()))
	sshKeyPtr := fs.String("ssh-key", "", "SSH private key for [user@]host:path locations")
	sftpPtr := fs.Bool("sftp", false, "always use SFTP for [user@]host:path locations, even if rfind is installed remotely")
	return &cliFlags{
		flagSet:        fs,
		isHelp:         func() bool { return *helpPtr },
		isVersion:      func() bool { return *versionPtr },
		isAgent:        func() bool { return *agentPtr },
		isLong:         func() bool { return *longPtr },
		isVerbose:      func() bool { return *verbosePtr },
		isQuiet:        func() bool { return *quietPtr },
		getType:        func() string { return *typePtr },
		getName:        func() string { return *namePtr },
		getExclusions:  func() []string { return *exclusionsPtr },
		getExclusionsF: func() string { return *exclusionsFilePtr },
		getConfigPath:  func() string { return *configPtr },
		getSSHKeyPath:  func() string { return *sshKeyPtr },
		isForceSFTP:    func() bool { return *sftpPtr },
	}
}

func showHelp(flags *cliFlags, stdout io.Writer) {
	_, _ = fmt.Fprintf(stdout, `rfind is a tool to find files and directories under a local, remote (ssh/sftp) or S3 location.

Usage:
	 rfind <flags> [location]

where location is one of:
	/path/to/dir                 local directory
	[user@]host:[port:]path      directory on a remote host (via ssh)
	s3://bucket[/prefix]         S3 bucket or prefix

flags: (all optional)
`)
	flags.flagSet.SetOutput(stdout)
	flags.flagSet.PrintDefaults()
}

var exit = os.Exit

func handlePanic() {
	err := recover()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Program exited unexpectedly. "+
			"Please report the below error to the author:\n"+
			"%+v\n", err)
		_, _ = fmt.Fprintln(os.Stderr, string(debug.Stack()))
		exit(exitCodeUnexpectedError)
	}
}

// buildFilters turns the filter flags into a filter chain; bad arguments are reported before any listing
func buildFilters(flags *cliFlags) (filter.Chain, int, error) {
	var chain filter.Chain
	if typeArg := flags.getType(); typeArg != "" {
		kindFilter, err := filter.ForType(typeArg)
		if err != nil {
			return nil, exitCodeInvalidFilter, err
		}
		chain = append(chain, kindFilter)
	}
	if flags.flagSet.Changed("name") {
		nameFilter, err := filter.NewNamePatternFilter(flags.getName())
		if err != nil {
			return nil, exitCodeInvalidFilter, err
		}
		chain = append(chain, nameFilter)
	}
	exclusions := lib.LineSeparatedStrToSet("")
	if exclusionsFile := flags.getExclusionsF(); exclusionsFile != "" {
		if !lib.IsReadableFile(exclusionsFile) {
			return nil, exitCodeExclusionFilesError,
				fmt.Errorf("argument to flag --exclusions should be a readable file: %s", exclusionsFile)
		}
		fromFile, err := lib.ReadLineSeparatedFile(exclusionsFile)
		if err != nil {
			return nil, exitCodeExclusionFilesError, fmt.Errorf("argument to flag --exclusions isn't readable: %w", err)
		}
		exclusions = exclusions.Union(fromFile)
	}
	for _, name := range flags.getExclusions() {
		exclusions.Add(name)
	}
	if exclusions.Cardinality() > 0 {
		chain = append(chain, filter.NewExcludedNamesFilter(exclusions))
	}
	return chain, exitCodeSuccess, nil
}

func loadConfig(flags *cliFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.getConfigPath())
	if err != nil {
		return nil, err
	}
	if keyPath := flags.getSSHKeyPath(); keyPath != "" {
		cfg.SSH.KeyPath = keyPath
	}
	if flags.isForceSFTP() {
		cfg.SSH.ForceSFTP = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	flags := setupFlags(stderr)
	if err := flags.flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			showHelp(flags, stdout)
			return exitCodeSuccess
		}
		fmte.PrintfErr("error: %v\n", err)
		return exitCodeInvalidNumArgs
	}
	if flags.isHelp() {
		showHelp(flags, stdout)
		return exitCodeSuccess
	}
	if flags.isVersion() {
		_, _ = fmt.Fprintln(stdout, version)
		return exitCodeSuccess
	}
	if flags.isQuiet() {
		fmte.Off()
	} else if flags.isVerbose() {
		fmte.VerboseOn()
	}
	ctx := context.Background()
	if flags.isAgent() {
		if err := remote.RunAgent(ctx, os.Stdin, stdout, rsfs.NewLocalFS()); err != nil {
			fmte.PrintfErr("error: %v\n", err)
			return exitCodeAgentError
		}
		return exitCodeSuccess
	}
	if flags.flagSet.NArg() != 1 {
		fmte.PrintfErr("error: exactly one location expected\n")
		flags.flagSet.Usage()
		return exitCodeInvalidNumArgs
	}

	chain, exitCode, err := buildFilters(flags)
	if err != nil {
		fmte.PrintfErr("error: %v\n", err)
		flags.flagSet.Usage()
		return exitCode
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		fmte.PrintfErr("error: %v\n", err)
		return exitCodeConfigError
	}
	loc, err := remote.ParseLocation(flags.flagSet.Arg(0))
	if err != nil {
		fmte.PrintfErr("error: %v\n", err)
		return exitCodeInvalidLocation
	}

	if loc.IsRemote() {
		fmte.PrintfV("Connecting to %s...\n", loc.SSHSpec())
	}
	fsys, root, err := remote.Open(ctx, loc, cfg)
	if err != nil {
		fmte.PrintfErr("error: couldn't connect to %v: %v\n", loc, err)
		return exitCodeConnectError
	}
	defer func() {
		if closeErr := fsys.Close(); closeErr != nil {
			fmte.Printf("warning: error while closing connection to %v: %v\n", loc, closeErr)
		}
	}()

	var formatter format.Formatter = format.ShortFormatter{}
	if flags.isLong() {
		formatter = format.NewLongFormatter()
	}
	finder := &service.Finder{FS: fsys, Filters: chain, Formatter: formatter}

	out := bufio.NewWriter(stdout)
	start := time.Now()
	stats, findErr := finder.Find(ctx, root, func(line string) error {
		_, writeErr := fmt.Fprintln(out, line)
		return writeErr
	})
	flushErr := out.Flush()
	fmte.PrintfV("Listed %d directories with %d entries (total size %s), displayed %d, in %.1fs\n",
		stats.Directories, stats.Entries, bytesutil.BinaryFormat(stats.TotalSize), stats.Displayed,
		time.Since(start).Seconds())
	if findErr == nil {
		findErr = flushErr
	}
	if findErr != nil {
		fmte.PrintfErr("error while finding: %v\n", findErr)
		return exitCodeTraversalError
	}
	return exitCodeSuccess
}

func main() {
	defer handlePanic()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
