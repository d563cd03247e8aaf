package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JohnUja/just-vault/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "recover":
		runRecover(ctx, os.Args[2:])
	case "import":
		runImport(ctx, os.Args[2:])
	case "export":
		runExport(ctx, os.Args[2:])
	case "rm":
		runRm(ctx, os.Args[2:])
	case "ls":
		runLs(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "star":
		runStar(ctx, os.Args[2:])
	case "reset":
		runReset(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "config":
		runConfig(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// commonFlags are accepted by every command that touches the vault
type commonFlags struct {
	config  *string
	verbose *bool
	debug   *bool
}

func newFlagSet(name string) (*flag.FlagSet, commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() { printCommandHelp(name) }
	return fs, commonFlags{
		config:  fs.String("config", "", "Config file (default: user config dir)"),
		verbose: fs.Bool("v", false, "Verbose output"),
		debug:   fs.Bool("debug", false, "Debug output"),
	}
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func (c commonFlags) app() *cmd.App {
	app, err := cmd.NewApp(*c.config, *c.verbose, *c.debug)
	if err != nil {
		cmd.HandleError(err)
	}
	return app
}

func runInit(_ context.Context, args []string) {
	fs, common := newFlagSet("init")
	words := fs.Int("words", 0, "Recovery phrase length, 12 or 24 (default from config)")
	random := fs.Bool("random", false, "Random master key without a recovery phrase")
	parse(fs, args)

	cmd.Init(common.app(), *words, *random)
}

func runRecover(_ context.Context, args []string) {
	fs, common := newFlagSet("recover")
	parse(fs, args)

	cmd.Recover(common.app())
}

func runImport(ctx context.Context, args []string) {
	fs, common := newFlagSet("import")
	name := fs.String("name", "", "Display name (single file only)")
	mimeType := fs.String("mime", "", "MIME type (default: detected)")
	parse(fs, args)

	cmd.Import(ctx, common.app(), fs.Args(), *name, *mimeType)
}

func runExport(ctx context.Context, args []string) {
	fs, common := newFlagSet("export")
	out := fs.String("o", "", "Output path, - for stdout (default: display name)")
	force := fs.Bool("force", false, "Overwrite an existing output file")
	parse(fs, args)

	if fs.NArg() != 1 {
		cmd.Usagef("export requires exactly one file id")
	}
	cmd.Export(ctx, common.app(), fs.Arg(0), *out, *force)
}

func runRm(ctx context.Context, args []string) {
	fs, common := newFlagSet("rm")
	parse(fs, args)

	cmd.Remove(ctx, common.app(), fs.Args())
}

func runLs(ctx context.Context, args []string) {
	fs, common := newFlagSet("ls")
	quiet := fs.Bool("q", false, "Print file ids only")
	starred := fs.Bool("starred", false, "Starred files only")
	parse(fs, args)

	cmd.Ls(ctx, common.app(), *starred, *quiet)
}

func runStatus(ctx context.Context, args []string) {
	fs, common := newFlagSet("status")
	parse(fs, args)

	cmd.Status(ctx, common.app())
}

func runDiff(ctx context.Context, args []string) {
	fs, common := newFlagSet("diff")
	parse(fs, args)

	if fs.NArg() != 2 {
		cmd.Usagef("diff requires a file id and a local path")
	}
	cmd.Diff(ctx, common.app(), fs.Arg(0), fs.Arg(1))
}

func runStar(ctx context.Context, args []string) {
	fs, common := newFlagSet("star")
	off := fs.Bool("off", false, "Remove the star")
	parse(fs, args)

	cmd.Star(ctx, common.app(), fs.Args(), !*off)
}

func runReset(_ context.Context, args []string) {
	fs, common := newFlagSet("reset")
	force := fs.Bool("force", false, "Do not ask for confirmation")
	parse(fs, args)

	cmd.Reset(common.app(), *force)
}

func runCompact(_ context.Context, args []string) {
	fs, common := newFlagSet("compact")
	parse(fs, args)

	cmd.Compact(common.app())
}

func runKeyring(_ context.Context, args []string) {
	fs, common := newFlagSet("keyring")
	parse(fs, args)

	cmd.KeyringStatus(common.app())
}

func runConfig(_ context.Context, args []string) {
	fs, common := newFlagSet("config")
	write := fs.Bool("write", false, "Write the effective configuration to the config file")
	parse(fs, args)

	app := common.app()
	if *write {
		cmd.ConfigWrite(app)
		return
	}
	cmd.ConfigShow(app)
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: justvault completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("justvault - encrypted personal document vault")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  justvault <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Provision a master key and show the recovery phrase")
	fmt.Println("  recover     Rebuild the master key from a recovery phrase")
	fmt.Println("  import      Encrypt files into the vault")
	fmt.Println("  export      Decrypt a file from the vault")
	fmt.Println("  rm          Remove files from the vault")
	fmt.Println("  ls          List vault files")
	fmt.Println("  status      Show vault and key status")
	fmt.Println("  diff        Compare a vault file with a local file")
	fmt.Println("  star        Star or unstar files")
	fmt.Println("  reset       Delete the master key from the key store")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Show key store status")
	fmt.Println("  config      Show or write configuration")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Flags accepted by every vault command:")
	fmt.Println("  -config <path>   Config file")
	fmt.Println("  -v               Verbose output")
	fmt.Println("  -debug           Debug output")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  justvault init                        # New vault, 12-word phrase")
	fmt.Println("  justvault import passport.pdf         # Encrypt a file")
	fmt.Println("  justvault export -o copy.pdf <id>     # Decrypt it again")
	fmt.Println("  justvault status                      # Check vault status")
	fmt.Println()
	fmt.Println("Use 'justvault help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("justvault init [-words 12|24] [-random]")
		fmt.Println()
		fmt.Println("Creates the vault database and provisions a master key in the key store.")
		fmt.Println("By default the key is derived from a new BIP39 recovery phrase, which")
		fmt.Println("is printed once and never stored. Write it down.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -words    Recovery phrase length, 12 or 24")
		fmt.Println("  -random   Random key with no recovery phrase")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  justvault init")
		fmt.Println("  justvault init -words 24")
	case "recover":
		fmt.Println("justvault recover")
		fmt.Println()
		fmt.Println("Prompts for the recovery phrase and stores the master key it derives,")
		fmt.Println("replacing any key already present. Reads JUSTVAULT_PHRASE if set.")
	case "import":
		fmt.Println("justvault import [-name <name>] [-mime <type>] <file> [file...]")
		fmt.Println()
		fmt.Println("Encrypts files under new file ids. Files are encrypted in parallel and")
		fmt.Println("nothing is stored unless all of them succeed.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -name   Display name (single file only, default: base name)")
		fmt.Println("  -mime   MIME type (default: from extension or content)")
	case "export":
		fmt.Println("justvault export [-o <path>] [-force] <id>")
		fmt.Println()
		fmt.Println("Decrypts a file and verifies it against its manifest entry.")
		fmt.Println("Writes to the display name in the current directory unless -o is given.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -o       Output path, - for stdout")
		fmt.Println("  -force   Overwrite an existing output file")
	case "rm":
		fmt.Println("justvault rm <id> [id...]")
		fmt.Println()
		fmt.Println("Removes files from the vault and compacts the database.")
	case "ls":
		fmt.Println("justvault ls [-q] [-starred]")
		fmt.Println()
		fmt.Println("Lists vault files. Does not require the master key.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -q         Print file ids only")
		fmt.Println("  -starred   Starred files only")
	case "status":
		fmt.Println("justvault status")
		fmt.Println()
		fmt.Println("Shows vault details, key presence, file counts and sizes, and reports")
		fmt.Println("files whose stored data or manifest entry is missing.")
		fmt.Println()
		fmt.Println("Does not require the master key.")
	case "diff":
		fmt.Println("justvault diff <id> <local-file>")
		fmt.Println()
		fmt.Println("Shows a unified diff from the vault copy to a local file.")
	case "star":
		fmt.Println("justvault star [-off] <id> [id...]")
		fmt.Println()
		fmt.Println("Stars files, or removes the star with -off.")
	case "reset":
		fmt.Println("justvault reset [-force]")
		fmt.Println()
		fmt.Println("Deletes the master key from the key store. Encrypted files are kept and")
		fmt.Println("can be opened again after 'justvault recover'.")
	case "compact":
		fmt.Println("justvault compact")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim unused disk space.")
		fmt.Println("This is done automatically after 'rm'.")
	case "keyring":
		fmt.Println("justvault keyring")
		fmt.Println()
		fmt.Println("Shows which key store is configured and whether a master key is stored.")
	case "config":
		fmt.Println("justvault config [-write]")
		fmt.Println()
		fmt.Println("Prints the effective configuration (file, then JUSTVAULT_* overrides).")
		fmt.Println("With -write, saves it to the config file.")
	case "completion":
		fmt.Println("justvault completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(justvault completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(justvault completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  justvault completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
