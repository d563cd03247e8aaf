package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_justvault() {
    local cur prev words cword
    _init_completion || return

    local commands="init recover import export rm ls status diff star reset compact keyring config help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        init)
            COMPREPLY=($(compgen -W "-words -random" -- "$cur"))
            ;;
        import)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-name -mime" -- "$cur"))
            else
                _filedir
            fi
            ;;
        export|rm|star)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-o -force -off" -- "$cur"))
            else
                local ids
                ids=$(justvault ls -q 2>/dev/null)
                COMPREPLY=($(compgen -W "$ids" -- "$cur"))
            fi
            ;;
        diff)
            if [[ $cword -eq 2 ]]; then
                local ids
                ids=$(justvault ls -q 2>/dev/null)
                COMPREPLY=($(compgen -W "$ids" -- "$cur"))
            else
                _filedir
            fi
            ;;
        ls)
            COMPREPLY=($(compgen -W "-q -starred" -- "$cur"))
            ;;
        reset)
            COMPREPLY=($(compgen -W "-force" -- "$cur"))
            ;;
        config)
            COMPREPLY=($(compgen -W "-write" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _justvault justvault
`

const zshCompletion = `#compdef justvault

_justvault() {
    local -a commands
    commands=(
        'init:Provision a master key and show the recovery phrase'
        'recover:Rebuild the master key from a recovery phrase'
        'import:Encrypt files into the vault'
        'export:Decrypt a file from the vault'
        'rm:Remove files from the vault'
        'ls:List vault files'
        'status:Show vault and key status'
        'diff:Compare a vault file with a local file'
        'star:Star or unstar files'
        'reset:Delete the master key'
        'compact:Compact vault to reclaim disk space'
        'keyring:Show key store status'
        'config:Show or write configuration'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'justvault commands' commands
            ;;
        args)
            case "${words[2]}" in
                init)
                    _arguments \
                        '-words[Recovery phrase length]:count:(12 24)' \
                        '-random[Random key without recovery phrase]'
                    ;;
                import)
                    _arguments \
                        '-name[Display name]:name:' \
                        '-mime[MIME type]:type:' \
                        '*:file:_files'
                    ;;
                export)
                    _arguments \
                        '-o[Output path]:file:_files' \
                        '-force[Overwrite existing file]' \
                        '1:vault file:_justvault_ids'
                    ;;
                rm)
                    _arguments '*:vault file:_justvault_ids'
                    ;;
                star)
                    _arguments \
                        '-off[Remove the star]' \
                        '*:vault file:_justvault_ids'
                    ;;
                diff)
                    _arguments \
                        '1:vault file:_justvault_ids' \
                        '2:local file:_files'
                    ;;
                ls)
                    _arguments \
                        '-q[Print ids only]' \
                        '-starred[Starred files only]'
                    ;;
                reset)
                    _arguments '-force[Do not ask for confirmation]'
                    ;;
                config)
                    _arguments '-write[Write the config file]'
                    ;;
                help)
                    _describe -t commands 'justvault commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_justvault_ids() {
    local -a ids
    ids=(${(f)"$(justvault ls -q 2>/dev/null)"})
    _describe -t ids 'vault files' ids
}

_justvault "$@"
`

const fishCompletion = `# justvault fish completions

set -l commands init recover import export rm ls status diff star reset compact keyring config help completion

complete -c justvault -f

# Commands
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a init -d 'Provision a master key'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a recover -d 'Recover the master key'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a import -d 'Encrypt files into the vault'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a export -d 'Decrypt a file'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove files from vault'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List vault files'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault status'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare vault with local'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a star -d 'Star files'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a reset -d 'Delete the master key'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Show key store status'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a config -d 'Show or write configuration'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c justvault -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# init flags
complete -c justvault -n "__fish_seen_subcommand_from init" -o words -x -a "12 24" -d 'Recovery phrase length'
complete -c justvault -n "__fish_seen_subcommand_from init" -o random -d 'No recovery phrase'

# import flags and files
complete -c justvault -n "__fish_seen_subcommand_from import" -o name -x -d 'Display name'
complete -c justvault -n "__fish_seen_subcommand_from import" -o mime -x -d 'MIME type'
complete -c justvault -n "__fish_seen_subcommand_from import" -F

# file ids
complete -c justvault -n "__fish_seen_subcommand_from export rm star diff" -a "(justvault ls -q 2>/dev/null)"
complete -c justvault -n "__fish_seen_subcommand_from export" -o o -r -d 'Output path'
complete -c justvault -n "__fish_seen_subcommand_from export" -o force -d 'Overwrite'
complete -c justvault -n "__fish_seen_subcommand_from star" -o off -d 'Remove the star'

# help completions
complete -c justvault -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c justvault -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
