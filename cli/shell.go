package cli

import (
	"errors"
	"fmt"
)

var commandWords = "list today inbox upcoming anytime someday logbook add todo project search open bulk stats review shell tui help version"

func (a *App) cmdShell(args []string) error {
	fs := a.flagSet("shell")
	install := fs.BoolP("install", "i", false, "show installation instructions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) < 1 || rest[0] != "completions" {
		return errors.New("usage: clings shell completions <bash|zsh|fish>")
	}
	if len(rest) < 2 {
		return errors.New("usage: clings shell completions <bash|zsh|fish>")
	}
	shell := rest[1]

	if *install {
		instructions, ok := installInstructions[shell]
		if !ok {
			return fmt.Errorf("unknown shell %q, supported: bash, zsh, fish", shell)
		}
		fmt.Fprint(a.stdout, instructions)
		return nil
	}

	script, ok := completionScripts[shell]
	if !ok {
		return fmt.Errorf("unknown shell %q, supported: bash, zsh, fish", shell)
	}
	fmt.Fprint(a.stdout, script)
	return nil
}

var completionScripts = map[string]string{
	"bash": `# bash completion for clings
_clings() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        list) COMPREPLY=($(compgen -W "today inbox upcoming anytime someday logbook areas tags projects" -- "$cur")); return ;;
        todo) COMPREPLY=($(compgen -W "show complete cancel delete update" -- "$cur")); return ;;
        project) COMPREPLY=($(compgen -W "list show add" -- "$cur")); return ;;
        bulk) COMPREPLY=($(compgen -W "complete cancel tag move set-due clear-due" -- "$cur")); return ;;
        shell) COMPREPLY=($(compgen -W "completions" -- "$cur")); return ;;
        completions) COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur")); return ;;
    esac
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=($(compgen -W "` + commandWords + `" -- "$cur"))
    fi
}
complete -F _clings clings
`,
	"zsh": `#compdef clings
_clings() {
    local -a commands
    commands=(` + commandWords + `)
    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi
    case "$words[2]" in
        list) _values 'view' today inbox upcoming anytime someday logbook areas tags projects ;;
        todo) _values 'action' show complete cancel delete update ;;
        project) _values 'action' list show add ;;
        bulk) _values 'action' complete cancel tag move set-due clear-due ;;
        shell) _values 'action' completions ;;
    esac
}
_clings "$@"
`,
	"fish": `# fish completion for clings
complete -c clings -f
complete -c clings -n "__fish_use_subcommand" -a "` + commandWords + `"
complete -c clings -n "__fish_seen_subcommand_from list" -a "today inbox upcoming anytime someday logbook areas tags projects"
complete -c clings -n "__fish_seen_subcommand_from todo" -a "show complete cancel delete update"
complete -c clings -n "__fish_seen_subcommand_from project" -a "list show add"
complete -c clings -n "__fish_seen_subcommand_from bulk" -a "complete cancel tag move set-due clear-due"
complete -c clings -n "__fish_seen_subcommand_from shell" -a "completions"
complete -c clings -l output -s o -a "pretty simple json"
`,
}

var installInstructions = map[string]string{
	"bash": `Add to ~/.bashrc:

  source <(clings shell completions bash)

Or install system-wide:

  clings shell completions bash | sudo tee /etc/bash_completion.d/clings > /dev/null
`,
	"zsh": `Write the completion to a directory on your fpath:

  mkdir -p ~/.zfunc
  clings shell completions zsh > ~/.zfunc/_clings

Then add to ~/.zshrc before compinit:

  fpath+=~/.zfunc
`,
	"fish": `Install the completion:

  clings shell completions fish > ~/.config/fish/completions/clings.fish
`,
}
