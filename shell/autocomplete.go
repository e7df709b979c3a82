package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter completes command names and the arguments of set.
type ShellCompleter struct{}

func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

var commandNames = []string{
	"new", "load", "show", "play", "bot", "undo", "eval", "set",
	"selfplay", "analyze", "help", "exit",
}

var setArgs = map[string][]string{
	"":   {"budget", "depth", "tt"},
	"tt": {"on", "off"},
}

// Do implements readline.AutoCompleter.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string
	switch {
	case len(fields) == 0 || (len(fields) == 1 && !endsWithSpace):
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	case fields[0] == "set" || fields[0] == "help":
		args := fields[1:]
		if !endsWithSpace {
			prefix = args[len(args)-1]
			args = args[:len(args)-1]
		}
		if fields[0] == "help" {
			if len(args) == 0 {
				completions = []string{"set", "load", "selfplay"}
			}
			break
		}
		switch len(args) {
		case 0:
			completions = setArgs[""]
		case 1:
			completions = setArgs[args[0]]
		}
	}

	var out [][]rune
	for _, cand := range completions {
		if strings.HasPrefix(cand, prefix) {
			out = append(out, []rune(cand[len(prefix):]+" "))
		}
	}
	return out, len([]rune(prefix))
}
