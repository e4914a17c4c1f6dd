package capture

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"unicode"
)

// CameraCommand builds the capture process from a command template.
// {file} and {uri} are substituted; with neither present the path is
// appended as the last argument.
func CameraCommand(template string, shot Shot) (*exec.Cmd, error) {
	args, err := splitShellWords(template)
	if err != nil {
		return nil, fmt.Errorf("camera command: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("camera command is empty")
	}

	placed := false
	for i, a := range args {
		if strings.Contains(a, "{file}") || strings.Contains(a, "{uri}") {
			a = strings.ReplaceAll(a, "{file}", shot.Path)
			a = strings.ReplaceAll(a, "{uri}", shot.URI)
			args[i] = a
			placed = true
		}
	}
	if !placed {
		args = append(args, shot.Path)
	}
	return exec.Command(args[0], args[1:]...), nil
}

var errUnclosedQuote = errors.New("unclosed quote")

// wordBuilder collects argv. A word is open once any part of it is seen,
// so '' still yields an empty argument.
type wordBuilder struct {
	words []string
	cur   strings.Builder
	open  bool
}

func (b *wordBuilder) write(s string) {
	b.cur.WriteString(s)
	b.open = true
}

func (b *wordBuilder) end() {
	if !b.open {
		return
	}
	b.words = append(b.words, b.cur.String())
	b.cur.Reset()
	b.open = false
}

// splitShellWords splits a command line the way a POSIX shell would,
// without expansions: '...' is literal, "..." only unescapes \" \\ \$ and
// \`, and a bare backslash keeps the next character.
func splitShellWords(s string) ([]string, error) {
	var b wordBuilder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; {
		case unicode.IsSpace(r):
			b.end()
		case r == '\\':
			if i+1 == len(rs) {
				return nil, errors.New("trailing backslash")
			}
			i++
			b.write(string(rs[i]))
		case r == '\'':
			n := slices.Index(rs[i+1:], '\'')
			if n < 0 {
				return nil, errUnclosedQuote
			}
			b.write(string(rs[i+1 : i+1+n]))
			i += n + 1
		case r == '"':
			b.write("")
			i++
			for ; i < len(rs) && rs[i] != '"'; i++ {
				if rs[i] == '\\' && i+1 < len(rs) && strings.ContainsRune("\"\\$`", rs[i+1]) {
					i++
				}
				b.cur.WriteRune(rs[i])
			}
			if i == len(rs) {
				return nil, errUnclosedQuote
			}
		default:
			b.write(string(r))
		}
	}
	b.end()
	return b.words, nil
}
