package command

import "strings"

// Token is a raw key=value pair as it appeared on the command line,
// before alias resolution.
type Token struct {
	Key   string
	Value string
}

// Tokenize splits a raw command line into a verb phrase and an ordered
// sequence of key=value tokens.
//
// The verb phrase is the run of leading words up to the first key=value
// token. A value is either a double-quoted string (may contain whitespace;
// the first closing quote ends it) or an unquoted run of non-whitespace
// characters. Bare words appearing after the first key=value token are
// ignored, matching the loose command-bar input this grammar serves.
func Tokenize(line string) (verb string, tokens []Token, err error) {
	var verbWords []string
	i := 0
	n := len(line)

	for i < n {
		// Skip whitespace between tokens.
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		start := i
		for i < n && line[i] != ' ' && line[i] != '\t' && line[i] != '=' {
			i++
		}
		key := line[start:i]

		if i >= n || line[i] != '=' {
			// Bare word: part of the verb phrase until the first token.
			if len(tokens) == 0 {
				verbWords = append(verbWords, key)
			}
			continue
		}

		// line[i] == '='
		if key == "" {
			return "", nil, &TokenizeError{Pos: i, Reason: "'=' with no key before it"}
		}
		i++ // consume '='

		var value string
		if i < n && line[i] == '"' {
			i++ // consume opening quote
			close := strings.IndexByte(line[i:], '"')
			if close < 0 {
				return "", nil, &TokenizeError{Pos: start, Reason: "unterminated quoted value for key " + key}
			}
			value = line[i : i+close]
			i += close + 1
		} else {
			vStart := i
			for i < n && line[i] != ' ' && line[i] != '\t' {
				i++
			}
			value = line[vStart:i]
		}

		tokens = append(tokens, Token{Key: key, Value: value})
	}

	return strings.Join(verbWords, " "), tokens, nil
}
