// Package curlparse extracts a URL and request headers from a pasted curl
// command line. Backends often document their schema endpoint as a ready-made
// curl invocation including auth headers; this lets users paste it verbatim
// instead of re-entering each header.
//
// This is glue around the generation core: only the URL, method, and headers
// are extracted. Data payloads and other curl flags are ignored.
package curlparse

import (
	"fmt"
	"strings"
)

// Request holds the parts of a curl command relevant to schema fetching.
type Request struct {
	// URL is the request target.
	URL string
	// Method is the HTTP method, "GET" unless overridden with -X.
	Method string
	// Headers holds every -H/--header value, split on the first colon.
	Headers map[string]string
}

// Parse parses a curl command string into a Request.
// The string must start with "curl"; anything else is rejected so arbitrary
// shell input is never silently interpreted.
func Parse(command string) (*Request, error) {
	args, err := splitShellWords(command)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 || args[0] != "curl" {
		return nil, fmt.Errorf("command must start with 'curl'")
	}

	req := &Request{
		Method:  "GET",
		Headers: make(map[string]string),
	}

	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-H", "--header":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			key, val, found := strings.Cut(args[i], ":")
			if found {
				req.Headers[strings.TrimSpace(key)] = strings.TrimSpace(val)
			}
		case "-X", "--request":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			req.Method = strings.ToUpper(args[i])
		case "-d", "--data", "--data-raw", "--data-binary", "-u", "--user", "-o", "--output":
			// Flags with a value we don't care about; skip the value.
			i++
		default:
			if !strings.HasPrefix(arg, "-") && req.URL == "" {
				// The URL is the only positional argument.
				req.URL = arg
			}
		}
	}

	if req.URL == "" {
		return nil, fmt.Errorf("could not extract URL from curl command")
	}
	return req, nil
}

// splitShellWords splits a command line into words honoring single and
// double quotes, roughly like a POSIX shell without expansions.
func splitShellWords(s string) ([]string, error) {
	var words []string
	var current strings.Builder
	inWord := false
	var quote rune

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\\':
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unbalanced %c quote", quote)
	}
	if inWord {
		words = append(words, current.String())
	}
	return words, nil
}
