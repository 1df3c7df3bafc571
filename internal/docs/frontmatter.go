// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package docs discovers Markdown pages on disk, reads their front matter,
// and runs them through the autoref plugin.
package docs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrFrontMatter is returned when a page opens a front matter block that
// is unterminated or is not a mapping.
var ErrFrontMatter = errors.New("invalid front matter")

// frontMatterFormats maps a delimiter line to its decoder.
var frontMatterFormats = map[string]func([]byte, any) error{
	"---": yaml.Unmarshal,
	"+++": toml.Unmarshal,
}

// SplitFrontMatter separates a leading front matter block from the page
// body: YAML between "---" lines or TOML between "+++" lines. head is the
// block including both delimiter lines, byte for byte; body is everything
// after it. A page without front matter returns nil meta, an empty head,
// and the whole content as body.
func SplitFrontMatter(content string) (meta map[string]any, head, body string, err error) {
	first, rest, ok := cutLine(content)
	delim := strings.TrimRight(first, "\r\n")
	decode, known := frontMatterFormats[delim]
	if !ok || !known {
		return nil, "", content, nil
	}

	offset := len(first)
	for rest != "" {
		line, next, _ := cutLine(rest)
		offset += len(line)
		if strings.TrimRight(line, "\r\n") == delim {
			head = content[:offset]
			text := content[len(first) : offset-len(line)]
			meta = map[string]any{}
			if err := decode([]byte(text), &meta); err != nil {
				return nil, "", content, fmt.Errorf("%w: %v", ErrFrontMatter, err)
			}
			return meta, head, content[offset:], nil
		}
		rest = next
	}
	return nil, "", content, fmt.Errorf("%w: missing closing %q", ErrFrontMatter, delim)
}

// cutLine returns the first line of s including its terminator.
func cutLine(s string) (line, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i+1], s[i+1:], true
	}
	return s, "", true
}
