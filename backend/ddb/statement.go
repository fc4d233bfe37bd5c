/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var offsetLimitPattern = regexp.MustCompile(`(?is)\s+offset\s+(\d+)\s+limit\s+(\d+)\s*$`)

// window is the OFFSET/LIMIT clause PartiQL lacks; the cursor applies it.
type window struct {
	offset int
	limit  int // -1 when unlimited
}

type tokenKind int

const (
	tokSpace tokenKind = iota
	tokIdent
	tokParam
	tokString
	tokQuoted
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

// statement is a query rewritten for ExecuteStatement.
type statement struct {
	text   string
	args   []types.AttributeValue
	window window
}

// rewriteStatement turns a SQL-like document query into PartiQL against table:
// the first FROM alias becomes the quoted table name, alias-qualified paths
// become quoted attribute paths and @name placeholders become positional
// parameters bound from params.
func rewriteStatement(text, table string, params map[string]any) (statement, error) {
	w := window{limit: -1}
	if loc := offsetLimitPattern.FindStringSubmatchIndex(text); loc != nil {
		var err error
		if w.offset, err = strconv.Atoi(text[loc[2]:loc[3]]); err != nil {
			return statement{}, fmt.Errorf("invalid OFFSET: %w", err)
		}
		if w.limit, err = strconv.Atoi(text[loc[4]:loc[5]]); err != nil {
			return statement{}, fmt.Errorf("invalid LIMIT: %w", err)
		}
		text = text[:loc[0]]
	}

	toks, err := lex(text)
	if err != nil {
		return statement{}, err
	}

	aliasAt := -1
	for i, t := range toks {
		if t.kind == tokIdent && strings.EqualFold(t.text, "from") {
			if j := nextSignificant(toks, i+1); j >= 0 && toks[j].kind == tokIdent {
				aliasAt = j
			}
			break
		}
	}
	if aliasAt < 0 {
		return statement{}, fmt.Errorf("query %q has no FROM clause", text)
	}
	alias := toks[aliasAt].text

	var (
		sb   strings.Builder
		args []types.AttributeValue
	)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case i == aliasAt:
			sb.WriteString(quoteIdent(table))
		case t.kind == tokIdent && t.text == alias && isPathDot(toks, i+1):
			var segs []string
			for isPathDot(toks, i+1) {
				segs = append(segs, quoteIdent(toks[i+2].text))
				i += 2
			}
			sb.WriteString(strings.Join(segs, "."))
		case t.kind == tokParam:
			value, ok := params[t.text]
			if !ok {
				return statement{}, fmt.Errorf("parameter %s is not bound", t.text)
			}
			av, err := attributeValueOf(value)
			if err != nil {
				return statement{}, fmt.Errorf("parameter %s: %w", t.text, err)
			}
			args = append(args, av)
			sb.WriteString("?")
		default:
			sb.WriteString(t.text)
		}
	}

	return statement{text: strings.TrimSpace(sb.String()), args: args, window: w}, nil
}

func isPathDot(toks []token, i int) bool {
	return i+1 < len(toks) && toks[i].kind == tokOther && toks[i].text == "." &&
		(toks[i+1].kind == tokIdent)
}

func nextSignificant(toks []token, from int) int {
	for j := from; j < len(toks); j++ {
		if toks[j].kind != tokSpace {
			return j
		}
	}
	return -1
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func lex(text string) ([]token, error) {
	var toks []token
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			j := i
			for j < len(text) && strings.IndexByte(" \t\n\r", text[j]) >= 0 {
				j++
			}
			toks = append(toks, token{tokSpace, text[i:j]})
			i = j
		case c == '\'' || c == '"':
			j := i + 1
			for {
				if j >= len(text) {
					return nil, fmt.Errorf("unterminated quote at offset %d", i)
				}
				if text[j] == c {
					if j+1 < len(text) && text[j+1] == c {
						j += 2
						continue
					}
					break
				}
				j++
			}
			kind := tokString
			if c == '"' {
				kind = tokQuoted
			}
			toks = append(toks, token{kind, text[i : j+1]})
			i = j + 1
		case c == '@' && i+1 < len(text) && isIdentStart(text[i+1]):
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			toks = append(toks, token{tokParam, text[i:j]})
			i = j
		case isIdentStart(c):
			j := i
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, text[i:j]})
			i = j
		default:
			toks = append(toks, token{tokOther, text[i : i+1]})
			i++
		}
	}
	return toks, nil
}
