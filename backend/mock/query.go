/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/suparena/docstore/storagemodels"
)

var (
	offsetLimitPattern = regexp.MustCompile(`(?is)\s+offset\s+(\d+)\s+limit\s+(\d+)\s*$`)
	selectPattern      = regexp.MustCompile(`(?is)^\s*select\s+\*\s+from\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s+where\s+(.+?))?\s*$`)
	conditionPattern   = regexp.MustCompile(`(?s)^\s*([A-Za-z_][A-Za-z0-9_]*)\.([A-Za-z0-9_.]+)\s*=\s*(@[A-Za-z0-9_]+|'[^']*'|"[^"]*"|-?\d+(?:\.\d+)?|true|false|null)\s*$`)
	andPattern         = regexp.MustCompile(`(?i)\s+and\s+`)
)

type condition struct {
	path  string
	value any
}

// EvaluateQuery is the default evaluator. It understands
//
//	SELECT * FROM <alias> [WHERE <alias>.<path> = <value> [AND ...]] [OFFSET n LIMIT m]
//
// where value is a bound @parameter or a string, number, boolean or null literal.
func EvaluateQuery(docs []json.RawMessage, query storagemodels.QuerySpec) ([]json.RawMessage, error) {
	text := query.Text
	offset, limit := 0, -1
	if loc := offsetLimitPattern.FindStringSubmatchIndex(text); loc != nil {
		var err error
		if offset, err = strconv.Atoi(text[loc[2]:loc[3]]); err != nil {
			return nil, fmt.Errorf("invalid OFFSET: %w", err)
		}
		if limit, err = strconv.Atoi(text[loc[4]:loc[5]]); err != nil {
			return nil, fmt.Errorf("invalid LIMIT: %w", err)
		}
		text = text[:loc[0]]
	}

	match := selectPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, fmt.Errorf("unsupported query %q", query.Text)
	}
	conds, err := parseConditions(match[1], match[2], query.Parameters)
	if err != nil {
		return nil, err
	}

	results := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		if matchesAll(doc, conds) {
			results = append(results, doc)
		}
	}

	if offset >= len(results) {
		return []json.RawMessage{}, nil
	}
	results = results[offset:]
	if limit >= 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

func parseConditions(alias, where string, params map[string]any) ([]condition, error) {
	if strings.TrimSpace(where) == "" {
		return nil, nil
	}
	var conds []condition
	for _, clause := range andPattern.Split(where, -1) {
		m := conditionPattern.FindStringSubmatch(clause)
		if m == nil {
			return nil, fmt.Errorf("unsupported condition %q", strings.TrimSpace(clause))
		}
		if m[1] != alias {
			return nil, fmt.Errorf("unknown alias %q in condition %q", m[1], strings.TrimSpace(clause))
		}
		value, err := literal(m[3], params)
		if err != nil {
			return nil, err
		}
		conds = append(conds, condition{path: m[2], value: value})
	}
	return conds, nil
}

func literal(token string, params map[string]any) (any, error) {
	switch {
	case strings.HasPrefix(token, "@"):
		v, ok := params[token]
		if !ok {
			return nil, fmt.Errorf("parameter %s is not bound", token)
		}
		return v, nil
	case strings.HasPrefix(token, "'") || strings.HasPrefix(token, `"`):
		return token[1 : len(token)-1], nil
	case token == "true":
		return true, nil
	case token == "false":
		return false, nil
	case token == "null":
		return nil, nil
	default:
		return strconv.ParseFloat(token, 64)
	}
}

func matchesAll(doc json.RawMessage, conds []condition) bool {
	for _, c := range conds {
		if !matches(gjson.GetBytes(doc, c.path), c.value) {
			return false
		}
	}
	return true
}

func matches(res gjson.Result, want any) bool {
	switch v := want.(type) {
	case nil:
		return res.Type == gjson.Null
	case string:
		return res.Type == gjson.String && res.Str == v
	case bool:
		return res.IsBool() && res.Bool() == v
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return false
		}
		return res.Type == gjson.Number && res.Num == f
	}
}
