/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	offsetLimitPattern = regexp.MustCompile(`(?is)\s*offset\s+(\d+)\s+limit\s+(\d+)\s*$`)
	placeholderPattern = regexp.MustCompile(`^@[A-Za-z_][A-Za-z0-9_]*$`)
)

// filterSpec is a parsed query: a filter document plus an optional window.
type filterSpec struct {
	filter bson.D
	skip   int64
	limit  int64 // 0 when unlimited
	empty  bool  // LIMIT 0
}

// parseFilter reads a relaxed Extended JSON filter, optionally followed by
// "OFFSET n LIMIT m", and substitutes bound parameters for every string value
// that is exactly a placeholder such as "@name".
func parseFilter(text string, params map[string]any) (filterSpec, error) {
	spec := filterSpec{filter: bson.D{}}
	if loc := offsetLimitPattern.FindStringSubmatchIndex(text); loc != nil {
		var err error
		if spec.skip, err = strconv.ParseInt(text[loc[2]:loc[3]], 10, 64); err != nil {
			return filterSpec{}, fmt.Errorf("invalid OFFSET: %w", err)
		}
		if spec.limit, err = strconv.ParseInt(text[loc[4]:loc[5]], 10, 64); err != nil {
			return filterSpec{}, fmt.Errorf("invalid LIMIT: %w", err)
		}
		spec.empty = spec.limit == 0
		text = text[:loc[0]]
	}

	if strings.TrimSpace(text) == "" {
		return spec, nil
	}
	var filter bson.D
	if err := bson.UnmarshalExtJSON([]byte(text), false, &filter); err != nil {
		return filterSpec{}, fmt.Errorf("filter is not an Extended JSON document: %w", err)
	}
	bound, err := bind(filter, params)
	if err != nil {
		return filterSpec{}, err
	}
	spec.filter = bound.(bson.D)
	return spec, nil
}

func bind(v any, params map[string]any) (any, error) {
	switch tv := v.(type) {
	case string:
		if !placeholderPattern.MatchString(tv) {
			return tv, nil
		}
		value, ok := params[tv]
		if !ok {
			return nil, fmt.Errorf("parameter %s is not bound", tv)
		}
		return value, nil
	case bson.D:
		out := make(bson.D, 0, len(tv))
		for _, e := range tv {
			bv, err := bind(e.Value, params)
			if err != nil {
				return nil, err
			}
			out = append(out, bson.E{Key: e.Key, Value: bv})
		}
		return out, nil
	case bson.A:
		out := make(bson.A, 0, len(tv))
		for _, elem := range tv {
			bv, err := bind(elem, params)
			if err != nil {
				return nil, err
			}
			out = append(out, bv)
		}
		return out, nil
	default:
		return v, nil
	}
}
