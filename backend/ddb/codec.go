/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// documentAttribute holds the document's original JSON text. The decomposed
// attributes serve queries; reads return this text so field order survives.
const documentAttribute = "_doc"

// documentToItem converts a JSON object into a DynamoDB item. Numbers keep
// their textual form so large integers survive the round trip.
func documentToItem(body []byte) (map[string]types.AttributeValue, error) {
	v, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document is not a JSON object")
	}
	item := make(map[string]types.AttributeValue, len(obj))
	for k, field := range obj {
		av, err := toAttributeValue(field)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		item[k] = av
	}
	item[documentAttribute] = &types.AttributeValueMemberS{Value: string(body)}
	return item, nil
}

// itemToDocument returns the stored JSON text of an item, or rebuilds a JSON
// object from its attributes when the text is absent (projections, items
// written by other tools).
func itemToDocument(item map[string]types.AttributeValue) (json.RawMessage, error) {
	if s, ok := item[documentAttribute].(*types.AttributeValueMemberS); ok && json.Valid([]byte(s.Value)) {
		return json.RawMessage(s.Value), nil
	}
	obj := make(map[string]any, len(item))
	for k, av := range item {
		if k == documentAttribute {
			continue
		}
		v, err := fromAttributeValue(av)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		obj[k] = v
	}
	return json.Marshal(obj)
}

// attributeValueOf converts an arbitrary Go value through its JSON form.
func attributeValueOf(value any) (types.AttributeValue, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	v, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}
	return toAttributeValue(v)
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func toAttributeValue(v any) (types.AttributeValue, error) {
	switch tv := v.(type) {
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case bool:
		return &types.AttributeValueMemberBOOL{Value: tv}, nil
	case string:
		return &types.AttributeValueMemberS{Value: tv}, nil
	case json.Number:
		return &types.AttributeValueMemberN{Value: tv.String()}, nil
	case []any:
		list := make([]types.AttributeValue, 0, len(tv))
		for _, elem := range tv {
			av, err := toAttributeValue(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, av)
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case map[string]any:
		m := make(map[string]types.AttributeValue, len(tv))
		for k, elem := range tv {
			av, err := toAttributeValue(elem)
			if err != nil {
				return nil, err
			}
			m[k] = av
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value %T", v)
	}
}

func fromAttributeValue(av types.AttributeValue) (any, error) {
	switch tv := av.(type) {
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberBOOL:
		return tv.Value, nil
	case *types.AttributeValueMemberS:
		return tv.Value, nil
	case *types.AttributeValueMemberN:
		return json.Number(tv.Value), nil
	case *types.AttributeValueMemberB:
		return base64.StdEncoding.EncodeToString(tv.Value), nil
	case *types.AttributeValueMemberSS:
		out := make([]any, len(tv.Value))
		for i, s := range tv.Value {
			out[i] = s
		}
		return out, nil
	case *types.AttributeValueMemberNS:
		out := make([]any, len(tv.Value))
		for i, n := range tv.Value {
			out[i] = json.Number(n)
		}
		return out, nil
	case *types.AttributeValueMemberBS:
		out := make([]any, len(tv.Value))
		for i, b := range tv.Value {
			out[i] = base64.StdEncoding.EncodeToString(b)
		}
		return out, nil
	case *types.AttributeValueMemberL:
		out := make([]any, 0, len(tv.Value))
		for _, elem := range tv.Value {
			v, err := fromAttributeValue(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *types.AttributeValueMemberM:
		out := make(map[string]any, len(tv.Value))
		for k, elem := range tv.Value {
			v, err := fromAttributeValue(elem)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported attribute value %T", av)
	}
}
