package resource

import (
	"context"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
)

var queryCodeCache sync.Map

// Query evaluates a jq expression against value and collects every emitted
// result. Compiled expressions are cached per expression text.
func Query(ctx context.Context, value Value, expression string) ([]Value, error) {
	trimmedExpression := strings.TrimSpace(expression)
	if trimmedExpression == "" {
		return []Value{value}, nil
	}

	code, err := cachedQueryCode(trimmedExpression)
	if err != nil {
		return nil, validationError("invalid jq expression "+trimmedExpression, err)
	}

	runCtx := ctx
	if runCtx == nil {
		runCtx = context.Background()
	}

	// gojq only understands plain JSON shapes; int64 is not one of them.
	iterator := code.RunWithContext(runCtx, toQueryInput(value))
	results := make([]Value, 0, 1)
	for {
		item, ok := iterator.Next()
		if !ok {
			break
		}
		if itemErr, isErr := item.(error); isErr {
			return nil, validationError("failed to evaluate jq expression "+trimmedExpression, itemErr)
		}
		normalized, err := Normalize(item)
		if err != nil {
			return nil, err
		}
		results = append(results, normalized)
	}
	return results, nil
}

func cachedQueryCode(expression string) (*gojq.Code, error) {
	if cached, ok := queryCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	actual, _ := queryCodeCache.LoadOrStore(expression, code)
	typed, _ := actual.(*gojq.Code)
	if typed == nil {
		return code, nil
	}
	return typed, nil
}

func toQueryInput(value any) any {
	switch typed := value.(type) {
	case int64:
		return int(typed)
	case []any:
		items := make([]any, len(typed))
		for idx, item := range typed {
			items[idx] = toQueryInput(item)
		}
		return items
	case map[string]any:
		items := make(map[string]any, len(typed))
		for key, item := range typed {
			items[key] = toQueryInput(item)
		}
		return items
	default:
		return typed
	}
}
