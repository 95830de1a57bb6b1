package models

import (
	"encoding/json"
	"math"
)

// The Parse* helpers turn loosely-typed JSON values (as decoded into `any`)
// into typed fields, so a wrong JSON type surfaces as the field's validation
// error rather than a generic decode failure.

func ParseUserID(v any) (int64, error) {
	id, ok := toInteger(v)
	if !ok || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}

func ParseAccountID(v any) (int64, error) {
	id, ok := toInteger(v)
	if !ok || id <= 0 || id > MaxAccountID {
		return 0, ErrInvalidAccountID
	}
	return id, nil
}

func ParseAmount(v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, ErrInvalidAmount
	}
	return f, nil
}

func ParseBalanceAfter(v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, ErrInvalidBalanceAfter
	}
	return f, nil
}

// ParseOptionalBalance returns nil for an absent or null balance.
func ParseOptionalBalance(v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil, ErrInvalidBalance
	}
	return &f, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
