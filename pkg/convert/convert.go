// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package convert parses query-string values.
//
// The Opt helpers keep "absent" apart from "zero": empty input gives
// (nil, nil) and malformed input gives an error rather than 0.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToIntD parses raw as an int, falling back to def when it is empty or bad.
func ToIntD(raw string, def int) int {
	if value, err := strconv.Atoi(raw); err == nil {
		return value
	}
	return def
}

func OptInt(raw string) (*int, error) {
	return optional(raw, "an integer", strconv.Atoi)
}

// OptFloat64 rejects NaN and the infinities along with malformed input.
func OptFloat64(raw string) (*float64, error) {
	return optional(raw, "a finite number", func(s string) (float64, error) {
		value, err := strconv.ParseFloat(s, 64)
		if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
			return 0, strconv.ErrSyntax
		}
		return value, err
	})
}

// OptBool accepts the strconv.ParseBool spellings ("true", "1", "f", ...).
func OptBool(raw string) (*bool, error) {
	return optional(raw, "a boolean", strconv.ParseBool)
}

func optional[T any](raw, kind string, parse func(string) (T, error)) (*T, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("convert: %q is not %s", raw, kind)
	}
	return &value, nil
}
