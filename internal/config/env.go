package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

// envReader reads typed values from the first set key among alternatives.
// Parse failures are collected and returned by Err.
type envReader struct {
	lookup func(key string) (string, bool)
	errs   []error
}

func (e *envReader) first(keys []string) (key, value string, ok bool) {
	for _, k := range keys {
		if v, ok := e.lookup(k); ok {
			return k, v, true
		}
	}
	return "", "", false
}

// String returns the first set value of keys or def
func (e *envReader) String(def string, keys ...string) string {
	if _, v, ok := e.first(keys); ok {
		return v
	}
	return def
}

// Bool parses the first set value of keys with strconv.ParseBool
func (e *envReader) Bool(def bool, keys ...string) bool {
	key, v, ok := e.first(keys)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be a boolean, got %q", key, v))
		return def
	}
	return b
}

// Int parses the first set value of keys as a decimal integer
func (e *envReader) Int(def int, keys ...string) int {
	key, v, ok := e.first(keys)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return def
	}
	return n
}

// List splits the first set value of keys on commas, dropping blank items
func (e *envReader) List(def []string, keys ...string) []string {
	_, v, ok := e.first(keys)
	if !ok {
		return def
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return def
	}
	return items
}

// Err returns every parse failure seen so far
func (e *envReader) Err() error {
	return errors.Join(e.errs...)
}
