package cli

import (
	"strconv"
	"strings"

	"zenflow/internal/errors"
)

// options holds key=value arguments. A key may repeat.
type options map[string][]string

// parseArgs splits args into words and key=value options. Only the allowed keys are options;
// any other token containing '=' stays a word.
func parseArgs(args []string, allowed ...string) ([]string, options) {
	opts := options{}
	var words []string
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if found && contains(allowed, key) {
			opts[key] = append(opts[key], value)
			continue
		}
		words = append(words, arg)
	}
	return words, opts
}

// last returns the final value given for key
func (o options) last(key string) (string, bool) {
	values := o[key]
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// str returns a pointer to the last value of key, nil when absent
func (o options) str(key string) *string {
	if v, ok := o.last(key); ok {
		return &v
	}
	return nil
}

// list returns every value of key, comma separated values split out
func (o options) list(key string) []string {
	var out []string
	for _, v := range o[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// int returns the last value of key as an integer
func (o options) int(key string) (*int, error) {
	v, ok := o.last(key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.NewInvalidInputError(key, v, "must be a whole number")
	}
	return &n, nil
}

// bool returns the last value of key as a boolean
func (o options) bool(key string) (*bool, error) {
	v, ok := o.last(key)
	if !ok {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.NewInvalidInputError(key, v, "must be true or false")
	}
	return &b, nil
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
