package bind

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// TagKey is the struct tag key that marks a bound field.
const TagKey = "bind"

// ErrInvalidTag is returned for malformed bind tags and unknown sources.
var ErrInvalidTag = errors.New("invalid bind tag")

// Options is the parsed configuration of one bound field.
type Options struct {
	// Source selects the scopes searched for candidates.
	Source Source
	// Strict turns more than one candidate into a failure instead of
	// picking the first one.
	Strict bool
}

// DefaultOptions returns the options of an empty tag: source=self, strict.
func DefaultOptions() Options {
	return Options{Source: Self, Strict: true}
}

// String renders the canonical tag value for o.
func (o Options) String() string {
	return "source=" + o.Source.String() + ",strict=" + strconv.FormatBool(o.Strict)
}

// Lookup reads the bind tag from a struct tag. ok is false when the field
// carries no bind tag or is explicitly skipped with `bind:"-"`.
func Lookup(tag reflect.StructTag) (opts Options, ok bool, err error) {
	value, present := tag.Lookup(TagKey)
	if !present || value == "-" {
		return Options{}, false, nil
	}

	opts, err = ParseTag(value)
	if err != nil {
		return Options{}, false, err
	}

	return opts, true, nil
}

// ParseTag parses a bind tag value.
//
// Accepted elements, comma separated:
//
//	source=<name>        one of self, child, self_or_child, parent, self_or_parent, any
//	strict=<bool>
//	strict | nonstrict   shorthand for strict=true / strict=false
//	<name>               bare source name, only as the first element
func ParseTag(value string) (Options, error) {
	opts := DefaultOptions()

	value = strings.TrimSpace(value)
	if value == "" {
		return opts, nil
	}

	var seenSource, seenStrict bool

	for i, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, val, hasValue := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch {
		case key == "source" && hasValue:
			if seenSource {
				return Options{}, fmt.Errorf("%w: source given twice in %q", ErrInvalidTag, value)
			}

			src, err := ParseSource(val)
			if err != nil {
				return Options{}, err
			}

			opts.Source = src
			seenSource = true

		case key == "strict":
			if seenStrict {
				return Options{}, fmt.Errorf("%w: strict given twice in %q", ErrInvalidTag, value)
			}

			strict := true
			if hasValue {
				b, err := strconv.ParseBool(val)
				if err != nil {
					return Options{}, fmt.Errorf("%w: strict=%q is not a boolean", ErrInvalidTag, val)
				}

				strict = b
			}

			opts.Strict = strict
			seenStrict = true

		case key == "nonstrict" && !hasValue:
			if seenStrict {
				return Options{}, fmt.Errorf("%w: strict given twice in %q", ErrInvalidTag, value)
			}

			opts.Strict = false
			seenStrict = true

		case i == 0 && !hasValue:
			src, err := ParseSource(key)
			if err != nil {
				return Options{}, err
			}

			opts.Source = src
			seenSource = true

		default:
			return Options{}, fmt.Errorf("%w: unexpected element %q", ErrInvalidTag, part)
		}
	}

	return opts, nil
}
