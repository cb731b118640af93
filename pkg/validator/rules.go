package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// FCM topic names.
var topicRegex = regexp.MustCompile(`^[a-zA-Z0-9\-_.~%]{1,900}$`)

func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required", Code: "required"},
	}
}

func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
			Code:    "max_length",
		},
	}
}

// ValidEmail accepts a bare RFC 5322 address whose domain has at least one dot.
// Display-name forms ("Bob <bob@example.com>") are rejected.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != strings.TrimSpace(value) {
				return false
			}
			at := strings.LastIndex(addr.Address, "@")
			if at <= 0 {
				return false
			}
			domain := addr.Address[at+1:]
			if !strings.Contains(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address", Code: "email"},
	}
}

func InListString(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
			Code:    "in_list",
		},
	}
}

func RequiredSlice[T any](field string, value []T) Rule {
	return Rule{
		Check: func() bool { return len(value) > 0 },
		Error: ValidationError{Field: field, Message: "field is required", Code: "required"},
	}
}

func MaxLenSlice[T any](field string, value []T, max int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must have at most %d items", max),
			Code:    "max_items",
		},
	}
}

// NoEmptyStrings rejects slices containing blank entries.
func NoEmptyStrings(field string, value []string) Rule {
	return Rule{
		Check: func() bool {
			for _, v := range value {
				if strings.TrimSpace(v) == "" {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must not contain empty values", Code: "empty_item"},
	}
}

// RequiredJSON fails when a raw JSON value is absent or null. Any other JSON
// value, including {} and "", passes.
func RequiredJSON(field string, value json.RawMessage) Rule {
	return Rule{
		Check: func() bool {
			v := bytes.TrimSpace(value)
			return len(v) > 0 && !bytes.Equal(v, []byte("null"))
		},
		Error: ValidationError{Field: field, Message: "field is required", Code: "required"},
	}
}

// ExactlyOne passes when exactly one of the given flags is set. field names
// the group in the error.
func ExactlyOne(field string, set ...bool) Rule {
	return Rule{
		Check: func() bool {
			n := 0
			for _, s := range set {
				if s {
					n++
				}
			}
			return n == 1
		},
		Error: ValidationError{Field: field, Message: "exactly one must be provided", Code: "exactly_one"},
	}
}

// ValidTopic checks a push topic name against the FCM topic alphabet.
func ValidTopic(field, value string) Rule {
	return Rule{
		Check: func() bool { return topicRegex.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must be a valid topic name", Code: "topic"},
	}
}

// RequiredMap fails on a nil map. An empty, non-nil map passes, so a JSON
// object "{}" is accepted and an absent field or null is not.
func RequiredMap[K comparable, V any](field string, value map[K]V) Rule {
	return Rule{
		Check: func() bool { return value != nil },
		Error: ValidationError{Field: field, Message: "field is required", Code: "required"},
	}
}
