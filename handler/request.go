package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/stevemurr/bookshelf/schema"
)

// maxBodyBytes caps request bodies; larger bodies are rejected as invalid.
const maxBodyBytes = 2 << 20

var errInvalidRequest = errors.New("invalid request payload")

// bookPayloadSchema is the shape every request body must have: an object whose
// known members are strings or null. Unknown members are ignored.
var bookPayloadSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"author":      map[string]any{"type": []string{"string", "null"}},
		"title":       map[string]any{"type": []string{"string", "null"}},
		"isbn":        map[string]any{"type": []string{"string", "null"}},
		"releaseDate": map[string]any{"type": []string{"string", "null"}},
	},
}

// payload is the typed form of a request body. A nil field was absent or null.
type payload struct {
	Author      *string
	Title       *string
	ISBN        *string
	ReleaseDate *string
}

// readBody reads at most maxBodyBytes from r. ok is false if the body was
// larger than that.
func readBody(r *http.Request) (body []byte, ok bool, err error) {
	defer r.Body.Close()
	body, err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, false, err
	}
	if len(body) > maxBodyBytes {
		return nil, false, nil
	}
	return body, true, nil
}

// decodePayload parses body. It returns (nil, nil) for an empty body and
// errInvalidRequest for anything that is not a well-formed book object.
// Members are matched by exact name; "ISBN" is not "isbn".
func decodePayload(body []byte) (*payload, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	if err := schema.Validate(bookPayloadSchema, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	obj := raw.(map[string]any)
	return &payload{
		Author:      member(obj, "author"),
		Title:       member(obj, "title"),
		ISBN:        member(obj, "isbn"),
		ReleaseDate: member(obj, "releaseDate"),
	}, nil
}

// member returns obj[name] if it is a string. The schema has already rejected
// any other non-null type.
func member(obj map[string]any, name string) *string {
	v, ok := obj[name].(string)
	if !ok {
		return nil
	}
	return &v
}

// trimmed returns the trimmed value of s, or "" if s is nil.
func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// nonBlank returns a pointer to the trimmed value of s, or nil if s is nil or
// blank.
func nonBlank(s *string) *string {
	v := trimmed(s)
	if v == "" {
		return nil
	}
	return &v
}
