package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedRequest means the first line does not carry a method and a path.
var ErrMalformedRequest = errors.New("malformed request")

var headerTerminator = []byte("\r\n\r\n")

// Request is the decoded operation descriptor.
type Request struct {
	Method string
	Path   string
	// Fields holds the top-level keys of the JSON body plus "endpoint".
	Fields map[string]json.RawMessage
}

// DecodeRequest turns a raw request buffer into a Request. Only POST
// requests carry a body; a body that is not a JSON object decodes to no fields.
func DecodeRequest(buf []byte) (*Request, error) {
	firstLine := buf
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		firstLine = buf[:i]
	}
	tokens := strings.Fields(string(firstLine))
	if len(tokens) < 2 {
		return nil, ErrMalformedRequest
	}

	req := &Request{
		Method: tokens[0],
		Path:   tokens[1],
		Fields: map[string]json.RawMessage{},
	}

	if req.Method == "POST" {
		if i := bytes.Index(buf, headerTerminator); i >= 0 {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(buf[i+len(headerTerminator):], &fields); err == nil && fields != nil {
				req.Fields = fields
			}
		}
	}

	endpoint, _ := json.Marshal(req.Path)
	req.Fields["endpoint"] = endpoint
	return req, nil
}

// Body re-encodes Fields as the JSON object handlers bind from.
func (r *Request) Body() []byte {
	body, err := json.Marshal(r.Fields)
	if err != nil {
		return []byte("{}")
	}
	return body
}

// requestComplete reports whether buf holds the header block and, when a
// Content-Length header is present, the whole body.
func requestComplete(buf []byte) bool {
	i := bytes.Index(buf, headerTerminator)
	if i < 0 {
		return false
	}
	return len(buf)-i-len(headerTerminator) >= contentLength(buf[:i])
}

func contentLength(header []byte) int {
	for _, line := range strings.Split(string(header), "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}
