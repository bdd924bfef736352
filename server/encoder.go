package server

import (
	"bytes"
	"io"
	"net/http"
)

// responseHead is written before every body. The status line is always
// 200; success or failure lives in the body's "status" field.
const responseHead = "HTTP/1.1 200 OK\r\n" +
	"Access-Control-Allow-Origin: *\r\n" +
	"Content-Type: application/json\r\n\r\n"

// EncodeResponse writes the fixed envelope around body.
func EncodeResponse(w io.Writer, body []byte) error {
	msg := make([]byte, 0, len(responseHead)+len(body))
	msg = append(msg, responseHead...)
	msg = append(msg, body...)
	_, err := w.Write(msg)
	return err
}

// responseBuffer captures what a handler writes so the TCP layer can frame it.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}}
}

func (b *responseBuffer) Header() http.Header {
	return b.header
}

func (b *responseBuffer) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}
