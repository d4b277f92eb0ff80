package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

var separator = []byte{'\r', '\n', '\r', '\n'}

// EncodeMessage frames msg with the Content-Length header required on the wire.
func EncodeMessage(msg any) string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(msg); err != nil {
		panic(err)
	}
	content := bytes.TrimRight(buf.Bytes(), "\n")
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(content), content)
}

type baseMessage struct {
	Method string `json:"method"`
}

// DecodeMessage splits one framed message into its method and raw contents.
func DecodeMessage(msg []byte) (string, []byte, error) {
	header, content, found := bytes.Cut(msg, separator)
	if !found {
		return "", nil, fmt.Errorf("no header separator found")
	}

	contentLength, err := parseContentLength(header)
	if err != nil {
		return "", nil, err
	}
	if len(content) < contentLength {
		return "", nil, fmt.Errorf("content shorter than Content-Length %d", contentLength)
	}

	var base baseMessage
	if err := json.Unmarshal(content[:contentLength], &base); err != nil {
		return "", nil, err
	}

	return base.Method, content[:contentLength], nil
}

// Split is a bufio.SplitFunc that tokenizes Content-Length framed messages.
func Split(data []byte, _ bool) (advance int, token []byte, err error) {
	header, content, found := bytes.Cut(data, separator)
	if !found {
		return 0, nil, nil
	}

	contentLength, err := parseContentLength(header)
	if err != nil {
		return 0, nil, err
	}

	if len(content) < contentLength {
		return 0, nil, nil
	}

	totalLength := len(header) + len(separator) + contentLength
	return totalLength, data[:totalLength], nil
}

func parseContentLength(header []byte) (int, error) {
	// The header block may also carry Content-Type; only Content-Length matters.
	for _, line := range bytes.Split(header, []byte("\r\n")) {
		if value, ok := bytes.CutPrefix(line, []byte("Content-Length: ")); ok {
			return strconv.Atoi(string(value))
		}
	}
	return 0, fmt.Errorf("no Content-Length header in %q", header)
}
