package oracle

import (
	"strings"
)

// ExtractCandidate pulls a candidate program out of a raw oracle response.
// The fallback order is fixed: a ```python fenced block, then the first
// fenced block of any language, then the bare trimmed text. A response with
// no extractable program returns ErrNoCandidate rather than the raw text, so
// the caller can account the attempt instead of validating garbage.
func ExtractCandidate(response string) (string, error) {
	if code, ok := fencedBlock(response, "python"); ok {
		return code, nil
	}
	if code, ok := fencedBlock(response, ""); ok {
		return code, nil
	}

	bare := strings.TrimSpace(response)
	if bare == "" {
		return "", ErrNoCandidate
	}
	return bare, nil
}

// fencedBlock returns the contents of the first ``` fence whose info string
// matches lang ("" matches any). The fence must be closed; an unterminated
// fence does not count as a candidate.
func fencedBlock(text, lang string) (string, bool) {
	rest := text
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return "", false
		}
		rest = rest[start+3:]

		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return "", false
		}
		info := strings.TrimSpace(rest[:nl])
		body := rest[nl+1:]

		end := strings.Index(body, "```")
		if end < 0 {
			return "", false
		}

		if lang == "" || strings.EqualFold(info, lang) {
			code := strings.TrimSpace(body[:end])
			if code == "" {
				return "", false
			}
			return code, true
		}
		rest = body[end+3:]
	}
}
