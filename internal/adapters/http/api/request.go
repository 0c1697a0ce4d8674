package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 64 << 10

// scoreRequest mirrors the OpenAPI schema for POST /api/leaderboard.
// Score is kept raw because clients send it as a number or a numeric string.
type scoreRequest struct {
	Name  json.RawMessage `json:"name"`
	Score json.RawMessage `json:"score"`
}

// scoreSubmission is a validated scoreRequest.
type scoreSubmission struct {
	Name  string
	Score float64
}

func decodeScoreRequest(w http.ResponseWriter, r *http.Request) (scoreSubmission, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return scoreSubmission{}, fmt.Errorf("%w: %w", ErrValidation, ErrBodyTooBig)
		}
		return scoreSubmission{}, fmt.Errorf("%w: read body: %w", ErrValidation, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return scoreSubmission{}, fmt.Errorf("%w: body must be a JSON object", ErrValidation)
	}
	var req scoreRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return scoreSubmission{}, fmt.Errorf("%w: decode body: %w", ErrValidation, err)
	}
	return req.validate()
}

func (req scoreRequest) validate() (scoreSubmission, error) {
	name, err := parseName(req.Name)
	if err != nil {
		return scoreSubmission{}, err
	}
	score, err := parseScore(req.Score)
	if err != nil {
		return scoreSubmission{}, err
	}
	return scoreSubmission{Name: name, Score: score}, nil
}

func parseName(raw json.RawMessage) (string, error) {
	if !isJSONString(raw) {
		return "", fmt.Errorf("%w: missing name", ErrValidation)
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", fmt.Errorf("%w: name: %w", ErrValidation, err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrValidation)
	}
	return name, nil
}

// parseScore accepts a JSON number or a JSON string holding a number.
func parseScore(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: missing score", ErrValidation)
	}

	var score float64
	if isJSONString(raw) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: score: %w", ErrValidation, err)
		}
		s = strings.TrimSpace(s)
		if !isDecimal(s) {
			return 0, fmt.Errorf("%w: score %q is not a decimal number", ErrValidation, s)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: score %q is not a number", ErrValidation, s)
		}
		score = v
	} else if err := json.Unmarshal(raw, &score); err != nil {
		return 0, fmt.Errorf("%w: score: %w", ErrValidation, err)
	}

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: score must be finite", ErrValidation)
	}
	return score, nil
}

// isDecimal limits numeric strings to the JSON number grammar's characters:
// sign, digits, a decimal point and an exponent. Hex, underscores and words
// such as "Inf" are rejected before ParseFloat sees them.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '+', r == '-', r == '.', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

func isJSONString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) >= 2 && raw[0] == '"'
}
