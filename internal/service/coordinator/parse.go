package coordinator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type relevancyEntry struct {
	ID        string   `json:"id"`
	Relevancy *float64 `json:"relevancy"`
}

type rankingPayload struct {
	Response    string            `json:"response"`
	Relevancies *[]relevancyEntry `json:"relevancies"`
}

// ranking is the validated form of the ranker's output.
type ranking struct {
	narrative   string
	relevancies map[string]float64
}

// parseRanking extracts the JSON object from the ranker's free text and
// validates it. Any deviation from the expected shape is an error.
func parseRanking(content string) (ranking, error) {
	object, err := extractJSONObject(content)
	if err != nil {
		return ranking{}, err
	}

	decoder := json.NewDecoder(bytes.NewReader(object))
	var payload rankingPayload
	if err := decoder.Decode(&payload); err != nil {
		return ranking{}, fmt.Errorf("decode ranking: %w", err)
	}
	if payload.Relevancies == nil {
		return ranking{}, fmt.Errorf("ranking has no relevancies field")
	}

	scores := make(map[string]float64, len(*payload.Relevancies))
	for i, entry := range *payload.Relevancies {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return ranking{}, fmt.Errorf("relevancy %d has no id", i)
		}
		if entry.Relevancy == nil {
			return ranking{}, fmt.Errorf("relevancy for %q has no score", id)
		}
		if math.IsNaN(*entry.Relevancy) || math.IsInf(*entry.Relevancy, 0) {
			return ranking{}, fmt.Errorf("relevancy for %q is not finite", id)
		}
		scores[id] = *entry.Relevancy
	}

	return ranking{
		narrative:   strings.TrimSpace(payload.Response),
		relevancies: scores,
	}, nil
}

// extractJSONObject returns the outermost {...} span of content, tolerating
// code fences and prose around it.
func extractJSONObject(content string) ([]byte, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}
	return []byte(trimmed[start : end+1]), nil
}

// cleanQuery normalizes the resolver's output into a single-line query.
func cleanQuery(raw string) string {
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.Trim(line, "`\"'")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); strings.HasPrefix(lower, "query:") {
			line = strings.Trim(strings.TrimSpace(line[len("query:"):]), "`\"'")
		}
		if line != "" {
			return strings.Join(strings.Fields(line), " ")
		}
	}
	return ""
}
