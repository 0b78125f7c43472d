package leetcode

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

type dailyResponse struct {
	Question struct {
		TitleSlug string `json:"titleSlug"`
	} `json:"question"`
}

type topicTag struct {
	Name string `json:"name"`
}

type problemResponse struct {
	TitleSlug  string       `json:"titleSlug"`
	Title      string       `json:"title"`
	Difficulty string       `json:"difficulty"`
	TopicTags  []topicTag   `json:"topicTags"`
	Stats      problemStats `json:"stats"`
	URL        string       `json:"url"`
}

// problemStats is served as a JSON-encoded string, and occasionally as an object
type problemStats struct {
	ACRate string `json:"acRate"`
}

func (s *problemStats) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := sonic.Unmarshal(data, &encoded); err != nil {
			return fmt.Errorf("failed to decode stats string: %w", err)
		}
		if strings.TrimSpace(encoded) == "" {
			return nil
		}
		data = []byte(encoded)
	}

	var raw struct {
		ACRate any `json:"acRate"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode stats: %w", err)
	}
	if raw.ACRate != nil {
		s.ACRate = fmt.Sprint(raw.ACRate)
	}
	return nil
}

type submissionResponse struct {
	TitleSlug     string       `json:"titleSlug"`
	StatusDisplay string       `json:"statusDisplay"`
	Timestamp     RawTimestamp `json:"timestamp"`
}

// RawTimestamp keeps a timestamp's text whether it was sent as a JSON string or number
type RawTimestamp string

func (t *RawTimestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = RawTimestamp(s)
	default:
		*t = RawTimestamp(data)
	}
	return nil
}
