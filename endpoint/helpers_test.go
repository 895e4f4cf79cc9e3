package endpoint

import (
	"context"
	"errors"
	"fmt"
)

type FetchRequest struct {
	VideoID  string `json:"video_id"`
	Language string `json:"language"`
}

type Subtitle struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type SubtitleService struct{}

func (s *SubtitleService) Fetch(req FetchRequest) ([]Subtitle, error) {
	if req.VideoID == "" {
		return nil, errors.New("missing video_id")
	}
	return []Subtitle{
		{Start: 0, End: 1.5, Text: fmt.Sprintf("%s/%s", req.VideoID, req.Language)},
	}, nil
}

func (s *SubtitleService) Ping() string {
	return "pong"
}

func (s *SubtitleService) Languages(ctx context.Context) ([]string, error) {
	return []string{"en", "fr"}, ctx.Err()
}

func (s *SubtitleService) Echo(args map[string]interface{}) map[string]interface{} {
	return args
}

func (s *SubtitleService) Fail() error {
	return errors.New("failed on purpose")
}

func (s *SubtitleService) Unsupported(a, b string) string {
	return a + b
}

func newTestServer() *Server {
	srv := &Server{
		AllowedOrigins: []string{"http://www.example.com"},
	}
	if err := srv.Register("", &SubtitleService{}); err != nil {
		panic(err)
	}
	return srv
}
