// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	// KakaoMemoURL is the "send to me" default-template endpoint
	KakaoMemoURL = "https://kapi.kakao.com/v2/api/talk/memo/default/send"

	kakaoLinkURL  = "https://developers.kakao.com"
	kakaoTimeout  = 15 * time.Second
	maxErrorBody  = 4096
	kakaoSinkName = "kakao"
)

func init() {
	Register(kakaoSinkName, func() Sink { return NewKakaoSink() })
}

// 💬 kakaoTemplate is the default text template object
type kakaoTemplate struct {
	ObjectType string    `json:"object_type"`
	Text       string    `json:"text"`
	Link       kakaoLink `json:"link"`
}

type kakaoLink struct {
	WebURL string `json:"web_url"`
}

// 💬 KakaoSink sends a KakaoTalk memo to the token owner
type KakaoSink struct {
	endpoint string
	client   *http.Client
}

// 🔧 KakaoOption configures a KakaoSink
type KakaoOption func(*KakaoSink)

// WithEndpoint overrides the memo endpoint
func WithEndpoint(endpoint string) KakaoOption {
	return func(s *KakaoSink) { s.endpoint = endpoint }
}

// WithHTTPClient sets the base client used under the bearer transport
func WithHTTPClient(client *http.Client) KakaoOption {
	return func(s *KakaoSink) { s.client = client }
}

// 🏭 NewKakaoSink creates a Kakao memo sink
func NewKakaoSink(opts ...KakaoOption) *KakaoSink {
	s := &KakaoSink{
		endpoint: KakaoMemoURL,
		client:   &http.Client{Timeout: kakaoTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// 📤 Send posts message as a text memo using the access token credential
func (s *KakaoSink) Send(ctx context.Context, credential, message string) *Result {
	logger := zerolog.Ctx(ctx)

	if credential == "" {
		return Failed(0, "Missing Kakao access token")
	}

	payload, err := json.Marshal(kakaoTemplate{
		ObjectType: "text",
		Text:       message,
		Link:       kakaoLink{WebURL: kakaoLinkURL},
	})
	if err != nil {
		return Failed(0, fmt.Sprintf("Kakao request failed: encoding template: %v", err))
	}
	form := url.Values{"template_object": {string(payload)}}

	ctx, cancel := context.WithTimeout(ctx, kakaoTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Failed(0, fmt.Sprintf("Kakao request failed: %v", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	// the oauth2 transport adds "Authorization: Bearer <token>"
	client := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, s.client),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential}),
	)

	resp, err := client.Do(req)
	if err != nil {
		return Failed(0, fmt.Sprintf("Kakao request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			body = []byte("(failed to read response)")
		}
		return Failed(resp.StatusCode, fmt.Sprintf("Kakao API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	logger.Debug().Int("status", resp.StatusCode).Msg("kakao memo delivered")
	return OK(resp.StatusCode)
}
