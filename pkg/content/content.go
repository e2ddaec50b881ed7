// Package content provides a client for the multi-platform content
// service used by mentoring workflows for social-media rendering,
// translation, and voice synthesis.
//
// The service requires every derived artifact to reference a previously
// created content record, so mutating operations create the record first
// and then issue the derived call. A record left behind by a failed
// second call is not cleaned up; the service garbage-collects orphans.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mentor/pkg/config"
	"mentor/pkg/gateway"
	"mentor/pkg/logx"
)

// API paths on the content service.
const (
	createPath    = "/api/v1/content/create"
	generatePath  = "/api/v1/agents/generate-content"
	translatePath = "/api/v1/multilingual/translate"
	voicePath     = "/api/v1/agents/generate-voice"
	securityPath  = "/api/v1/security/analyze-content"
	detectPath    = "/api/v1/multilingual/detect-language"
	platformsPath = "/api/v1/agents/platforms"
	languagesPath = "/api/v1/agents/languages"
)

// Defaults returned when the service cannot enumerate its capabilities.
var (
	defaultPlatforms = []string{"twitter", "instagram", "linkedin", "spotify"}
	defaultLanguages = []string{"en", "hi", "sa", "mr", "gu", "ta", "te", "kn", "ml", "bn"}
)

// Client talks to the content service through an authenticated gateway.
type Client struct {
	gw          *gateway.AuthClient
	authTimeout time.Duration
	callTimeout time.Duration
	logger      *logx.Logger
}

// NewClient creates a content-service client and authenticates eagerly.
func NewClient(cfg config.ContentConfig) *Client {
	return &Client{
		gw:          gateway.NewAuthClient(cfg.BaseURL, cfg.Username, cfg.Password, cfg.AuthTimeout),
		authTimeout: cfg.AuthTimeout,
		callTimeout: cfg.CallTimeout,
		logger:      logx.NewLogger("content-client"),
	}
}

// Authenticated reports whether the client currently holds a session
// token.
func (c *Client) Authenticated() bool {
	return c.gw.Authenticated()
}

type createRequest struct {
	Text        string         `json:"text"`
	ContentType string         `json:"content_type"`
	Language    string         `json:"language"`
	Metadata    map[string]any `json:"metadata"`
}

type createResponse struct {
	ContentID string `json:"content_id"`
}

// CreateContent registers raw text with the service and returns the
// assigned content id.
func (c *Client) CreateContent(ctx context.Context, text, contentType, language string) (string, error) {
	raw, _, err := c.gw.Call(ctx, createPath, createRequest{
		Text:        text,
		ContentType: contentType,
		Language:    language,
		Metadata:    map[string]any{"source": "mentor"},
	}, c.authTimeout)
	if err != nil {
		return "", logx.Wrap(err, "content creation failed")
	}

	var resp createResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", logx.Wrap(err, "failed to decode content creation response")
	}
	if resp.ContentID == "" {
		return "", logx.Errorf("content creation response missing content_id")
	}

	c.logger.Debug("Created content %s (type=%s language=%s)", resp.ContentID, contentType, language)
	return resp.ContentID, nil
}

type generateRequest struct {
	ContentID string   `json:"content_id"`
	Platforms []string `json:"platforms"`
	Tone      string   `json:"tone"`
	Language  string   `json:"language"`
}

// GenerateContent renders text into platform-specific variants. Empty
// platforms defaults to twitter, instagram, and linkedin.
func (c *Client) GenerateContent(ctx context.Context, text string, platforms []string, tone, language string) (json.RawMessage, error) {
	if len(platforms) == 0 {
		platforms = []string{"twitter", "instagram", "linkedin"}
	}
	if tone == "" {
		tone = "neutral"
	}
	if language == "" {
		language = "en"
	}

	contentID, err := c.CreateContent(ctx, text, "tweet", language)
	if err != nil {
		return nil, err
	}

	raw, _, err := c.gw.Call(ctx, generatePath, generateRequest{
		ContentID: contentID,
		Platforms: platforms,
		Tone:      tone,
		Language:  language,
	}, c.callTimeout)
	if err != nil {
		return nil, logx.Wrap(err, "content generation failed")
	}

	c.logger.Info("Generated content %s for platforms %v", contentID, platforms)
	return raw, nil
}

type translateRequest struct {
	ContentID       string   `json:"content_id"`
	TargetLanguages []string `json:"target_languages"`
	Tone            string   `json:"tone"`
}

// TranslateContent translates text into the target languages.
func (c *Client) TranslateContent(ctx context.Context, text string, targetLanguages []string, tone string) (json.RawMessage, error) {
	if len(targetLanguages) == 0 {
		return nil, logx.Errorf("no target languages given")
	}
	if tone == "" {
		tone = "neutral"
	}

	contentID, err := c.CreateContent(ctx, text, "tweet", "en")
	if err != nil {
		return nil, err
	}

	raw, _, err := c.gw.Call(ctx, translatePath, translateRequest{
		ContentID:       contentID,
		TargetLanguages: targetLanguages,
		Tone:            tone,
	}, c.callTimeout)
	if err != nil {
		return nil, logx.Wrap(err, "content translation failed")
	}

	c.logger.Info("Translated content %s into %v", contentID, targetLanguages)
	return raw, nil
}

type voiceRequest struct {
	ContentID string `json:"content_id"`
	Language  string `json:"language"`
	Tone      string `json:"tone"`
	VoiceTag  string `json:"voice_tag"`
}

// GenerateVoice synthesizes speech for text.
func (c *Client) GenerateVoice(ctx context.Context, text, language, tone, voiceTag string) (json.RawMessage, error) {
	if language == "" {
		language = "hi"
	}
	if tone == "" {
		tone = "devotional"
	}
	if voiceTag == "" {
		voiceTag = fmt.Sprintf("%s_in_female_%s", language, tone)
	}

	contentID, err := c.CreateContent(ctx, text, "voice_script", language)
	if err != nil {
		return nil, err
	}

	raw, _, err := c.gw.Call(ctx, voicePath, voiceRequest{
		ContentID: contentID,
		Language:  language,
		Tone:      tone,
		VoiceTag:  voiceTag,
	}, c.callTimeout)
	if err != nil {
		return nil, logx.Wrap(err, "voice generation failed")
	}

	c.logger.Info("Generated voice for content %s (voice=%s)", contentID, voiceTag)
	return raw, nil
}

// AnalyzeContentSecurity runs the service's safety screen over text.
func (c *Client) AnalyzeContentSecurity(ctx context.Context, text string) (json.RawMessage, error) {
	contentID, err := c.CreateContent(ctx, text, "tweet", "en")
	if err != nil {
		return nil, err
	}

	raw, _, err := c.gw.Call(ctx, securityPath, map[string]string{
		"content_id": contentID,
	}, c.authTimeout)
	if err != nil {
		return nil, logx.Wrap(err, "security analysis failed")
	}
	return raw, nil
}

// DetectLanguage identifies the language of text. Unlike the other
// operations it sends the text directly, with no content record.
func (c *Client) DetectLanguage(ctx context.Context, text string) (json.RawMessage, error) {
	raw, _, err := c.gw.Call(ctx, detectPath, map[string]string{
		"content": text,
	}, c.authTimeout)
	if err != nil {
		return nil, logx.Wrap(err, "language detection failed")
	}
	return raw, nil
}

// GenerateAudio is the legacy audio entry point. It synthesizes voice
// and returns an opaque audio path; failure returns an empty path with
// the error.
func (c *Client) GenerateAudio(ctx context.Context, text, language string) (string, error) {
	if language == "" {
		language = "hi"
	}
	if _, err := c.GenerateVoice(ctx, text, language, "devotional", ""); err != nil {
		return "", err
	}
	return fmt.Sprintf("/audio/%s.wav", uuid.New().String()), nil
}

// SupportedPlatforms lists the platforms the service can render for.
// Failures fall back to the known default set.
func (c *Client) SupportedPlatforms(ctx context.Context) []string {
	return c.fetchList(ctx, platformsPath, defaultPlatforms)
}

// SupportedLanguages lists the languages the service can work in.
// Failures fall back to the known default set.
func (c *Client) SupportedLanguages(ctx context.Context) []string {
	return c.fetchList(ctx, languagesPath, defaultLanguages)
}

func (c *Client) fetchList(ctx context.Context, path string, fallback []string) []string {
	raw, _, err := c.gw.Get(ctx, path, c.authTimeout)
	if err != nil {
		c.logger.Debug("Capability fetch %s failed, using defaults: %v", path, err)
		return append([]string(nil), fallback...)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
