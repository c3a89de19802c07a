// Package message builds outbound message payloads.
//
// A Builder accumulates up to five messages, the maximum the platform
// accepts per request, and enforces the platform's text length limits
// by truncating rather than rejecting. The first structural error (too
// many messages, a missing required field, an invalid raw payload)
// sticks and is returned by Build.
package message

import (
	"errors"
	"fmt"
)

// Maximum messages per outbound request.
const maxMessages = 5

// Text length limits imposed by the platform templates.
const (
	maxButtonTitle  = 40
	maxTitledText   = 60
	maxUntitledText = 160
	maxConfirmText  = 240
	maxColumns      = 4
)

// ErrTooManyMessages is returned when more than five messages are added.
var ErrTooManyMessages = errors.New("message: maximum message count is 5")

// ValidationError reports a message field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("message: invalid %s: %s", e.Field, e.Message)
}

// Action is a tappable action attached to a template message.
type Action struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Data  string `json:"data,omitempty"`
	Text  string `json:"text,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// Column is one pane of a carousel template.
type Column struct {
	ThumbnailImageURL string   `json:"thumbnailImageUrl,omitempty"`
	Title             string   `json:"title,omitempty"`
	Text              string   `json:"text"`
	Actions           []Action `json:"actions"`
}

// ButtonsOptions configures a buttons template message.
type ButtonsOptions struct {
	ThumbnailImageURL string
	AltText           string
	Title             string
	Text              string
	Actions           []Action
}

// ConfirmOptions configures a confirm template message.
type ConfirmOptions struct {
	AltText string
	Text    string
	Actions []Action
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type mediaMessage struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl,omitempty"`
	Duration           int    `json:"duration,omitempty"`
}

type locationMessage struct {
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type stickerMessage struct {
	Type      string `json:"type"`
	PackageID int    `json:"packageId"`
	StickerID int    `json:"stickerId"`
}

type templateMessage struct {
	Type     string `json:"type"`
	AltText  string `json:"altText"`
	Template any    `json:"template"`
}

type buttonsTemplate struct {
	Type              string   `json:"type"`
	ThumbnailImageURL string   `json:"thumbnailImageUrl,omitempty"`
	Title             string   `json:"title,omitempty"`
	Text              string   `json:"text"`
	Actions           []Action `json:"actions"`
}

type confirmTemplate struct {
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	Actions []Action `json:"actions"`
}

type carouselTemplate struct {
	Type    string   `json:"type"`
	Columns []Column `json:"columns"`
}

// Builder assembles a message payload through chained calls. The zero
// value is not usable; call NewBuilder.
type Builder struct {
	messages  []any
	validator *Validator
	err       error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{validator: defaultValidator}
}

// Text appends a plain text message.
func (b *Builder) Text(text string) *Builder {
	if text == "" {
		return b.fail(&ValidationError{Field: "text", Message: "must not be empty"})
	}
	return b.add(textMessage{Type: "text", Text: text})
}

// Image appends an image message. Both URLs are required.
func (b *Builder) Image(originalURL, previewURL string) *Builder {
	if originalURL == "" || previewURL == "" {
		return b.fail(&ValidationError{Field: "image", Message: "original and preview URLs are required"})
	}
	return b.add(mediaMessage{Type: "image", OriginalContentURL: originalURL, PreviewImageURL: previewURL})
}

// Video appends a video message. Both URLs are required.
func (b *Builder) Video(originalURL, previewURL string) *Builder {
	if originalURL == "" || previewURL == "" {
		return b.fail(&ValidationError{Field: "video", Message: "original and preview URLs are required"})
	}
	return b.add(mediaMessage{Type: "video", OriginalContentURL: originalURL, PreviewImageURL: previewURL})
}

// Audio appends an audio message. Duration is in milliseconds.
func (b *Builder) Audio(originalURL string, duration int) *Builder {
	if originalURL == "" {
		return b.fail(&ValidationError{Field: "audio", Message: "original URL is required"})
	}
	if duration <= 0 {
		return b.fail(&ValidationError{Field: "audio", Message: "duration must be positive"})
	}
	return b.add(mediaMessage{Type: "audio", OriginalContentURL: originalURL, Duration: duration})
}

// Location appends a location message.
func (b *Builder) Location(title, address string, latitude, longitude float64) *Builder {
	if title == "" || address == "" {
		return b.fail(&ValidationError{Field: "location", Message: "title and address are required"})
	}
	return b.add(locationMessage{
		Type:      "location",
		Title:     title,
		Address:   address,
		Latitude:  latitude,
		Longitude: longitude,
	})
}

// Sticker appends a sticker message.
func (b *Builder) Sticker(packageID, stickerID int) *Builder {
	if packageID <= 0 || stickerID <= 0 {
		return b.fail(&ValidationError{Field: "sticker", Message: "package and sticker IDs are required"})
	}
	return b.add(stickerMessage{Type: "sticker", PackageID: packageID, StickerID: stickerID})
}

// Buttons appends a buttons template message. The title is truncated to
// 40 characters; the body text to 60 characters when a title is present
// and 160 otherwise.
func (b *Builder) Buttons(opts ButtonsOptions) *Builder {
	if opts.AltText == "" {
		return b.fail(&ValidationError{Field: "altText", Message: "must not be empty"})
	}
	if opts.Text == "" {
		return b.fail(&ValidationError{Field: "text", Message: "must not be empty"})
	}
	limit := maxUntitledText
	if opts.Title != "" {
		limit = maxTitledText
	}
	return b.add(templateMessage{
		Type:    "template",
		AltText: opts.AltText,
		Template: buttonsTemplate{
			Type:              "buttons",
			ThumbnailImageURL: opts.ThumbnailImageURL,
			Title:             truncate(opts.Title, maxButtonTitle),
			Text:              truncate(opts.Text, limit),
			Actions:           opts.Actions,
		},
	})
}

// Confirm appends a confirm template message. The body text is truncated
// to 240 characters.
func (b *Builder) Confirm(opts ConfirmOptions) *Builder {
	if opts.Text == "" {
		return b.fail(&ValidationError{Field: "text", Message: "must not be empty"})
	}
	return b.add(templateMessage{
		Type:    "template",
		AltText: opts.AltText,
		Template: confirmTemplate{
			Type:    "confirm",
			Text:    truncate(opts.Text, maxConfirmText),
			Actions: opts.Actions,
		},
	})
}

// Carousel appends a carousel template message. Only the first four
// columns are kept.
func (b *Builder) Carousel(altText string, columns ...Column) *Builder {
	if altText == "" {
		return b.fail(&ValidationError{Field: "altText", Message: "must not be empty"})
	}
	if len(columns) == 0 {
		return b.fail(&ValidationError{Field: "columns", Message: "at least one column is required"})
	}
	if len(columns) > maxColumns {
		columns = columns[:maxColumns]
	}
	return b.add(templateMessage{
		Type:    "template",
		AltText: altText,
		Template: carouselTemplate{Type: "carousel", Columns: columns},
	})
}

// Raw appends an arbitrary message object after validating it against
// the message schema.
func (b *Builder) Raw(msg map[string]any) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.validator.ValidateMessage(msg); err != nil {
		return b.fail(fmt.Errorf("message: invalid raw message: %w", err))
	}
	return b.add(msg)
}

// Len reports how many messages have been added so far.
func (b *Builder) Len() int {
	return len(b.messages)
}

// Build returns the accumulated messages, or the first error hit while
// adding them.
func (b *Builder) Build() ([]any, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.messages, nil
}

func (b *Builder) add(msg any) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.messages) == maxMessages {
		b.err = ErrTooManyMessages
		return b
	}
	b.messages = append(b.messages, msg)
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// truncate cuts s to at most limit characters, counting runes so a
// multi-byte character is never split.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
