package linebot

import "errors"

// Sentinel errors returned by Bot construction.
var (
	// ErrNoResolver is returned when a Bot is created without a
	// credentials resolver.
	ErrNoResolver = errors.New("linebot: credentials resolver is required")

	// ErrAlreadyStarted is returned when Start is called on a running Bot.
	ErrAlreadyStarted = errors.New("linebot: bot already started")
)
