package client

// Profile is a user's public profile.
type Profile struct {
	DisplayName   string `json:"displayName"`
	UserID        string `json:"userId"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// Outbound request payloads. Messages are opaque, pre-validated
// JSON-serializable values; the client imposes only the batch-size rules.

type pushPayload struct {
	To       string `json:"to"`
	Messages []any  `json:"messages"`
}

type multicastPayload struct {
	To       []string `json:"to"`
	Messages []any    `json:"messages"`
}

type replyPayload struct {
	ReplyToken string `json:"replyToken"`
	Messages   []any  `json:"messages"`
}
