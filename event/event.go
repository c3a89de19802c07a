// Package event defines the webhook event model delivered by the messaging platform.
package event

// Type is the top-level classification of a webhook event.
type Type string

// Event classifications delivered by the platform.
const (
	TypeMessage  Type = "message"
	TypeFollow   Type = "follow"
	TypeUnfollow Type = "unfollow"
	TypeJoin     Type = "join"
	TypeLeave    Type = "leave"
	TypePostback Type = "postback"
	TypeBeacon   Type = "beacon"

	// TypeUnknown is the defaulted classification for events delivered
	// without a type field.
	TypeUnknown Type = ""
)

// SourceKind is the category of conversation an event originated from.
type SourceKind string

// Source kinds.
const (
	SourceUser  SourceKind = "user"
	SourceGroup SourceKind = "group"
	SourceRoom  SourceKind = "room"
)

// MessageKind is the content kind of a message event.
type MessageKind string

// Message kinds.
const (
	MessageText     MessageKind = "text"
	MessageImage    MessageKind = "image"
	MessageVideo    MessageKind = "video"
	MessageAudio    MessageKind = "audio"
	MessageLocation MessageKind = "location"
	MessageSticker  MessageKind = "sticker"
)

// Event is a single webhook event as delivered by the platform. The
// classification fields are read-only input; the dispatch engine never
// rewrites them beyond defaulting an absent Type to TypeUnknown.
type Event struct {
	// Type is the top-level event classification.
	Type Type `json:"type"`

	// Timestamp is the event time in milliseconds since the epoch.
	Timestamp int64 `json:"timestamp,omitempty"`

	// Source describes the conversation the event originated from.
	Source Source `json:"source"`

	// ReplyToken authorizes a single reply to this event, when present.
	ReplyToken string `json:"replyToken,omitempty"`

	// Message carries message content for TypeMessage events.
	Message *Message `json:"message,omitempty"`

	// Postback carries postback data for TypePostback events.
	Postback *Postback `json:"postback,omitempty"`

	// Beacon carries beacon data for TypeBeacon events.
	Beacon *Beacon `json:"beacon,omitempty"`

	// Tenant is the owning tenant, tagged by the webhook handler after
	// credential resolution. It is never set by the platform.
	Tenant string `json:"-"`
}

// Source identifies the origin of an event: an individual user, a group,
// or a room.
type Source struct {
	Kind    SourceKind `json:"type"`
	UserID  string     `json:"userId,omitempty"`
	GroupID string     `json:"groupId,omitempty"`
	RoomID  string     `json:"roomId,omitempty"`
}

// ConversationID returns the group or room identifier for sources that
// have one, or the empty string for user sources.
func (s Source) ConversationID() string {
	if s.GroupID != "" {
		return s.GroupID
	}
	return s.RoomID
}

// Message is the nested message record of a TypeMessage event.
type Message struct {
	ID   string      `json:"id"`
	Kind MessageKind `json:"type"`
	Text string      `json:"text,omitempty"`
}

// HasBinaryContent reports whether the message references downloadable
// binary content retrievable via the content endpoint.
func (m *Message) HasBinaryContent() bool {
	switch m.Kind {
	case MessageAudio, MessageVideo, MessageImage:
		return true
	default:
		return false
	}
}

// Postback is the payload of a TypePostback event.
type Postback struct {
	Data   string            `json:"data"`
	Params map[string]string `json:"params,omitempty"`
}

// Beacon is the payload of a TypeBeacon event.
type Beacon struct {
	HWID string `json:"hwid"`
	Type string `json:"type"`
	DM   string `json:"dm,omitempty"`
}
