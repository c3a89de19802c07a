package dispatch

import "github.com/derek82511/line-bot-sdk/event"

// Topic is a named notification channel. The set of topics is closed: every
// notification the engine can emit is enumerated below, so a subscription to
// a misspelled name fails to compile instead of silently never firing.
//
// Each topic also has a source-scoped variant derived with For, e.g.
// TopicMessage.For(event.SourceGroup) == "message:group".
type Topic string

// Topics emitted for every event.
const (
	// TopicEvent fires once per event regardless of classification.
	TopicEvent Topic = "event"
)

// Classification topics.
const (
	TopicMessage  Topic = "message"
	TopicFollow   Topic = "follow"
	TopicUnfollow Topic = "unfollow"
	TopicJoin     Topic = "join"
	TopicLeave    Topic = "leave"
	TopicPostback Topic = "postback"
	TopicBeacon   Topic = "beacon"
)

// Message-content topics.
const (
	// TopicText fires for text messages with non-empty content.
	TopicText Topic = "text"

	// TopicNonText fires for every non-text message.
	TopicNonText Topic = "non-text"

	// TopicMessageWithContent fires for audio, video, and image messages,
	// marking that the message references downloadable binary content.
	TopicMessageWithContent Topic = "message-with-content"

	TopicImage    Topic = "image"
	TopicVideo    Topic = "video"
	TopicAudio    Topic = "audio"
	TopicLocation Topic = "location"
	TopicSticker  Topic = "sticker"
)

// For returns the source-scoped variant of this topic.
func (t Topic) For(kind event.SourceKind) Topic {
	return t + ":" + Topic(kind)
}

// topicForType maps an event classification to its topic. Unrecognized
// classifications have no topic and emit nothing beyond TopicEvent.
func topicForType(et event.Type) (Topic, bool) {
	switch et {
	case event.TypeMessage:
		return TopicMessage, true
	case event.TypeFollow:
		return TopicFollow, true
	case event.TypeUnfollow:
		return TopicUnfollow, true
	case event.TypeJoin:
		return TopicJoin, true
	case event.TypeLeave:
		return TopicLeave, true
	case event.TypePostback:
		return TopicPostback, true
	case event.TypeBeacon:
		return TopicBeacon, true
	default:
		return "", false
	}
}
