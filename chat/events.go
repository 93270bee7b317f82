package chat

// EventType tags a render event pushed to the gateway feed.
type EventType string

const (
	EventEmbedSend    EventType = "embed.send"
	EventEmbedEdit    EventType = "embed.edit"
	EventMsgDelete    EventType = "message.delete"
	EventCardSend     EventType = "card.send"
	EventCardEdit     EventType = "card.edit"
	EventReactionAdd  EventType = "reaction.add"
	EventChannelOpen  EventType = "channel.open"
	EventNotice       EventType = "notice"
)

// Event is the wire format of the gateway feed. Exactly one payload field
// is set, matching the type tag.
type Event struct {
	Type      EventType `json:"type"`
	ChannelID string    `json:"channel_id,omitempty"`
	MessageID string    `json:"message_id,omitempty"`

	Embed   *Embed          `json:"embed,omitempty"`
	Card    *MatchCard      `json:"card,omitempty"`
	Channel *ChannelRequest `json:"channel,omitempty"`
	Emoji   string          `json:"emoji,omitempty"`
	Text    string          `json:"text,omitempty"`
}
