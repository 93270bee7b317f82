package chat

import (
	"context"
	"fmt"
	"sync/atomic"
)

// GatewayClient implements Client over the hub feed. Message and channel
// references are minted locally with a monotonic counter; the gateway
// resolves them to platform ids and keeps doing so across edits.
type GatewayClient struct {
	hub *Hub
	seq atomic.Uint64
}

func NewGatewayClient(hub *Hub) *GatewayClient {
	return &GatewayClient{hub: hub}
}

func (g *GatewayClient) nextRef(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, g.seq.Add(1))
}

func (g *GatewayClient) SendEmbed(_ context.Context, channelID string, embed Embed) (string, error) {
	ref := g.nextRef("msg")
	g.hub.Publish(Event{Type: EventEmbedSend, ChannelID: channelID, MessageID: ref, Embed: &embed})
	return ref, nil
}

func (g *GatewayClient) EditEmbed(_ context.Context, channelID, messageID string, embed Embed) error {
	g.hub.Publish(Event{Type: EventEmbedEdit, ChannelID: channelID, MessageID: messageID, Embed: &embed})
	return nil
}

func (g *GatewayClient) DeleteMessage(_ context.Context, channelID, messageID string) error {
	g.hub.Publish(Event{Type: EventMsgDelete, ChannelID: channelID, MessageID: messageID})
	return nil
}

func (g *GatewayClient) SendMatchCard(_ context.Context, channelID string, card MatchCard) (string, error) {
	ref := g.nextRef("card")
	g.hub.Publish(Event{Type: EventCardSend, ChannelID: channelID, MessageID: ref, Card: &card})
	return ref, nil
}

func (g *GatewayClient) EditMatchCard(_ context.Context, channelID, messageID string, card MatchCard) error {
	g.hub.Publish(Event{Type: EventCardEdit, ChannelID: channelID, MessageID: messageID, Card: &card})
	return nil
}

func (g *GatewayClient) AddReaction(_ context.Context, channelID, messageID, emoji string) error {
	g.hub.Publish(Event{Type: EventReactionAdd, ChannelID: channelID, MessageID: messageID, Emoji: emoji})
	return nil
}

func (g *GatewayClient) CreateMatchChannel(_ context.Context, req ChannelRequest) (string, error) {
	ref := g.nextRef("chan")
	g.hub.Publish(Event{Type: EventChannelOpen, ChannelID: ref, Channel: &req})
	return ref, nil
}

func (g *GatewayClient) SendNotice(_ context.Context, channelID, text string) error {
	g.hub.Publish(Event{Type: EventNotice, ChannelID: channelID, Text: text})
	return nil
}
