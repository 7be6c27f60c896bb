package model

import "github.com/slack-go/slack/slackevents"

// Message is the transient view of an inbound Slack message event. It exists
// for the lifetime of one moderation pass and is never stored.
type Message struct {
	ChannelID   string
	ChannelType string
	UserID      string
	Text        string
	EventTS     string
}

// MessageFromEvent extracts the fields the moderation pipeline needs from a
// Slack message event.
func MessageFromEvent(ev *slackevents.MessageEvent) Message {
	return Message{
		ChannelID:   ev.Channel,
		ChannelType: ev.ChannelType,
		UserID:      ev.User,
		Text:        ev.Text,
		EventTS:     ev.TimeStamp,
	}
}
