package channel

import (
	"encoding/json"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/slack-go/slack/slackevents"
)

// slackAdapter turns user messages sent to the intake app into reports.
// Bot messages and message subtypes (edits, joins, deletions) are ignored.
type slackAdapter struct{}

var _ interfaces.ChannelAdapter = &slackAdapter{}

func NewSlack() interfaces.ChannelAdapter {
	return &slackAdapter{}
}

func (a *slackAdapter) Channel() types.Channel {
	return types.ChannelSlack
}

func (a *slackAdapter) Parse(raw []byte) *model.ReportEvent {
	ev, err := slackevents.ParseEvent(json.RawMessage(raw), slackevents.OptionNoVerifyToken())
	if err != nil {
		return nil
	}
	return SlackEvent(&ev)
}

// SlackEvent converts an already parsed Events API envelope
func SlackEvent(ev *slackevents.EventsAPIEvent) *model.ReportEvent {
	if ev.Type != slackevents.CallbackEvent {
		return nil
	}

	msg, ok := ev.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok || msg.BotID != "" || msg.SubType != "" || msg.User == "" {
		return nil
	}

	return &model.ReportEvent{
		Channel:    types.ChannelSlack,
		Text:       msg.Text,
		SenderRef:  msg.User,
		ExternalID: msg.Channel + ":" + msg.TimeStamp,
	}
}
