package channel

import (
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// messagingAdapter parses Messenger Platform payloads, shared by Instagram and Facebook
type messagingAdapter struct {
	channel types.Channel
}

var _ interfaces.ChannelAdapter = &messagingAdapter{}

func NewInstagram() interfaces.ChannelAdapter {
	return &messagingAdapter{channel: types.ChannelInstagram}
}

func NewFacebook() interfaces.ChannelAdapter {
	return &messagingAdapter{channel: types.ChannelFacebook}
}

type messagingPayload struct {
	Entry []struct {
		Messaging []struct {
			Sender *struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message *struct {
				MID  string `json:"mid"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

func (a *messagingAdapter) Channel() types.Channel {
	return a.channel
}

func (a *messagingAdapter) Parse(raw []byte) *model.ReportEvent {
	var payload messagingPayload
	if !decode(raw, &payload) {
		return nil
	}
	if len(payload.Entry) == 0 || len(payload.Entry[0].Messaging) == 0 {
		return nil
	}

	m := payload.Entry[0].Messaging[0]
	if m.Sender == nil || m.Message == nil {
		return nil
	}

	return &model.ReportEvent{
		Channel:    a.channel,
		Text:       m.Message.Text,
		SenderRef:  m.Sender.ID,
		ExternalID: m.Message.MID,
	}
}
