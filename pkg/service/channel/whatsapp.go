package channel

import (
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

type whatsAppAdapter struct{}

var _ interfaces.ChannelAdapter = &whatsAppAdapter{}

func NewWhatsApp() interfaces.ChannelAdapter {
	return &whatsAppAdapter{}
}

type whatsAppMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
}

type whatsAppPayload struct {
	Entry []struct {
		Changes []struct {
			Value *struct {
				Messages []whatsAppMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

func (a *whatsAppAdapter) Channel() types.Channel {
	return types.ChannelWhatsApp
}

func (a *whatsAppAdapter) Parse(raw []byte) *model.ReportEvent {
	var payload whatsAppPayload
	if !decode(raw, &payload) {
		return nil
	}
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil
	}

	value := payload.Entry[0].Changes[0].Value
	if value == nil || len(value.Messages) == 0 {
		return nil
	}

	return whatsAppEvent(value.Messages[0])
}

func whatsAppEvent(m whatsAppMessage) *model.ReportEvent {
	ev := &model.ReportEvent{
		Channel:    types.ChannelWhatsApp,
		SenderRef:  m.From,
		ExternalID: m.ID,
	}
	if m.Text != nil {
		ev.Text = m.Text.Body
	}
	return ev
}
