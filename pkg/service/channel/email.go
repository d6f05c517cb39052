package channel

import (
	"strings"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// emailAdapter parses the JSON posted by an inbound mail relay
type emailAdapter struct{}

var _ interfaces.ChannelAdapter = &emailAdapter{}

func NewEmail() interfaces.ChannelAdapter {
	return &emailAdapter{}
}

type emailPayload struct {
	From      string `json:"from"`
	Subject   string `json:"subject"`
	Text      string `json:"text"`
	MessageID string `json:"messageId"`
}

func (a *emailAdapter) Channel() types.Channel {
	return types.ChannelEmail
}

func (a *emailAdapter) Parse(raw []byte) *model.ReportEvent {
	var payload emailPayload
	if !decode(raw, &payload) {
		return nil
	}

	if strings.TrimSpace(payload.Text) == "" {
		return nil
	}

	text := payload.Text
	if payload.Subject != "" {
		text = payload.Subject + "\n\n" + payload.Text
	}

	return &model.ReportEvent{
		Channel:    types.ChannelEmail,
		Text:       text,
		SenderRef:  payload.From,
		ExternalID: payload.MessageID,
	}
}
