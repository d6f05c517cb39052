package channel

import (
	"strings"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// phoneAdapter parses transcribed calls posted by a telephony provider
type phoneAdapter struct{}

var _ interfaces.ChannelAdapter = &phoneAdapter{}

func NewPhone() interfaces.ChannelAdapter {
	return &phoneAdapter{}
}

type phonePayload struct {
	From          string `json:"from"`
	Transcription string `json:"transcription"`
	Text          string `json:"text"`
	CallSID       string `json:"callSid"`
}

func (a *phoneAdapter) Channel() types.Channel {
	return types.ChannelPhone
}

func (a *phoneAdapter) Parse(raw []byte) *model.ReportEvent {
	var payload phonePayload
	if !decode(raw, &payload) {
		return nil
	}

	text := payload.Transcription
	if text == "" {
		text = payload.Text
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	return &model.ReportEvent{
		Channel:    types.ChannelPhone,
		Text:       text,
		SenderRef:  payload.From,
		ExternalID: payload.CallSID,
	}
}
