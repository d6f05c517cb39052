package model

import "github.com/secmon-lab/ouvidoria/pkg/domain/types"

// DefaultExternalSender is used when a channel payload carries no sender reference
const DefaultExternalSender = "externo"

// ReportEvent is a channel-independent inbound report
type ReportEvent struct {
	Channel    types.Channel `json:"channel"`
	Text       string        `json:"text"`
	SenderRef  string        `json:"senderRef"`
	ExternalID string        `json:"externalId"`
}

// Sender returns SenderRef or the default placeholder
func (e *ReportEvent) Sender() string {
	if e.SenderRef == "" {
		return DefaultExternalSender
	}
	return e.SenderRef
}
