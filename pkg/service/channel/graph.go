package channel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/utils/safe"
)

const (
	// DefaultGraphBaseURL is the Meta Graph API root
	DefaultGraphBaseURL = "https://graph.facebook.com/v14.0"

	graphTimeout      = 15 * time.Second
	maxGraphResponse  = 4 << 20
	conversationLimit = 10
)

// GraphSource polls recent messages of a Meta account through the Graph API
type GraphSource struct {
	channel    types.Channel
	accountID  string
	token      string
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.PollSource = &GraphSource{}

type GraphOption func(*GraphSource)

// WithGraphBaseURL overrides DefaultGraphBaseURL
func WithGraphBaseURL(baseURL string) GraphOption {
	return func(s *GraphSource) {
		s.baseURL = baseURL
	}
}

// WithGraphHTTPClient replaces the default client
func WithGraphHTTPClient(client *http.Client) GraphOption {
	return func(s *GraphSource) {
		s.httpClient = client
	}
}

func newGraphSource(ch types.Channel, accountID, token string, opts ...GraphOption) *GraphSource {
	s := &GraphSource{
		channel:    ch,
		accountID:  accountID,
		token:      token,
		baseURL:    DefaultGraphBaseURL,
		httpClient: &http.Client{Timeout: graphTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInstagramSource polls the conversations of an Instagram business account
func NewInstagramSource(businessID, token string, opts ...GraphOption) *GraphSource {
	return newGraphSource(types.ChannelInstagram, businessID, token, opts...)
}

// NewFacebookSource polls the conversations of the page owning token
func NewFacebookSource(token string, opts ...GraphOption) *GraphSource {
	return newGraphSource(types.ChannelFacebook, "me", token, opts...)
}

// NewWhatsAppSource polls the messages of a WhatsApp Business phone number
func NewWhatsAppSource(phoneID, token string, opts ...GraphOption) *GraphSource {
	return newGraphSource(types.ChannelWhatsApp, phoneID, token, opts...)
}

func (s *GraphSource) Channel() types.Channel {
	return s.channel
}

type conversationsResponse struct {
	Data []struct {
		Messages *struct {
			Data []graphMessage `json:"data"`
		} `json:"messages"`
	} `json:"data"`
}

type graphMessage struct {
	ID   string `json:"id"`
	From *struct {
		ID string `json:"id"`
	} `json:"from"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

type whatsAppMessagesResponse struct {
	Data []whatsAppMessage `json:"data"`
}

func (s *GraphSource) Fetch(ctx context.Context) ([]*model.ReportEvent, error) {
	switch s.channel {
	case types.ChannelWhatsApp:
		return s.fetchWhatsApp(ctx)
	default:
		return s.fetchConversations(ctx)
	}
}

func (s *GraphSource) fetchConversations(ctx context.Context) ([]*model.ReportEvent, error) {
	field := "text"
	if s.channel == types.ChannelFacebook {
		field = "message"
	}

	query := url.Values{}
	limit := strconv.Itoa(conversationLimit)
	query.Set("fields", "participants,messages.limit("+limit+"){id,from,to,"+field+",created_time}")
	query.Set("limit", limit)

	var resp conversationsResponse
	if err := s.get(ctx, s.accountID+"/conversations", query, &resp); err != nil {
		return nil, err
	}

	var events []*model.ReportEvent
	for _, conv := range resp.Data {
		if conv.Messages == nil {
			continue
		}
		for _, msg := range conv.Messages.Data {
			text := msg.Text
			if s.channel == types.ChannelFacebook {
				text = msg.Message
			}
			if text == "" || msg.ID == "" {
				continue
			}

			ev := &model.ReportEvent{
				Channel:    s.channel,
				Text:       text,
				ExternalID: msg.ID,
			}
			if msg.From != nil {
				ev.SenderRef = msg.From.ID
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

func (s *GraphSource) fetchWhatsApp(ctx context.Context) ([]*model.ReportEvent, error) {
	var resp whatsAppMessagesResponse
	if err := s.get(ctx, s.accountID+"/messages", url.Values{}, &resp); err != nil {
		return nil, err
	}

	var events []*model.ReportEvent
	for _, msg := range resp.Data {
		ev := whatsAppEvent(msg)
		if ev.Text == "" || ev.ExternalID == "" {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *GraphSource) get(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("access_token", s.token)
	endpoint := s.baseURL + "/" + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build graph request", goerr.V(model.ChannelKey, s.channel))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// the URL carries the access token, so only the path is attached
		return goerr.New("graph request failed",
			goerr.V(model.ChannelKey, s.channel),
			goerr.V("path", path),
			goerr.V("cause", redactURLError(err)))
	}
	defer safe.DrainClose(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("graph API returned error status",
			goerr.V(model.ChannelKey, s.channel),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode))
	}

	raw, err := safe.ReadAll(resp.Body, maxGraphResponse)
	if err != nil {
		return goerr.Wrap(err, "failed to read graph response", goerr.V(model.ChannelKey, s.channel))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(model.ErrAdapterParse, "failed to decode graph response",
			goerr.V(model.ChannelKey, s.channel),
			goerr.V("cause", err.Error()))
	}
	return nil
}

// redactURLError drops the request URL from transport errors
func redactURLError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Op + ": " + urlErr.Err.Error()
	}
	return err.Error()
}
