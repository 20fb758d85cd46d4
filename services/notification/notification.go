package notification

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// SessionUserKey is the melody session key holding the authenticated user id.
const SessionUserKey = "userID"

type Service interface {
	SendMessage(message string) error
	SendToUser(userID uint, message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

// SendMessage gửi tới tất cả session đang kết nối
func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// SendToUser writes only to the sessions opened by userID.
func (s *MelodyService) SendToUser(userID uint, message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.BroadcastFilter([]byte(message), func(session *melody.Session) bool {
		value, ok := session.Get(SessionUserKey)
		if !ok {
			return false
		}
		id, ok := value.(uint)
		return ok && id == userID
	})
}

// NopService drops every message. Used when no websocket hub is running.
type NopService struct{}

func (NopService) SendMessage(string) error { return nil }
func (NopService) SendToUser(uint, string) error { return nil }

// MessageBuilder builds the JSON events pushed over the websocket.
type MessageBuilder struct {
	Type string                 `json:"type"`
	Text string                 `json:"message"`
	Data map[string]interface{} `json:"data,omitempty"`
}

func NewMessageBuilder(eventType string) *MessageBuilder {
	return &MessageBuilder{Type: eventType}
}

func (b *MessageBuilder) Message(format string, v ...interface{}) *MessageBuilder {
	b.Text = fmt.Sprintf(format, v...)
	return b
}

func (b *MessageBuilder) With(key string, value interface{}) *MessageBuilder {
	if b.Data == nil {
		b.Data = make(map[string]interface{})
	}
	b.Data[key] = value
	return b
}

func (b *MessageBuilder) Build() string {
	data, err := json.Marshal(b)
	if err != nil {
		return b.Text
	}
	return string(data)
}
