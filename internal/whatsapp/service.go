package whatsapp

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"wedding-memories/internal/notify"
	"wedding-memories/internal/qr"
)

// MessageHandler is called for every direct message from a guest
type MessageHandler func(ctx context.Context, msg notify.Inbound) error

type Config struct {
	DataDir            string
	DefaultCountryCode string
}

type Service struct {
	client         *whatsmeow.Client
	cfg            *Config
	log            zerolog.Logger
	messageHandler MessageHandler
}

// NewService opens the device store and creates the WhatsApp client
func NewService(ctx context.Context, cfg *Config, log zerolog.Logger) (*Service, error) {
	logger := log.With().Str("component", "WhatsApp").Logger()

	// Use nil logger - sqlstore will use a no-op logger by default
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	service := &Service{
		client: client,
		cfg:    cfg,
		log:    logger,
	}

	client.AddEventHandler(func(evt interface{}) {
		service.eventHandler(evt)
	})

	return service, nil
}

// NormalizePhoneNumber converts a phone number to the digits-only
// international form WhatsApp expects. Local numbers starting with a single
// 0 get countryCode in place of the 0.
func NormalizePhoneNumber(phoneNumber, countryCode string) string {
	phoneNumber = strings.Map(func(r rune) rune {
		switch r {
		case '+', ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, phoneNumber)

	if strings.HasPrefix(phoneNumber, "00") {
		return phoneNumber[2:]
	}
	if countryCode == "" {
		return phoneNumber
	}

	// 05XXXXXXXX -> 9725XXXXXXXX
	if strings.HasPrefix(phoneNumber, "0") {
		phoneNumber = countryCode + phoneNumber[1:]
	}

	// 97205XXXXXXXX -> 9725XXXXXXXX
	if strings.HasPrefix(phoneNumber, countryCode+"0") {
		phoneNumber = countryCode + phoneNumber[len(countryCode)+1:]
	}

	return phoneNumber
}

// Connect connects to WhatsApp. On first run it prints a pairing QR code and
// blocks until the device is linked.
func (s *Service) Connect(ctx context.Context) error {
	if s.client.Store.ID != nil {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, _ := s.client.GetQRChannel(ctx)
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range qrChan {
		if evt.Event != "code" {
			s.log.Info().Str("event", evt.Event).Msg("Login event")
			continue
		}
		code, err := qr.Terminal(evt.Code)
		if err != nil {
			fmt.Printf("QR Code: %s\n", evt.Code)
			fmt.Println("Please scan this QR code with WhatsApp to connect.")
			continue
		}
		fmt.Println("\n" + code)
		fmt.Println("📱 Please scan the QR code above with WhatsApp:")
		fmt.Println("   1. Open WhatsApp on your phone")
		fmt.Println("   2. Go to Settings > Linked Devices")
		fmt.Println("   3. Tap 'Link a Device'")
		fmt.Println("   4. Scan the QR code shown above")
	}
	return nil
}

// Disconnect disconnects from WhatsApp
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// SendMessage sends a text message to a phone number registered on WhatsApp
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = NormalizePhoneNumber(phoneNumber, s.cfg.DefaultCountryCode)

	jid, err := s.resolve(ctx, phoneNumber)
	if err != nil {
		return err
	}

	s.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Attempting to send message")

	sentMsg, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		if strings.Contains(err.Error(), "unknown server") || strings.Contains(err.Error(), "can't send message") {
			return fmt.Errorf("failed to send message to %s (JID: %s): %w; the recipient may need to be in your contacts", phoneNumber, jid.String(), err)
		}
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.log.Info().Str("id", sentMsg.ID).Time("timestamp", sentMsg.Timestamp).Msg("Message sent")
	return nil
}

// resolve verifies the number is on WhatsApp and returns its JID
func (s *Service) resolve(ctx context.Context, phoneNumber string) (types.JID, error) {
	resp, err := s.client.IsOnWhatsApp(ctx, []string{"+" + phoneNumber})
	if err != nil {
		return types.JID{}, fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return types.JID{}, fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	return resp[0].JID, nil
}

// eventHandler handles incoming WhatsApp events
func (s *Service) eventHandler(evt interface{}) {
	if evt == nil {
		return
	}
	switch evt := evt.(type) {
	case *events.Message:
		s.handleMessage(evt)
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Info().Msg("Logged out from WhatsApp")
	}
}

// handleMessage processes incoming messages
func (s *Service) handleMessage(msg *events.Message) {
	in, ok := inbound(msg)
	if !ok {
		return
	}

	if s.messageHandler == nil {
		s.log.Info().Str("sender", in.Phone).Str("message", in.Text).Msg("Received message")
		return
	}
	if err := s.messageHandler(context.Background(), in); err != nil {
		s.log.Error().Err(err).Msg("Error handling message")
	}
}

// inbound extracts a direct text message; own, group and empty messages
// are skipped
func inbound(msg *events.Message) (notify.Inbound, bool) {
	if msg == nil || msg.Message == nil || msg.Info.IsFromMe || msg.Info.IsGroup {
		return notify.Inbound{}, false
	}
	text := msg.Message.GetConversation()
	if text == "" {
		text = msg.Message.GetExtendedTextMessage().GetText()
	}
	if text == "" {
		return notify.Inbound{}, false
	}
	return notify.Inbound{
		Phone: msg.Info.Sender.User,
		Name:  msg.Info.PushName,
		Text:  text,
	}, true
}

// SetMessageHandler sets a custom handler for incoming messages
func (s *Service) SetMessageHandler(handler MessageHandler) {
	s.messageHandler = handler
}
