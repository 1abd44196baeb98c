package transport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mdp/qrterminal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/proto"

	wm "go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "github.com/mattn/go-sqlite3"

	"tiendabot/internal/config"
)

const maxImageBytes = 10 << 20

// WhatsApp is the whatsmeow-backed transport. Outbound sends share a rate
// limiter so a burst of replies cannot trip WhatsApp's flood detection.
type WhatsApp struct {
	client  *wm.Client
	log     *zap.Logger
	limiter *rate.Limiter

	resumeCommand string
	ownerUser     string
}

// NewWhatsApp opens (or creates) the whatsmeow device store and builds the
// client. Connect must be called before sending.
func NewWhatsApp(ctx context.Context, cfg config.WhatsAppConfig, log *zap.Logger) (*WhatsApp, error) {
	dbLog := waLog.Stdout("Database", "WARN", false)
	container, err := sqlstore.New(ctx, "sqlite3", "file:"+cfg.DatabasePath+"?_foreign_keys=on", dbLog)
	if err != nil {
		return nil, fmt.Errorf("opening whatsapp store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		device = container.NewDevice()
	} else if err != nil {
		return nil, fmt.Errorf("loading whatsapp device: %w", err)
	}
	client := wm.NewClient(device, waLog.Stdout("Client", "WARN", false))
	if client == nil {
		return nil, errors.New("whatsmeow client construction failed")
	}
	return &WhatsApp{
		client:        client,
		log:           log,
		limiter:       rate.NewLimiter(rate.Every(50*time.Millisecond), 5),
		resumeCommand: cfg.ResumeCommand,
		ownerUser:     jidUser(cfg.OwnerJID),
	}, nil
}

// jidUser extracts the user part of a configured JID
// ("549112223344@s.whatsapp.net" -> "549112223344").
func jidUser(jid string) string {
	if i := strings.IndexByte(jid, '@'); i >= 0 {
		return jid[:i]
	}
	return jid
}

// Connect pairs (printing a QR code on first run) and connects.
func (w *WhatsApp) Connect(ctx context.Context) error {
	if w.client.Store.ID == nil {
		qrChan, _ := w.client.GetQRChannel(ctx)
		if err := w.client.Connect(); err != nil {
			return fmt.Errorf("connecting whatsapp: %w", err)
		}
		for evt := range qrChan {
			switch evt.Event {
			case "code":
				qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
				w.log.Info("scan the QR code to pair")
			case "success":
				return nil
			case "timeout":
				return errors.New("qr pairing timed out")
			}
		}
		return nil
	}
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("connecting whatsapp: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (w *WhatsApp) Close() {
	w.client.Disconnect()
}

// Listen registers the inbound handler and blocks until ctx is cancelled.
// Only direct chats are delivered; group traffic is ignored. Messages the
// account sends itself are skipped unless they carry the handoff resume
// command, which reaches the engine flagged as owner-authored.
func (w *WhatsApp) Listen(ctx context.Context, handler Handler) error {
	w.client.AddEventHandler(func(evt interface{}) {
		m, ok := evt.(*events.Message)
		if !ok || m.Message == nil {
			return
		}
		if m.Info.Chat.Server != types.DefaultUserServer {
			return
		}
		text := extractText(m.Message)
		if m.Info.IsFromMe && !strings.EqualFold(strings.TrimSpace(text), w.resumeCommand) {
			return
		}
		fromOwner := m.Info.IsFromMe ||
			(w.ownerUser != "" && m.Info.Sender.User == w.ownerUser)
		handler(ctx, Inbound{
			CustomerID:    m.Info.Chat.User,
			Text:          text,
			HasAttachment: hasAttachment(m.Message),
			FromOwner:     fromOwner,
			Timestamp:     m.Info.Timestamp,
		})
	})
	<-ctx.Done()
	return ctx.Err()
}

func extractText(msg *waProto.Message) string {
	switch {
	case msg.GetConversation() != "":
		return msg.GetConversation()
	case msg.GetExtendedTextMessage().GetText() != "":
		return msg.GetExtendedTextMessage().GetText()
	case msg.GetImageMessage().GetCaption() != "":
		return msg.GetImageMessage().GetCaption()
	}
	return ""
}

func hasAttachment(msg *waProto.Message) bool {
	return msg.GetImageMessage() != nil ||
		msg.GetVideoMessage() != nil ||
		msg.GetAudioMessage() != nil ||
		msg.GetDocumentMessage() != nil ||
		msg.GetStickerMessage() != nil
}

// SendText delivers a plain text reply.
func (w *WhatsApp) SendText(ctx context.Context, customerID, text string) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	to := types.NewJID(customerID, types.DefaultUserServer)
	msg := &waProto.Message{Conversation: proto.String(text)}
	if _, err := w.client.SendMessage(ctx, to, msg); err != nil {
		return fmt.Errorf("sending text to %s: %w", customerID, err)
	}
	return nil
}

// SendImage downloads the catalog image, uploads it to WhatsApp and sends
// it with a caption.
func (w *WhatsApp) SendImage(ctx context.Context, customerID, imageURL, caption string) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	data, mime, err := fetchImage(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("fetching image: %w", err)
	}
	up, err := w.client.Upload(ctx, data, wm.MediaImage)
	if err != nil {
		return fmt.Errorf("uploading image: %w", err)
	}
	to := types.NewJID(customerID, types.DefaultUserServer)
	msg := &waProto.Message{
		ImageMessage: &waProto.ImageMessage{
			Caption:       proto.String(caption),
			Mimetype:      proto.String(mime),
			URL:           &up.URL,
			DirectPath:    &up.DirectPath,
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    &up.FileLength,
		},
	}
	if _, err := w.client.SendMessage(ctx, to, msg); err != nil {
		return fmt.Errorf("sending image to %s: %w", customerID, err)
	}
	return nil
}

func fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", err
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}
