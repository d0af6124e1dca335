package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/events"
	"github.com/koscakluka/ema-espeak/core/speaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errBinaryCommand = errors.New("commands must be sent as text frames")

type outbound struct {
	messageType int
	data        []byte
}

type session struct {
	id      string
	server  *Server
	conn    *websocket.Conn
	speaker *speaker.Speaker

	send      chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(s *Server, conn *websocket.Conn) *session {
	sess := &session{
		id:     uuid.NewString(),
		server: s,
		conn:   conn,
		send:   make(chan outbound, s.sendQueue),
		done:   make(chan struct{}),
	}
	sess.speaker = s.director.NewSpeaker()
	sess.speaker.AddCallback(sess.forward)
	return sess
}

func (s *session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// forward runs on the engine's worker and never blocks it.
func (s *session) forward(notification bridge.Notification) {
	for _, event := range events.FromNotification(notification) {
		s.sendEvent(event)
		if frame, ok := event.(events.SpeechAudioFrame); ok {
			s.enqueue(outbound{messageType: websocket.BinaryMessage, data: frame.Audio})
		}
	}
}

func (s *session) sendEvent(event events.Event) {
	data, err := json.Marshal(events.Wrap(event))
	if err != nil {
		logger.Error("failed to encode event", "session", s.id, "kind", string(event.Kind()), "error", err)
		return
	}
	s.enqueue(outbound{messageType: websocket.TextMessage, data: data})
}

func (s *session) reply(reply Reply) {
	data, err := json.Marshal(reply)
	if err != nil {
		logger.Error("failed to encode reply", "session", s.id, "error", err)
		return
	}
	s.enqueue(outbound{messageType: websocket.TextMessage, data: data})
}

func (s *session) fail(command CommandType, err error) {
	s.reply(Reply{Type: ReplyError, Command: command, Error: err.Error()})
}

func (s *session) enqueue(message outbound) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- message:
		return true
	default:
		logger.Warn("dropping message for slow client", "session", s.id, "bytes", len(message.data))
		return false
	}
}

func (s *session) readLoop(ctx context.Context) {
	defer s.close()

	pongWait := 2 * s.server.pingInterval
	s.conn.SetReadLimit(maxCommandSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	profile := s.speaker.Profile()
	s.reply(Reply{Type: ReplySession, Session: s.id, Profile: &profile})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WarnContext(ctx, "websocket read failed", "session", s.id, "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			s.fail("", errBinaryCommand)
			continue
		}

		var command Command
		if err := json.Unmarshal(data, &command); err != nil {
			s.fail("", fmt.Errorf("invalid command: %w", err))
			continue
		}
		if err := s.handle(ctx, command); err != nil {
			s.fail(command.Type, err)
		}
	}
}

func (s *session) handle(ctx context.Context, command Command) (err error) {
	ctx, span := tracer.Start(ctx, "server.command", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.String("command.type", string(command.Type)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	switch command.Type {
	case CommandSpeak:
		if command.Text == "" {
			return &bridge.ArgumentError{Argument: "text", Reason: "must not be empty"}
		}
		return s.speaker.Say(ctx, command.Text,
			bridge.WithSSML(command.SSML),
			bridge.WithPhonemes(command.Phonemes),
		)

	case CommandStop:
		if err := s.speaker.Stop(ctx); err != nil {
			return err
		}
		stopped := events.NewSpeechStopped()
		stopped.Utterance = s.speaker.ID
		s.sendEvent(stopped)
		return nil

	case CommandSetParameter:
		parameter, ok := bridge.ParseParameter(command.Parameter)
		if !ok {
			return &bridge.ArgumentError{Argument: "parameter", Reason: fmt.Sprintf("unknown parameter %q", command.Parameter)}
		}
		return s.speaker.Set(parameter, command.Value)

	case CommandSetVoice:
		if command.Voice == nil {
			return &bridge.ArgumentError{Argument: "voice", Reason: "missing"}
		}
		if command.ReplaceVoice {
			return s.speaker.ReplaceVoice(*command.Voice)
		}
		return s.speaker.SetVoice(*command.Voice)

	case CommandProfile:
		if command.Profile != nil {
			if err := s.speaker.ApplyProfile(*command.Profile); err != nil {
				return err
			}
		}
		profile := s.speaker.Profile()
		s.reply(Reply{Type: ReplyProfile, Profile: &profile})
		return nil
	}

	return &bridge.ArgumentError{Argument: "type", Reason: fmt.Sprintf("unknown command %q", command.Type)}
}

func (s *session) writeLoop() {
	ticker := time.NewTicker(s.server.pingInterval)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(message.messageType, message.data); err != nil {
				logger.Warn("websocket write failed", "session", s.id, "error", err)
				s.close()
				return
			}

		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.close()
				return
			}
		}
	}
}
