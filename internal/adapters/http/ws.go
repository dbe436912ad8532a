package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"

	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

type chatClientMessage struct {
	Text string `json:"text"`
}

type chatServerMessage struct {
	UserMessage *messageResponse `json:"user_message,omitempty"`
	Reply       *messageResponse `json:"reply,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// handleChatSocket serves the chat scene over a websocket. Every text frame
// is one chat message; every reply is one JSON frame.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	ctx := r.Context()
	log := observability.LoggerFromContext(ctx)

	if _, err := s.svc.GetSession(ctx, id); err != nil {
		writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	log.Info("chat socket opened")
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			log.Debug("chat socket closed", "error", err)
			return
		}

		var msg chatClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if !s.send(ctx, conn, chatServerMessage{Error: "invalid message format"}) {
				return
			}
			continue
		}

		out, err := s.svc.SendChatMessage(ctx, id, msg.Text)
		if err != nil {
			if !s.send(ctx, conn, chatServerMessage{Error: socketError(err)}) {
				return
			}
			continue
		}

		user := toMessageResponse(out.UserMessage)
		reply := toMessageResponse(out.Reply)
		if !s.send(ctx, conn, chatServerMessage{UserMessage: &user, Reply: &reply}) {
			return
		}
	}
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg chatServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to marshal chat message", "error", err)
		return false
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		observability.LoggerFromContext(ctx).Debug("chat socket write failed", "error", err)
		return false
	}
	return true
}

func socketError(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session not found"
	case errors.Is(err, domain.ErrIllegalTransition):
		return "chat is not open"
	default:
		observability.Logger().Error("chat socket error", "error", err)
		return "please try again"
	}
}
