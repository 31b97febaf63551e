package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"portfolio-quiz-service/internal/app"
	"portfolio-quiz-service/internal/domain"
)

// WSHandler is the presentation adapter: it translates socket frames into
// the two input events the attempt understands (option selected, advance)
// plus quit, and streams read-only attempt state back.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Key string `json:"key"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type summaryPayload struct {
	Summary   domain.ResultSummary `json:"summary"`
	Submitted bool                 `json:"submitted"`
	Message   string               `json:"message,omitempty"`
}

// ServeWS upgrades the request and drives one attempt over the socket:
// question frames out, answer/advance/quit frames in, a summary frame last.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	testType := domain.TestType(r.URL.Query().Get("testType"))
	if testType == "" {
		testType = domain.TestTypeMain
	}
	if testType != domain.TestTypeMain && testType != domain.TestTypeMini {
		http.Error(w, "unknown testType", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	attemptID, view, err := h.service.Start(r.Context(), testType, name)
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}}
		close(send)
		<-writerDone
		return
	}
	defer h.service.Close(attemptID)

	send <- outboundMessage[any]{Type: "question", Payload: view}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		finished := false
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			feedback, err := h.service.Answer(attemptID, payload.Key)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}}
				continue
			}
			send <- outboundMessage[any]{Type: "feedback", Payload: feedback}
		case "advance":
			next, ok, err := h.service.Advance(attemptID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}}
				continue
			}
			if ok {
				send <- outboundMessage[any]{Type: "question", Payload: next}
			} else {
				h.sendSummary(r.Context(), send, attemptID)
				finished = true
			}
		case "quit":
			if err := h.service.Quit(attemptID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}}
				continue
			}
			h.sendSummary(r.Context(), send, attemptID)
			finished = true
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}

		if finished {
			break
		}
	}

	close(send)
	<-writerDone
}

// sendSummary builds the final result, posts it to the collaborator, and
// tells the client whether the post landed. A failed post is surfaced as a
// notification, never as a dropped summary.
func (h *WSHandler) sendSummary(ctx context.Context, send chan outboundMessage[any], attemptID string) {
	summary, err := h.service.Summary(attemptID)
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}}
		return
	}

	payload := summaryPayload{Summary: summary, Submitted: true}
	if _, err := h.service.Submit(ctx, attemptID); err != nil {
		payload.Submitted = false
		payload.Message = "Error sending score, summary can be resubmitted."
	}
	send <- outboundMessage[any]{Type: "summary", Payload: payload}
}

// userMessage keeps contract-violation errors distinguishable from
// user-facing conditions without leaking internals.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSelectionRequired):
		return "Please select an option."
	case errors.Is(err, domain.ErrNoQuestions), errors.Is(err, domain.ErrBankNotFound):
		return "No questions available."
	default:
		return err.Error()
	}
}
