// Package http is the presentation adapter. It does not own any game logic:
// it turns client action messages into store operations and pushes state
// snapshots back whenever the store notifies.
package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"cyberaware/internal/app"
	"cyberaware/internal/domain"
)

type WSHandler struct {
	store    *app.Store
	catalog  app.CatalogRepository
	upgrader websocket.Upgrader
}

func NewWSHandler(store *app.Store, catalog app.CatalogRepository) *WSHandler {
	return &WSHandler{
		store:   store,
		catalog: catalog,
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

type namePayload struct {
	Name string `json:"name"`
}

type navigatePayload struct {
	View   string `json:"view"`
	GameID string `json:"gameId"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type answerResult struct {
	Result domain.AnswerResult `json:"result"`
	Score  int                 `json:"score"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and wires it into the store: one state
// push per store notification, one inbound action message per operation.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-send:
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	if games, err := h.catalog.Games(r.Context()); err == nil {
		send <- outboundMessage[any]{Type: "catalog", Payload: games}
	} else {
		log.Printf("catalog load failed: %v", err)
	}
	send <- outboundMessage[any]{Type: "state", Payload: h.store.State()}

	unsubscribe := h.store.Subscribe(func(st app.State) {
		msg := outboundMessage[any]{Type: "state", Payload: st}
		select {
		case send <- msg:
		case <-closeSignals:
		default:
			// Drop the stale snapshot so a slow client never blocks the
			// store's synchronous notification pass.
			select {
			case <-send:
			default:
			}
			select {
			case send <- msg:
			case <-closeSignals:
			default:
			}
		}
	})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(inbound, send)
	}

	unsubscribe()
	close(closeSignals)
	<-writerDone
}

func (h *WSHandler) dispatch(inbound inboundMessage, send chan<- outboundMessage[any]) {
	fail := func(message string) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
	}

	switch inbound.Type {
	case "login":
		var payload namePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid login payload")
			return
		}
		h.store.Login(payload.Name)
	case "logout":
		h.store.Logout()
	case "setName":
		var payload namePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid setName payload")
			return
		}
		h.store.SetUserName(payload.Name)
	case "navigate":
		var payload navigatePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid navigate payload")
			return
		}
		h.store.Navigate(domain.View(payload.View), payload.GameID)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid answer payload")
			return
		}
		result, err := h.store.SubmitAnswer(payload.Option)
		if err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
			Result: result,
			Score:  h.store.State().CurrentGameScore,
		}}
	case "advance":
		if err := h.store.AdvanceQuestion(); err != nil {
			fail(err.Error())
		}
	case "quit":
		h.store.QuitSession()
	case "reset":
		h.store.ResetProgress()
	default:
		fail("unsupported message type")
	}
}
