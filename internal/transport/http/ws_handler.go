package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dinariox/quiz-conquest-backend/internal/app"
	"github.com/dinariox/quiz-conquest-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Per-connection action budget. Generous for humans mashing the buzzer,
// tight enough that one misbehaving client cannot flood the game loop.
const (
	actionsPerSecond = 20
	actionBurst      = 40
)

type WSHandler struct {
	game     *app.Game
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(game *app.Game, hub *Hub) *WSHandler {
	return &WSHandler{
		game: game,
		hub:  hub,
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

// ServeWS upgrades the request, registers the connection with the hub and
// pumps inbound actions into the game inbox until the connection drops.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan outboundMessage, 32),
	}
	h.hub.add(c)
	go c.writePump()
	log.Printf("connection opened: %s", c.id)

	defer func() {
		h.hub.remove(c.id)
		log.Printf("connection closed: %s", c.id)
	}()

	limiter := rate.NewLimiter(rate.Limit(actionsPerSecond), actionBurst)
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		if !limiter.Allow() {
			continue
		}
		action, ok := decodeAction(inbound)
		if !ok {
			continue
		}
		h.game.Enqueue(c.id, action)
	}
}

// decodeAction maps the wire vocabulary onto the closed action set. Unknown
// types and malformed payloads are dropped, mirroring the silent-drop policy
// of the dispatcher itself.
func decodeAction(msg inboundMessage) (app.Action, bool) {
	switch msg.Type {
	case "join":
		var p struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, false
		}
		return app.JoinAction{Name: p.Name}, true
	case "rejoin":
		var p struct {
			UniqueID string `json:"uniqueId"`
			Name     string `json:"name"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, false
		}
		return app.RejoinAction{Identity: p.UniqueID, Name: p.Name}, true
	case "requestGameState":
		return app.RequestGameStateAction{}, true
	case "removePlayer":
		var playerID string
		if err := json.Unmarshal(msg.Payload, &playerID); err != nil {
			return nil, false
		}
		return app.RemovePlayerAction{PlayerID: playerID}, true
	case "updatePoints":
		var p struct {
			PlayerID   string `json:"playerId"`
			PointDelta int    `json:"pointDelta"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, false
		}
		return app.UpdatePointsAction{PlayerID: p.PlayerID, Delta: p.PointDelta}, true
	case "openQuestion":
		var p struct {
			CategoryName string          `json:"categoryName"`
			Question     domain.Question `json:"question"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, false
		}
		return app.OpenQuestionAction{CategoryName: p.CategoryName, Question: p.Question}, true
	case "abortQuestion":
		return app.AbortQuestionAction{}, true
	case "completeQuestion":
		return app.CompleteQuestionAction{}, true
	case "selectRandomPlayersTurn":
		return app.SelectRandomTurnAction{}, true
	case "buzz":
		return app.BuzzAction{}, true
	case "resetBuzzer":
		return app.ResetBuzzerAction{}, true
	case "correctAnswer":
		return app.CorrectAnswerAction{}, true
	case "wrongAnswer":
		return app.WrongAnswerAction{}, true
	case "exposeQuestion":
		return app.ExposeQuestionAction{}, true
	case "exposeAnswer":
		return app.ExposeAnswerAction{}, true
	case "showBoard":
		return app.ShowBoardAction{}, true
	case "revealEnumItem":
		return app.RevealEnumItemAction{}, true
	case "updateTextInput":
		var text string
		if err := json.Unmarshal(msg.Payload, &text); err != nil {
			return nil, false
		}
		return app.UpdateTextInputAction{Text: text}, true
	case "lockTextInput":
		return app.LockTextInputAction{}, true
	case "revealTextInput":
		return app.RevealTextInputAction{}, true
	case "updateChoice":
		var choice int
		if err := json.Unmarshal(msg.Payload, &choice); err != nil {
			return nil, false
		}
		return app.UpdateChoiceAction{Choice: choice}, true
	case "lockChoice":
		return app.LockChoiceAction{}, true
	case "revealChoice":
		return app.RevealChoiceAction{}, true
	case "setPlayerTeam":
		var p struct {
			PlayerID string `json:"playerId"`
			TeamID   int    `json:"teamId"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, false
		}
		return app.SetPlayerTeamAction{PlayerID: p.PlayerID, TeamID: p.TeamID}, true
	case "launch-fireworks":
		return app.LaunchFireworksAction{}, true
	default:
		return nil, false
	}
}
