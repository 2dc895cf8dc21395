package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/linkrace/services/game"
	"github.com/AleutianAI/linkrace/services/server/datatypes"
	"github.com/AleutianAI/linkrace/services/server/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

var validate = validator.New()

var (
	errUnknownAction   = errors.New("unknown action")
	errMissingSettings = errors.New("settings payload required")
)

// GameSocketLimits bounds the per-connection command stream.
type GameSocketLimits struct {
	Rate  float64
	Burst int
}

// HandleGameSocket upgrades the connection and serves the room command
// protocol until the client goes away. Each connection gets a fresh player
// identifier; dropping the connection mid-race keeps the player on the
// roster for scoring.
func HandleGameSocket(registry *game.Registry, session *game.Session, hub *Hub,
	limits GameSocketLimits) gin.HandlerFunc {

	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		playerID := uuid.New().String()
		client := hub.add(playerID, ws)
		defer hub.remove(playerID)

		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()
		slog.Info("websocket client connected", "player", playerID)

		if err := client.send(datatypes.Envelope{
			Event: datatypes.EventConnected,
			Data:  datatypes.ConnectedEvent{PlayerID: playerID},
		}); err != nil {
			return
		}

		limiter := rate.NewLimiter(rate.Limit(limits.Rate), limits.Burst)

		for {
			var cmd datatypes.Command
			if err := ws.ReadJSON(&cmd); err != nil {
				slog.Info("websocket client disconnected", "player", playerID, "error", err.Error())
				break
			}
			if !limiter.Allow() {
				_ = client.send(datatypes.Envelope{Event: datatypes.EventError, Error: "too many commands"})
				continue
			}
			if err := validate.Struct(cmd); err != nil {
				_ = client.send(datatypes.Envelope{Event: datatypes.EventError, Error: "invalid command: " + err.Error()})
				continue
			}
			dispatchCommand(c, registry, session, hub, client, playerID, cmd)
		}

		handleDisconnect(registry, hub, playerID)
		syncGameGauges(registry)
	}
}

func dispatchCommand(c *gin.Context, registry *game.Registry, session *game.Session,
	hub *Hub, client *wsClient, playerID string, cmd datatypes.Command) {

	fail := func(err error) {
		metrics.Commands.WithLabelValues(cmd.Action, "error").Inc()
		_ = client.send(datatypes.Envelope{Event: datatypes.EventError, Error: err.Error()})
	}
	ok := func() {
		metrics.Commands.WithLabelValues(cmd.Action, "ok").Inc()
		syncGameGauges(registry)
	}

	switch cmd.Action {
	case datatypes.ActionCreateRoom:
		room, err := registry.CreateRoom(playerID, cmd.Name)
		if err != nil {
			fail(err)
			return
		}
		_ = client.send(datatypes.Envelope{Event: datatypes.EventRoomCreated, Data: datatypes.RoomCreatedEvent{Room: room}})
		ok()

	case datatypes.ActionJoinRoom:
		room, player, err := registry.JoinRoom(cmd.Code, playerID, cmd.Name)
		if err != nil {
			fail(err)
			return
		}
		_ = client.send(datatypes.Envelope{Event: datatypes.EventRoomJoined, Data: datatypes.RoomJoinedEvent{Room: room, You: player}})
		hub.BroadcastRoom(room, playerID, datatypes.Envelope{
			Event: game.EventPlayerJoined,
			Data:  game.PlayerJoinedEvent{Player: player, Room: room},
		})
		ok()

	case datatypes.ActionLeaveRoom:
		out, err := registry.RemovePlayer(playerID)
		if err != nil {
			fail(err)
			return
		}
		_ = client.send(datatypes.Envelope{Event: datatypes.EventRoomLeft})
		if out.Room != nil {
			hub.BroadcastRoom(*out.Room, playerID, datatypes.Envelope{
				Event: game.EventPlayerLeft,
				Data: game.PlayerLeftEvent{
					PlayerID:  out.Player.ID,
					Name:      out.Player.Name,
					NewHostID: out.NewHostID,
					Room:      *out.Room,
				},
			})
		}
		ok()

	case datatypes.ActionChangeName:
		room, oldName, newName, err := registry.RenamePlayer(playerID, cmd.Name)
		if err != nil {
			fail(err)
			return
		}
		hub.BroadcastRoom(room, "", datatypes.Envelope{
			Event: game.EventNameChanged,
			Data:  game.NameChangedEvent{PlayerID: playerID, OldName: oldName, NewName: newName},
		})
		ok()

	case datatypes.ActionUpdateSettings:
		if cmd.Settings == nil {
			fail(errMissingSettings)
			return
		}
		room, err := registry.UpdateSettings(playerID, *cmd.Settings)
		if err != nil {
			fail(err)
			return
		}
		hub.BroadcastRoom(room, "", datatypes.Envelope{
			Event: game.EventSettingsUpdated,
			Data:  game.SettingsUpdatedEvent{Settings: room.Settings},
		})
		ok()

	case datatypes.ActionStartGame:
		room, err := session.StartRace(playerID, cmd.StartTopic, cmd.TargetTopic)
		if err != nil {
			fail(err)
			return
		}
		hub.BroadcastRoom(room, "", datatypes.Envelope{
			Event: game.EventGameStarted,
			Data:  game.GameStartedEvent{Room: room},
		})
		ok()

	case datatypes.ActionNavigate:
		room, player, err := session.RecordNavigation(playerID, cmd.Topic)
		if err != nil {
			fail(err)
			return
		}
		hub.BroadcastRoom(room, "", datatypes.Envelope{
			Event: game.EventTopicUpdated,
			Data: game.TopicUpdatedEvent{
				PlayerID: player.ID,
				Name:     player.Name,
				Topic:    player.CurrentTopic,
				Clicks:   player.Clicks,
			},
		})
		ok()

	case datatypes.ActionTargetReached:
		room, player, err := session.RecordTargetReached(playerID)
		if err != nil {
			fail(err)
			return
		}
		score := 0
		if player.Score != nil {
			score = *player.Score
		}
		hub.BroadcastRoom(room, "", datatypes.Envelope{
			Event: game.EventTargetReached,
			Data: game.TargetReachedEvent{
				PlayerID: player.ID,
				Name:     player.Name,
				Clicks:   player.Clicks,
				Score:    score,
			},
		})
		ok()

	case datatypes.ActionGetRoom:
		room, err := registry.RoomByPlayer(playerID)
		if err != nil {
			fail(err)
			return
		}
		_ = client.send(datatypes.Envelope{Event: datatypes.EventRoomState, Data: room})
		ok()

	case datatypes.ActionEndGame:
		res, err := session.EndRace(c.Request.Context(), playerID)
		if err != nil {
			fail(err)
			return
		}
		hub.BroadcastRoom(res.Room, "", datatypes.Envelope{
			Event: game.EventGameEnded,
			Data:  game.GameEndedEvent{Leaderboard: res.Leaderboard, Room: res.Room},
		})
		ok()

	default:
		fail(errUnknownAction)
	}
}

// handleDisconnect runs when the read loop exits. A mid-race drop keeps
// the player on the roster; any other state is a leave.
func handleDisconnect(registry *game.Registry, hub *Hub, playerID string) {
	out, err := registry.Disconnect(playerID)
	if err != nil {
		// Never joined a room; nothing to announce.
		return
	}
	if out.Room == nil {
		return
	}
	if out.Removed {
		hub.BroadcastRoom(*out.Room, playerID, datatypes.Envelope{
			Event: game.EventPlayerLeft,
			Data: game.PlayerLeftEvent{
				PlayerID:  out.Player.ID,
				Name:      out.Player.Name,
				NewHostID: out.NewHostID,
				Room:      *out.Room,
			},
		})
		return
	}
	hub.BroadcastRoom(*out.Room, playerID, datatypes.Envelope{
		Event: game.EventPlayerDisconnected,
		Data: game.PlayerDisconnectedEvent{
			PlayerID: out.Player.ID,
			Name:     out.Player.Name,
			Room:     *out.Room,
		},
	})
}

func syncGameGauges(registry *game.Registry) {
	s := registry.Stats()
	metrics.ActiveRooms.Set(float64(s.Rooms))
	metrics.ActiveGames.Set(float64(s.Playing))
}
