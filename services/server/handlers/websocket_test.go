package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/linkrace/services/game"
	"github.com/AleutianAI/linkrace/services/server/datatypes"
)

func dialGame(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/game/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func sendCmd(t *testing.T, ws *websocket.Conn, cmd datatypes.Command) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(cmd))
}

func TestGameSocketRace(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	host := dialGame(t, srv)
	var hostHello datatypes.ConnectedEvent
	decodeData(t, readUntil(t, host, datatypes.EventConnected), &hostHello)
	require.NotEmpty(t, hostHello.PlayerID)

	sendCmd(t, host, datatypes.Command{Action: datatypes.ActionCreateRoom, Name: "Alice"})
	var created datatypes.RoomCreatedEvent
	decodeData(t, readUntil(t, host, datatypes.EventRoomCreated), &created)
	require.Regexp(t, `^[A-Z0-9]{6}$`, created.Room.Code)

	racer := dialGame(t, srv)
	readUntil(t, racer, datatypes.EventConnected)
	sendCmd(t, racer, datatypes.Command{Action: datatypes.ActionJoinRoom, Code: created.Room.Code, Name: "Bob"})

	var joined datatypes.RoomJoinedEvent
	decodeData(t, readUntil(t, racer, datatypes.EventRoomJoined), &joined)
	assert.Equal(t, "Bob", joined.You.Name)

	// Existing members hear about the arrival.
	var arrival game.PlayerJoinedEvent
	decodeData(t, readUntil(t, host, game.EventPlayerJoined), &arrival)
	assert.Equal(t, "Bob", arrival.Player.Name)

	sendCmd(t, host, datatypes.Command{Action: datatypes.ActionStartGame, StartTopic: "Dog", TargetTopic: "Cat"})
	var started game.GameStartedEvent
	decodeData(t, readUntil(t, racer, game.EventGameStarted), &started)
	assert.Equal(t, "Dog", started.Room.Settings.StartTopic)

	sendCmd(t, racer, datatypes.Command{Action: datatypes.ActionNavigate, Topic: "Mammal"})
	var moved game.TopicUpdatedEvent
	decodeData(t, readUntil(t, host, game.EventTopicUpdated), &moved)
	assert.Equal(t, "Mammal", moved.Topic)
	assert.Equal(t, 1, moved.Clicks)

	sendCmd(t, racer, datatypes.Command{Action: datatypes.ActionNavigate, Topic: "Cat"})
	readUntil(t, host, game.EventTopicUpdated)

	sendCmd(t, racer, datatypes.Command{Action: datatypes.ActionTargetReached})
	var reached game.TargetReachedEvent
	decodeData(t, readUntil(t, host, game.EventTargetReached), &reached)
	assert.Equal(t, "Bob", reached.Name)
	assert.Equal(t, 2, reached.Clicks)
	assert.Positive(t, reached.Score)

	sendCmd(t, host, datatypes.Command{Action: datatypes.ActionEndGame})
	var ended game.GameEndedEvent
	decodeData(t, readUntil(t, racer, game.EventGameEnded), &ended)
	require.Len(t, ended.Leaderboard, 2)
	assert.Equal(t, "Bob", ended.Leaderboard[0].Name)
	assert.True(t, ended.Leaderboard[0].Reached)
	assert.Equal(t, "Alice", ended.Leaderboard[1].Name)
	assert.Equal(t, game.StateFinished, ended.Room.State)
}

func TestGameSocketErrors(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ws := dialGame(t, srv)
	readUntil(t, ws, datatypes.EventConnected)

	sendCmd(t, ws, datatypes.Command{Action: datatypes.ActionJoinRoom, Code: "NOPE00"})
	env1 := readUntil(t, ws, datatypes.EventError)
	assert.Contains(t, env1.Error, "room not found")

	sendCmd(t, ws, datatypes.Command{Action: "fly-to-the-moon"})
	env2 := readUntil(t, ws, datatypes.EventError)
	assert.Contains(t, env2.Error, "unknown action")

	sendCmd(t, ws, datatypes.Command{Action: datatypes.ActionUpdateSettings})
	env3 := readUntil(t, ws, datatypes.EventError)
	assert.Contains(t, env3.Error, "settings payload required")

	sendCmd(t, ws, datatypes.Command{Action: datatypes.ActionNavigate, Topic: "Mammal"})
	env4 := readUntil(t, ws, datatypes.EventError)
	assert.Contains(t, env4.Error, "not in a room")
}

func TestGameSocketWireActionNames(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ws := dialGame(t, srv)
	readUntil(t, ws, datatypes.EventConnected)

	// The in-race commands dispatch on these exact wire strings. Outside a
	// room they fail with a membership error, never "unknown action".
	for _, raw := range []string{
		`{"action":"article-navigation","topic":"Mammal"}`,
		`{"action":"reach-target"}`,
	} {
		require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(raw)))
		reply := readUntil(t, ws, datatypes.EventError)
		assert.Contains(t, reply.Error, "not in a room")
	}
}

func TestGameSocketSettingsAndRename(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ws := dialGame(t, srv)
	readUntil(t, ws, datatypes.EventConnected)
	sendCmd(t, ws, datatypes.Command{Action: datatypes.ActionCreateRoom})
	readUntil(t, ws, datatypes.EventRoomCreated)

	limit := 10
	sendCmd(t, ws, datatypes.Command{
		Action:   datatypes.ActionUpdateSettings,
		Settings: &game.SettingsPatch{TimeLimit: &limit},
	})
	var updated game.SettingsUpdatedEvent
	decodeData(t, readUntil(t, ws, game.EventSettingsUpdated), &updated)
	assert.Equal(t, 10, updated.Settings.TimeLimit)

	sendCmd(t, ws, datatypes.Command{Action: datatypes.ActionChangeName, Name: "Ada Lovelace"})
	var renamed game.NameChangedEvent
	decodeData(t, readUntil(t, ws, game.EventNameChanged), &renamed)
	assert.Equal(t, "Player 1", renamed.OldName)
	assert.Equal(t, "Ada Lovelace", renamed.NewName)

	sendCmd(t, ws, datatypes.Command{Action: datatypes.ActionGetRoom})
	var state game.RoomSnapshot
	decodeData(t, readUntil(t, ws, datatypes.EventRoomState), &state)
	assert.Equal(t, "Ada Lovelace", state.Players[0].Name)
}

func TestGameSocketDisconnectDuringPlayRetainsPlayer(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	host := dialGame(t, srv)
	readUntil(t, host, datatypes.EventConnected)
	sendCmd(t, host, datatypes.Command{Action: datatypes.ActionCreateRoom, Name: "Alice"})
	var created datatypes.RoomCreatedEvent
	decodeData(t, readUntil(t, host, datatypes.EventRoomCreated), &created)

	racer := dialGame(t, srv)
	readUntil(t, racer, datatypes.EventConnected)
	sendCmd(t, racer, datatypes.Command{Action: datatypes.ActionJoinRoom, Code: created.Room.Code, Name: "Bob"})
	readUntil(t, racer, datatypes.EventRoomJoined)
	readUntil(t, host, game.EventPlayerJoined)

	sendCmd(t, host, datatypes.Command{Action: datatypes.ActionStartGame, StartTopic: "Dog", TargetTopic: "Cat"})
	readUntil(t, host, game.EventGameStarted)

	racer.Close()

	var dropped game.PlayerDisconnectedEvent
	decodeData(t, readUntil(t, host, game.EventPlayerDisconnected), &dropped)
	assert.Equal(t, "Bob", dropped.Name)
	require.Len(t, dropped.Room.Players, 2, "mid-race drops stay on the roster")

	sendCmd(t, host, datatypes.Command{Action: datatypes.ActionEndGame})
	var ended game.GameEndedEvent
	decodeData(t, readUntil(t, host, game.EventGameEnded), &ended)
	assert.Len(t, ended.Leaderboard, 2)
}
