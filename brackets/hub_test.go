package brackets

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentRoom(t *testing.T) {
	assert.Equal(t, "tournament_7", TournamentRoom(7))
}

func TestHubDeliversToTournamentRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		Hub:  hub,
		Send: make(chan []byte, 4),
		Room: TournamentRoom(7),
	}
	hub.Register <- client

	// Registration is processed asynchronously, so broadcast until the room
	// exists and the event lands.
	var raw []byte
	require.Eventually(t, func() bool {
		hub.BroadcastToRoom(TournamentRoom(7), Event{
			Type:    EventMatchUpdated,
			Payload: map[string]int{"match_id": 3},
		})
		select {
		case raw = <-client.Send:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "subscriber of the tournament room never received the event")

	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, EventMatchUpdated, event.Type)
	assert.Equal(t, TournamentRoom(7), event.RoomID)
}

func TestHubSkipsOtherRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		Hub:  hub,
		Send: make(chan []byte, 4),
		Room: TournamentRoom(7),
	}
	hub.Register <- client

	require.Eventually(t, func() bool {
		hub.BroadcastToRoom(TournamentRoom(7), Event{Type: EventMatchUpdated})
		select {
		case <-client.Send:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// Drain events queued by the wait loop.
	for {
		select {
		case <-client.Send:
			continue
		default:
		}
		break
	}

	hub.BroadcastToRoom(TournamentRoom(8), Event{Type: EventMatchUpdated})
	select {
	case <-client.Send:
		t.Fatal("received an event for another tournament")
	case <-time.After(50 * time.Millisecond):
	}
}
