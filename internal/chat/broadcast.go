package chat

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// broadcast encodes env once and hands it to every open member of room.
// Closed or saturated members are skipped. It returns how many members
// accepted the frame.
func broadcast(log zerolog.Logger, room *Room, env Envelope) int {
	payload, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("room", room.ID).Str("type", string(env.Type)).Msg("encode envelope")
		return 0
	}

	delivered := 0
	for _, member := range room.members {
		if !member.IsOpen() {
			log.Debug().Str("room", room.ID).Str("conn", member.ID()).Msg("skip closed member")
			continue
		}
		if !member.Send(payload) {
			log.Debug().Str("room", room.ID).Str("conn", member.ID()).Msg("send buffer full, frame dropped")
			continue
		}
		delivered++
	}

	log.Debug().Str("room", room.ID).Str("type", string(env.Type)).
		Int("members", len(room.members)).Int("delivered", delivered).Msg("broadcast")
	return delivered
}
