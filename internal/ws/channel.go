package ws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Channel names:
//
//	broadcast     every live connection
//	user:<id>     connections authenticated as that user
//	job:<id>      connections watching that job
const ChannelBroadcast = "broadcast"

var ErrInvalidChannel = errors.New("ws: invalid channel")

func UserChannel(id uuid.UUID) string { return "user:" + id.String() }

func JobChannel(id uuid.UUID) string { return "job:" + id.String() }

// ParseChannel splits "job:<id>" into ("job", id). Broadcast has no id.
func ParseChannel(channel string) (kind string, id uuid.UUID, err error) {
	if channel == ChannelBroadcast {
		return ChannelBroadcast, uuid.Nil, nil
	}
	kind, raw, ok := strings.Cut(channel, ":")
	if !ok || (kind != "user" && kind != "job") {
		return "", uuid.Nil, fmt.Errorf("%w %q", ErrInvalidChannel, channel)
	}
	id, err = uuid.Parse(raw)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("%w %q: %w", ErrInvalidChannel, channel, err)
	}
	return kind, id, nil
}
