package server

import (
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/speaker"
)

// CommandType names what a client asks the session's speaker to do.
type CommandType string

const (
	CommandSpeak        CommandType = "speak"
	CommandStop         CommandType = "stop"
	CommandSetParameter CommandType = "set_parameter"
	CommandSetVoice     CommandType = "set_voice"
	// CommandProfile applies Profile when given and always replies with the
	// resulting profile.
	CommandProfile CommandType = "profile"
)

// Command is a text frame sent by a client.
type Command struct {
	Type CommandType `json:"type" jsonschema:"title=Type,enum=speak,enum=stop,enum=set_parameter,enum=set_voice,enum=profile"`

	Text     string `json:"text,omitempty" jsonschema:"title=Text,description=Text to speak"`
	SSML     bool   `json:"ssml,omitempty" jsonschema:"title=SSML,description=Interpret SSML tags in text"`
	Phonemes bool   `json:"phonemes,omitempty" jsonschema:"title=Phonemes,description=Interpret [[phoneme]] input"`

	Parameter string `json:"parameter,omitempty" jsonschema:"title=Parameter,description=Parameter constant name such as RATE"`
	Value     int    `json:"value,omitempty" jsonschema:"title=Value"`

	Voice        *bridge.VoiceSelection `json:"voice,omitempty" jsonschema:"title=Voice"`
	ReplaceVoice bool                   `json:"replace_voice,omitempty" jsonschema:"title=Replace voice,description=Replace the whole voice instead of merging set fields"`
	Profile      *speaker.Profile       `json:"profile,omitempty" jsonschema:"title=Profile"`
}

// ReplyType names a non-event text frame sent to a client.
type ReplyType string

const (
	ReplySession ReplyType = "session"
	ReplyProfile ReplyType = "profile"
	ReplyError   ReplyType = "error"
)

// Reply answers a command. Synthesis events are sent as event envelopes
// instead.
type Reply struct {
	Type    ReplyType        `json:"type" jsonschema:"title=Type,enum=session,enum=profile,enum=error"`
	Session string           `json:"session,omitempty" jsonschema:"title=Session"`
	Command CommandType      `json:"command,omitempty" jsonschema:"title=Command,description=Command that failed"`
	Error   string           `json:"error,omitempty" jsonschema:"title=Error"`
	Profile *speaker.Profile `json:"profile,omitempty" jsonschema:"title=Profile"`
}
