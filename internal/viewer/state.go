// Package viewer keeps the client-side render state in sync with the API.
//
// State changes only through Reduce, a pure function over typed actions.
// Controller owns one State, runs the network effects and dispatches their
// outcomes. Settings always describe the active media or hold defaults.
package viewer

import "modelviewer/internal/model"

// Status tracks one async resource.
type Status uint8

const (
	StatusIdle Status = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "idle"
	}
}

// MediaOp names the media operation behind MediaState.Status.
type MediaOp uint8

const (
	OpNone MediaOp = iota
	OpFetchLatest
	OpUpload
	OpDelete
)

// MediaState is the active model. ID and URL are set and cleared together.
type MediaState struct {
	ID     string
	URL    string
	Status Status
	Op     MediaOp
}

// Active reports whether a model is loaded.
func (m MediaState) Active() bool { return m.ID != "" }

// FetchTag identifies one settings fetch: the media it targets plus a
// sequence number unique per controller.
type FetchTag struct {
	MediaID string
	Seq     uint64
}

// SettingsState holds the in-memory settings of the active media.
// Values may contain unsaved local edits. Source is the media whose server
// record Values were last loaded from, "" when Values are defaults or drafts
// over defaults.
type SettingsState struct {
	Values      model.Preferences
	Source      string
	FetchStatus Status
	SaveStatus  Status
	// InFlight is the tag of the settings fetch whose response is awaited.
	InFlight FetchTag
}

// State is the whole client render state.
type State struct {
	Media    MediaState
	Settings SettingsState
	// Error is the last user-facing failure (upload, delete, save).
	Error string
}

// InitialState is the state before mount: no media, default settings.
func InitialState() State {
	return State{Settings: SettingsState{Values: model.DefaultPreferences()}}
}
