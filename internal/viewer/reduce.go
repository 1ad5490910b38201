package viewer

import "modelviewer/internal/model"

// Reduce returns the state after applying a to s. It is pure: s is not
// modified. Whenever the active media changes, settings are reset to defaults
// and any in-flight fetch is abandoned.
func Reduce(s State, a Action) State {
	next := reduce(s, a)
	if next.Media.ID != s.Media.ID {
		next.Settings = SettingsState{Values: model.DefaultPreferences()}
	}
	return next
}

func reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchLatestStarted:
		s.Media.Status = StatusPending
		s.Media.Op = OpFetchLatest

	case FetchLatestSucceeded:
		// An upload or delete that started meanwhile supersedes this answer.
		if s.Media.Op != OpFetchLatest {
			return s
		}
		s.Media = MediaState{ID: a.Media.ID, URL: a.Media.MediaURL, Status: StatusFulfilled}

	case FetchLatestFailed:
		if s.Media.Op != OpFetchLatest {
			return s
		}
		s.Media.Status = StatusRejected
		s.Media.Op = OpNone

	case UploadStarted:
		s.Media.Status = StatusPending
		s.Media.Op = OpUpload

	case UploadSucceeded:
		s.Media = MediaState{ID: a.Media.ID, URL: a.Media.MediaURL, Status: StatusFulfilled}
		s.Error = ""

	case UploadFailed:
		s.Media.Status = StatusRejected
		s.Media.Op = OpNone
		s.Error = a.Message

	case DeleteStarted:
		s.Media.Status = StatusPending
		s.Media.Op = OpDelete

	case DeleteSucceeded:
		if s.Media.ID == a.MediaID {
			s.Media = MediaState{}
		} else {
			s.Media.Status = StatusFulfilled
			s.Media.Op = OpNone
		}
		s.Error = ""

	case DeleteFailed:
		s.Media.Status = StatusRejected
		s.Media.Op = OpNone
		s.Error = a.Message

	case SettingsFetchStarted:
		if a.Tag.MediaID != s.Media.ID {
			return s
		}
		s.Settings.InFlight = a.Tag
		s.Settings.FetchStatus = StatusPending

	case SettingsFetchSucceeded:
		if !FetchIsCurrent(s, a.Tag) {
			return s
		}
		s.Settings.Values = a.Settings.Preferences()
		s.Settings.Source = a.Tag.MediaID
		s.Settings.FetchStatus = StatusFulfilled
		s.Settings.InFlight = FetchTag{}

	case SettingsFetchNotFound:
		if !FetchIsCurrent(s, a.Tag) {
			return s
		}
		s.Settings.Values = model.DefaultPreferences()
		s.Settings.Source = ""
		s.Settings.FetchStatus = StatusFulfilled
		s.Settings.InFlight = FetchTag{}

	case SettingsFetchFailed:
		if !FetchIsCurrent(s, a.Tag) {
			return s
		}
		s.Settings.FetchStatus = StatusRejected
		s.Settings.InFlight = FetchTag{}

	case SettingsReset:
		s.Settings = SettingsState{Values: model.DefaultPreferences()}

	case SaveStarted:
		s.Settings.SaveStatus = StatusPending

	case SaveSucceeded:
		s.Settings.SaveStatus = StatusFulfilled
		s.Error = ""
		if a.Settings.MediaID != s.Media.ID {
			return s
		}
		s.Settings.Values = a.Settings.Preferences()
		s.Settings.Source = a.Settings.MediaID
		// The saved record is newer than anything a pending fetch returns.
		if s.Settings.InFlight != (FetchTag{}) {
			s.Settings.InFlight = FetchTag{}
			s.Settings.FetchStatus = StatusFulfilled
		}

	case SaveFailed:
		s.Settings.SaveStatus = StatusRejected
		s.Error = a.Message

	case SetLocalSettings:
		s.Settings.Values = a.Values

	case ClearError:
		s.Error = ""
	}
	return s
}

// FetchIsCurrent reports whether a settings response tagged t may be applied
// to s: it must answer the awaited fetch and target the active media.
func FetchIsCurrent(s State, t FetchTag) bool {
	return t != (FetchTag{}) && t == s.Settings.InFlight && t.MediaID == s.Media.ID
}

// ShouldFetchLatest reports whether mount should ask for the latest media.
// A loaded URL or a fetch already under way makes it unnecessary.
func ShouldFetchLatest(s State) bool {
	return s.Media.URL == "" && s.Media.Op == OpNone
}

// CanUpload reports whether an upload may start.
func CanUpload(s State) bool {
	return s.Media.Op != OpUpload && s.Media.Op != OpDelete
}

// CanDelete reports whether the active media may be deleted.
func CanDelete(s State) bool {
	return s.Media.Active() && CanUpload(s)
}

// CanSave reports whether the in-memory settings may be saved.
func CanSave(s State) bool {
	return s.Media.Active() && s.Settings.SaveStatus != StatusPending
}
