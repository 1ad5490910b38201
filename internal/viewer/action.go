package viewer

import "modelviewer/internal/model"

// Action is an input to Reduce.
type Action interface {
	action()
}

type (
	FetchLatestStarted   struct{}
	FetchLatestSucceeded struct{ Media model.Media }
	// FetchLatestFailed covers "no media yet" as well as operational failures.
	FetchLatestFailed struct{ Err error }

	UploadStarted   struct{}
	UploadSucceeded struct{ Media model.Media }
	UploadFailed    struct{ Message string }

	DeleteStarted   struct{}
	DeleteSucceeded struct{ MediaID string }
	DeleteFailed    struct{ Message string }

	SettingsFetchStarted   struct{ Tag FetchTag }
	SettingsFetchSucceeded struct {
		Tag      FetchTag
		Settings model.Settings
	}
	SettingsFetchNotFound struct{ Tag FetchTag }
	SettingsFetchFailed   struct {
		Tag FetchTag
		Err error
	}
	SettingsReset struct{}

	SaveStarted   struct{}
	SaveSucceeded struct{ Settings model.Settings }
	SaveFailed    struct{ Message string }

	SetLocalSettings struct{ Values model.Preferences }
	ClearError       struct{}
)

func (FetchLatestStarted) action()     {}
func (FetchLatestSucceeded) action()   {}
func (FetchLatestFailed) action()      {}
func (UploadStarted) action()          {}
func (UploadSucceeded) action()        {}
func (UploadFailed) action()           {}
func (DeleteStarted) action()          {}
func (DeleteSucceeded) action()        {}
func (DeleteFailed) action()           {}
func (SettingsFetchStarted) action()   {}
func (SettingsFetchSucceeded) action() {}
func (SettingsFetchNotFound) action()  {}
func (SettingsFetchFailed) action()    {}
func (SettingsReset) action()          {}
func (SaveStarted) action()            {}
func (SaveSucceeded) action()          {}
func (SaveFailed) action()             {}
func (SetLocalSettings) action()       {}
func (ClearError) action()             {}
