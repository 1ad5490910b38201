package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"modelviewer/internal/model"
)

var (
	mediaA = model.Media{ID: "a", MediaURL: "http://blob.test/a.glb"}
	mediaB = model.Media{ID: "b", MediaURL: "http://blob.test/b.glb"}
	darkA  = model.Settings{MediaID: "a", BackgroundColor: "#000000", WireframeMode: true,
		MaterialType: model.MaterialMetallic, HDRIPreset: model.PresetNight}
)

func reduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func TestReduce_InitialState(t *testing.T) {
	s := InitialState()

	assert.False(t, s.Media.Active())
	assert.Equal(t, StatusIdle, s.Media.Status)
	assert.Equal(t, model.DefaultPreferences(), s.Settings.Values)
	assert.True(t, ShouldFetchLatest(s))
	assert.True(t, CanUpload(s))
	assert.False(t, CanDelete(s))
	assert.False(t, CanSave(s))
}

func TestReduce_FetchLatest(t *testing.T) {
	s := reduceAll(InitialState(), FetchLatestStarted{})
	assert.Equal(t, StatusPending, s.Media.Status)
	assert.Empty(t, s.Media.URL)
	assert.False(t, ShouldFetchLatest(s))

	ok := Reduce(s, FetchLatestSucceeded{Media: mediaA})
	assert.Equal(t, MediaState{ID: "a", URL: mediaA.MediaURL, Status: StatusFulfilled}, ok.Media)
	assert.False(t, ShouldFetchLatest(ok))

	failed := Reduce(s, FetchLatestFailed{})
	assert.False(t, failed.Media.Active())
	assert.Equal(t, StatusRejected, failed.Media.Status)
	assert.Empty(t, failed.Error)
	assert.True(t, ShouldFetchLatest(failed))
}

func TestReduce_FetchLatestSupersededByUpload(t *testing.T) {
	s := reduceAll(InitialState(),
		FetchLatestStarted{},
		UploadStarted{},
		UploadSucceeded{Media: mediaB},
		FetchLatestSucceeded{Media: mediaA},
	)

	assert.Equal(t, "b", s.Media.ID)
}

func TestReduce_Upload(t *testing.T) {
	loaded := reduceAll(InitialState(), UploadStarted{}, UploadSucceeded{Media: mediaA})

	pending := Reduce(loaded, UploadStarted{})
	assert.False(t, CanUpload(pending))
	assert.False(t, CanDelete(pending))

	failed := Reduce(pending, UploadFailed{Message: "Only .glb and .gltf files are allowed"})
	assert.Equal(t, "a", failed.Media.ID)
	assert.Equal(t, mediaA.MediaURL, failed.Media.URL)
	assert.Equal(t, StatusRejected, failed.Media.Status)
	assert.Equal(t, "Only .glb and .gltf files are allowed", failed.Error)

	replaced := Reduce(Reduce(failed, UploadStarted{}), UploadSucceeded{Media: mediaB})
	assert.Equal(t, "b", replaced.Media.ID)
	assert.Equal(t, mediaB.MediaURL, replaced.Media.URL)
	assert.Empty(t, replaced.Error)
}

func TestReduce_Delete(t *testing.T) {
	loaded := reduceAll(InitialState(), UploadStarted{}, UploadSucceeded{Media: mediaA})

	pending := Reduce(loaded, DeleteStarted{})
	assert.Equal(t, "a", pending.Media.ID, "id is kept until the server confirms")
	assert.False(t, CanUpload(pending))

	failed := Reduce(pending, DeleteFailed{Message: "Media not found"})
	assert.Equal(t, "a", failed.Media.ID)
	assert.Equal(t, "Media not found", failed.Error)

	done := Reduce(pending, DeleteSucceeded{MediaID: "a"})
	assert.Equal(t, MediaState{}, done.Media)
	assert.Equal(t, model.DefaultPreferences(), done.Settings.Values)
}

func TestReduce_MediaChangeResetsSettings(t *testing.T) {
	s := reduceAll(InitialState(), UploadStarted{}, UploadSucceeded{Media: mediaA})
	tag := FetchTag{MediaID: "a", Seq: 1}
	s = reduceAll(s, SettingsFetchStarted{Tag: tag}, SettingsFetchSucceeded{Tag: tag, Settings: darkA})
	assert.Equal(t, darkA.Preferences(), s.Settings.Values)
	assert.Equal(t, "a", s.Settings.Source)

	s = reduceAll(s, UploadStarted{}, UploadSucceeded{Media: mediaB})

	assert.Equal(t, model.DefaultPreferences(), s.Settings.Values)
	assert.Empty(t, s.Settings.Source)
	assert.Equal(t, FetchTag{}, s.Settings.InFlight)
}

func TestReduce_StaleSettingsDropped(t *testing.T) {
	s := reduceAll(InitialState(), UploadStarted{}, UploadSucceeded{Media: mediaA})
	tagA := FetchTag{MediaID: "a", Seq: 1}
	s = Reduce(s, SettingsFetchStarted{Tag: tagA})
	s = reduceAll(s, UploadStarted{}, UploadSucceeded{Media: mediaB})
	tagB := FetchTag{MediaID: "b", Seq: 2}
	s = Reduce(s, SettingsFetchStarted{Tag: tagB})

	late := Reduce(s, SettingsFetchSucceeded{Tag: tagA, Settings: darkA})
	assert.Equal(t, s, late)
	assert.False(t, FetchIsCurrent(s, tagA))
	assert.True(t, FetchIsCurrent(s, tagB))

	// same media, superseded sequence
	s = Reduce(s, SettingsFetchStarted{Tag: FetchTag{MediaID: "b", Seq: 3}})
	assert.Equal(t, s, Reduce(s, SettingsFetchNotFound{Tag: tagB}))
}

func TestReduce_SettingsFetchOutcomes(t *testing.T) {
	s := reduceAll(InitialState(), UploadStarted{}, UploadSucceeded{Media: mediaA})
	tag := FetchTag{MediaID: "a", Seq: 1}
	s = Reduce(s, SettingsFetchStarted{Tag: tag})
	assert.Equal(t, StatusPending, s.Settings.FetchStatus)

	nf := Reduce(s, SettingsFetchNotFound{Tag: tag})
	assert.Equal(t, StatusFulfilled, nf.Settings.FetchStatus)
	assert.Equal(t, model.DefaultPreferences(), nf.Settings.Values)

	failed := Reduce(s, SettingsFetchFailed{Tag: tag})
	assert.Equal(t, StatusRejected, failed.Settings.FetchStatus)
	assert.Empty(t, failed.Error)
	assert.Equal(t, model.DefaultPreferences(), failed.Settings.Values)
}

func TestReduce_SettingsFetchForInactiveMediaIgnored(t *testing.T) {
	s := InitialState()

	got := Reduce(s, SettingsFetchStarted{Tag: FetchTag{MediaID: "a", Seq: 1}})

	assert.Equal(t, s, got)
}

func TestReduce_Save(t *testing.T) {
	s := reduceAll(InitialState(), UploadStarted{}, UploadSucceeded{Media: mediaA})
	edited := darkA.Preferences()
	edited.BackgroundColor = "#ff0000"
	s = Reduce(s, SetLocalSettings{Values: edited})
	assert.Equal(t, edited, s.Settings.Values)

	pending := Reduce(s, SaveStarted{})
	assert.False(t, CanSave(pending))

	failed := Reduce(pending, SaveFailed{Message: "backgroundColor must be a hex colour such as #ffffff"})
	assert.Equal(t, edited, failed.Settings.Values, "unsaved edits are kept")
	assert.Equal(t, StatusRejected, failed.Settings.SaveStatus)
	assert.NotEmpty(t, failed.Error)

	saved := darkA
	saved.BackgroundColor = "#ff0000"
	ok := Reduce(failed, SaveSucceeded{Settings: saved})
	assert.Equal(t, saved.Preferences(), ok.Settings.Values)
	assert.Equal(t, "a", ok.Settings.Source)
	assert.Equal(t, StatusFulfilled, ok.Settings.SaveStatus)
	assert.Empty(t, ok.Error)
}

func TestReduce_SaveCancelsPendingFetch(t *testing.T) {
	s := reduceAll(InitialState(), UploadStarted{}, UploadSucceeded{Media: mediaA})
	tag := FetchTag{MediaID: "a", Seq: 1}
	s = reduceAll(s, SettingsFetchStarted{Tag: tag}, SaveStarted{}, SaveSucceeded{Settings: darkA})

	late := Reduce(s, SettingsFetchNotFound{Tag: tag})

	assert.Equal(t, darkA.Preferences(), late.Settings.Values)
}

func TestReduce_SaveForPreviousMedia(t *testing.T) {
	s := reduceAll(InitialState(), UploadStarted{}, UploadSucceeded{Media: mediaB}, SaveStarted{})

	got := Reduce(s, SaveSucceeded{Settings: darkA})

	assert.Equal(t, model.DefaultPreferences(), got.Settings.Values)
	assert.Equal(t, StatusFulfilled, got.Settings.SaveStatus)
}

func TestReduce_ClearError(t *testing.T) {
	s := Reduce(InitialState(), UploadFailed{Message: "boom"})

	assert.Empty(t, Reduce(s, ClearError{}).Error)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "fulfilled", StatusFulfilled.String())
	assert.Equal(t, "rejected", StatusRejected.String())
}
