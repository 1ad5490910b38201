package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"modelviewer/internal/http/middleware"
	"modelviewer/internal/repository/memory"
	"modelviewer/internal/service"
	"modelviewer/internal/storage"
)

type apiFixture struct {
	app   *fiber.App
	blobs storage.Storage
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	store := memory.NewStore()
	blobs := storage.NewMemory("http://localhost:5000/blobs")
	log := zap.NewNop()

	app := newTestApp(false)
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	RegisterRoutes(app, Deps{
		Media:    service.NewMediaService(blobs, store.Media(), store, log, service.WithMaxUploadBytes(1<<20)),
		Settings: service.NewSettingsService(store.Settings(), store.Media(), log),
		Health:   PingFunc(func(context.Context) error { return nil }),
		Blobs:    blobs,
	})
	return apiFixture{app: app, blobs: blobs}
}

func (f apiFixture) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode, decode[map[string]any](t, resp.Body)
}

func (f apiFixture) upload(t *testing.T, name string) (int, map[string]any) {
	t.Helper()
	body, ct := multipartBody(t, UploadFormField, name, []byte("glTF-binary"))
	req := httptest.NewRequest(http.MethodPost, "/media/upload", body)
	req.Header.Set("Content-Type", ct)
	return f.do(t, req)
}

func (f apiFixture) saveSettings(t *testing.T, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return f.do(t, req)
}

func TestAPI_UploadSettingsDeleteLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	status, up := f.upload(t, "chair.glb")
	require.Equal(t, http.StatusCreated, status)
	m1 := up["media_id"].(string)
	require.NotEmpty(t, m1)

	status, latest := f.do(t, httptest.NewRequest(http.MethodGet, "/media/latest", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, m1, latest["data"].(map[string]any)["_id"])

	// The returned URL resolves to the stored blob.
	blobPath := strings.TrimPrefix(up["file_url"].(string), "http://localhost:5000")
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, blobPath, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "glTF-binary", string(raw))
	assert.Equal(t, "model/gltf-binary", resp.Header.Get("Content-Type"))

	status, _ = f.saveSettings(t, `{"media_id":"`+m1+`","backgroundColor":"#112233","material_type":"metallic"}`)
	require.Equal(t, http.StatusCreated, status)

	status, list := f.do(t, httptest.NewRequest(http.MethodGet, "/settings/"+m1, nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), list["count"])
	rec := list["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "#112233", rec["backgroundColor"])
	assert.Equal(t, "metallic", rec["material_type"])
	assert.Equal(t, false, rec["wireframe_mode"])
	assert.Equal(t, "sunset", rec["hdri_preset"])

	status, del := f.do(t, httptest.NewRequest(http.MethodDelete, "/media/"+m1, nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, del["success"])

	status, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/settings/"+m1, nil))
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/media/latest", nil))
	assert.Equal(t, http.StatusNotFound, status)
	resp, err = f.app.Test(httptest.NewRequest(http.MethodGet, blobPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	status, _ = f.do(t, httptest.NewRequest(http.MethodDelete, "/media/"+m1, nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_AcceptedExtensions(t *testing.T) {
	for _, name := range []string{"a.glb", "b.gltf", "C.GLB"} {
		t.Run(name, func(t *testing.T) {
			f := newAPIFixture(t)
			status, up := f.upload(t, name)
			require.Equal(t, http.StatusCreated, status)

			_, latest := f.do(t, httptest.NewRequest(http.MethodGet, "/media/latest", nil))
			assert.Equal(t, up["media_id"], latest["data"].(map[string]any)["_id"])
		})
	}
}

func TestAPI_RejectedExtensionCreatesNothing(t *testing.T) {
	for _, name := range []string{"a.obj", "b.fbx", "noext", "c.glb.zip"} {
		t.Run(name, func(t *testing.T) {
			f := newAPIFixture(t)
			status, body := f.upload(t, name)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "Only .glb and .gltf files are allowed", body["message"])

			status, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/media/latest", nil))
			assert.Equal(t, http.StatusNotFound, status)
		})
	}
}

func TestAPI_SettingsOverwriteAndIdempotence(t *testing.T) {
	f := newAPIFixture(t)
	_, up := f.upload(t, "chair.glb")
	id := up["media_id"].(string)

	full := `{"media_id":"` + id + `","backgroundColor":"#000","wireframe_mode":true,"material_type":"leather","hdri_preset":"night"}`
	_, first := f.saveSettings(t, full)
	_, second := f.saveSettings(t, full)
	assert.Equal(t, first["data"].(map[string]any)["_id"], second["data"].(map[string]any)["_id"])

	_, list := f.do(t, httptest.NewRequest(http.MethodGet, "/settings/"+id, nil))
	assert.Equal(t, float64(1), list["count"])

	// A save with only the required fields resets the optionals.
	status, reset := f.saveSettings(t, `{"media_id":"`+id+`","backgroundColor":"#abcdef"}`)
	require.Equal(t, http.StatusCreated, status)
	data := reset["data"].(map[string]any)
	assert.Equal(t, false, data["wireframe_mode"])
	assert.Equal(t, "standard", data["material_type"])
	assert.Equal(t, "sunset", data["hdri_preset"])
}

func TestAPI_SettingsForUnknownMedia(t *testing.T) {
	f := newAPIFixture(t)

	status, body := f.saveSettings(t, `{"media_id":"7d0c6f2e-2b9a-4a57-9f55-0e4c4f3a8b21","backgroundColor":"#fff"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Media not found", body["message"])

	status, _ = f.saveSettings(t, `{"backgroundColor":"#fff"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_WrongMethodIsRouteNotFound(t *testing.T) {
	f := newAPIFixture(t)

	for _, r := range []struct{ method, path string }{
		{http.MethodPut, "/settings"},
		{http.MethodPost, "/media/latest"},
		{http.MethodPatch, "/media/upload"},
	} {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			status, body := f.do(t, httptest.NewRequest(r.method, r.path, nil))

			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(http.StatusNotFound), body["statusCode"])
			assert.Equal(t, "Route not found", body["message"])
		})
	}
}
