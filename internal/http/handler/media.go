package handler

import (
	"github.com/gofiber/fiber/v2"

	"modelviewer/internal/apperr"
	"modelviewer/internal/model"
	"modelviewer/internal/service"
)

// UploadFormField is the multipart field carrying the model file.
const UploadFormField = "model"

type uploadResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	FileURL string       `json:"file_url"`
	MediaID string       `json:"media_id"`
	Data    *model.Media `json:"data"`
}

type mediaResponse struct {
	Success bool         `json:"success"`
	Data    *model.Media `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UploadMedia godoc
// @Summary Upload a 3D model
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param model formData file true "glb or gltf file"
// @Success 201 {object} uploadResponse
// @Failure 400 {object} errorPayload
// @Router /media/upload [post]
func UploadMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile(UploadFormField)
		if err != nil {
			return apperr.Validation("No file uploaded")
		}
		f, err := fh.Open()
		if err != nil {
			return apperr.Validation("No file uploaded")
		}
		defer f.Close()

		m, err := svc.Upload(c.UserContext(), f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(uploadResponse{
			Success: true,
			Message: "File uploaded successfully",
			FileURL: m.MediaURL,
			MediaID: m.ID,
			Data:    m,
		})
	}
}

// LatestMedia godoc
// @Summary Get the most recently uploaded model
// @Tags media
// @Produce json
// @Success 200 {object} mediaResponse
// @Failure 404 {object} errorPayload
// @Router /media/latest [get]
func LatestMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := svc.Latest(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(mediaResponse{Success: true, Data: m})
	}
}

// GetMedia godoc
// @Summary Get a model by id
// @Tags media
// @Produce json
// @Param mediaId path string true "media id"
// @Success 200 {object} mediaResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /media/{mediaId} [get]
func GetMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := svc.Get(c.UserContext(), c.Params("mediaId"))
		if err != nil {
			return err
		}
		return c.JSON(mediaResponse{Success: true, Data: m})
	}
}

// DeleteMedia godoc
// @Summary Delete a model, its settings and its file
// @Tags media
// @Produce json
// @Param mediaId path string true "media id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /media/{mediaId} [delete]
func DeleteMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("mediaId")); err != nil {
			return err
		}
		return c.JSON(messageResponse{Success: true, Message: "Media deleted successfully"})
	}
}
