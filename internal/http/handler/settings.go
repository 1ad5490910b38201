package handler

import (
	"github.com/gofiber/fiber/v2"

	"modelviewer/internal/apperr"
	"modelviewer/internal/model"
	"modelviewer/internal/service"
)

// saveSettingsRequest is the POST /settings body. Optional fields are
// pointers so an omitted field can be told apart from a zero value.
type saveSettingsRequest struct {
	MediaID         string  `json:"media_id"`
	BackgroundColor string  `json:"backgroundColor"`
	WireframeMode   *bool   `json:"wireframe_mode,omitempty"`
	MaterialType    *string `json:"material_type,omitempty"`
	HDRIPreset      *string `json:"hdri_preset,omitempty"`
}

type settingsResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *model.Settings `json:"data"`
}

type settingsListResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []model.Settings `json:"data"`
}

// SaveSettings godoc
// @Summary Create or overwrite the viewer settings of a model
// @Tags settings
// @Accept json
// @Produce json
// @Param body body saveSettingsRequest true "settings"
// @Success 201 {object} settingsResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /settings [post]
func SaveSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveSettingsRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.Validation("invalid request body")
		}
		s, err := svc.Save(c.UserContext(), service.SaveSettingsInput{
			MediaID:         req.MediaID,
			BackgroundColor: req.BackgroundColor,
			WireframeMode:   req.WireframeMode,
			MaterialType:    req.MaterialType,
			HDRIPreset:      req.HDRIPreset,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(settingsResponse{
			Success: true,
			Message: "Settings saved successfully",
			Data:    s,
		})
	}
}

// ListSettings godoc
// @Summary Get the settings of a model, newest first
// @Tags settings
// @Produce json
// @Param mediaId path string true "media id"
// @Success 200 {object} settingsListResponse
// @Failure 404 {object} errorPayload
// @Router /settings/{mediaId} [get]
func ListSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListForMedia(c.UserContext(), c.Params("mediaId"))
		if err != nil {
			return err
		}
		return c.JSON(settingsListResponse{Success: true, Count: len(list), Data: list})
	}
}
