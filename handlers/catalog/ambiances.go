package catalog

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/services"
	"github.com/respir-app/respir-api/services/storage"
	"github.com/respir-app/respir-api/utils/query"
	"github.com/respir-app/respir-api/utils/response"
	"github.com/respir-app/respir-api/utils/validation"
	"gorm.io/gorm"
)

// AmbienceHandler handles background soundtrack requests
type AmbienceHandler struct {
	ambiances *services.LookupService[model.Ambience]
	audio     *storage.AudioStore
	validator *validation.Validator
}

// NewAmbienceHandler creates the handler; audio may be nil when no bucket is configured
func NewAmbienceHandler(db *gorm.DB, audio *storage.AudioStore) *AmbienceHandler {
	return &AmbienceHandler{
		ambiances: services.NewAmbienceService(db),
		audio:     audio,
		validator: validation.NewValidator(),
	}
}

// AudioResponse is the playable location of an ambience soundtrack
type AudioResponse struct {
	AmbienceID uint       `json:"ambience_id"`
	URL        string     `json:"url"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func (h *AmbienceHandler) ListAmbiances(c *fiber.Ctx) error {
	ambiances, err := h.ambiances.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "Failed to fetch ambiances")
	}
	return response.Success(c, ambiances)
}

func (h *AmbienceHandler) GetAmbience(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	ambience, err := h.ambiances.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch ambience")
	}
	return response.Success(c, ambience)
}

// GetAmbienceAudio handles GET /ambiances/:id/audio
func (h *AmbienceHandler) GetAmbienceAudio(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	ambience, err := h.ambiances.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch ambience")
	}
	if ambience.AudioURL == nil || *ambience.AudioURL == "" {
		return response.NotFound(c, "This ambience has no audio")
	}

	url, expiresAt, err := h.audio.PlayableURL(*ambience.AudioURL)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return response.ServiceUnavailable(c, "Audio storage is not configured")
		}
		return response.FromError(c, err, "Failed to resolve audio URL")
	}

	audio := AudioResponse{AmbienceID: ambience.ID, URL: url}
	if !expiresAt.IsZero() {
		audio.ExpiresAt = &expiresAt
	}
	return response.Success(c, audio)
}

func (h *AmbienceHandler) CreateAmbience(c *fiber.Ctx) error {
	var req CreateAmbienceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	req.AudioURL = validation.SanitizeOptional(req.AudioURL)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ambience, err := h.ambiances.Create(c.UserContext(), &model.Ambience{
		Name:        req.Name,
		Description: req.Description,
		AudioURL:    req.AudioURL,
	})
	if err != nil {
		return response.FromError(c, err, "Failed to create ambience")
	}
	return response.Created(c, ambience)
}

func (h *AmbienceHandler) UpdateAmbience(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	var req UpdateAmbienceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name.IsNull() {
		return response.FieldValidationError(c, "name", "name cannot be null")
	}
	if blank(req.Name) {
		return response.FieldValidationError(c, "name", "name cannot be empty")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	changes := map[string]interface{}{}
	req.Name.Map(changes, "name", validation.SanitizeString)
	req.Description.Put(changes, "description")
	req.AudioURL.Map(changes, "audio_url", validation.SanitizeString)

	ambience, err := h.ambiances.Update(c.UserContext(), id, changes)
	if err != nil {
		return response.FromError(c, err, "Failed to update ambience")
	}
	return response.Success(c, ambience)
}

func (h *AmbienceHandler) DeleteAmbience(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	if err := h.ambiances.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err, "Failed to delete ambience")
	}
	return response.NoContent(c)
}
