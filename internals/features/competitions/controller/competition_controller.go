// internals/features/competitions/controller/competition_controller.go
package controller

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dojoku_backend/internals/features/competitions/dto"
	competitionModel "dojoku_backend/internals/features/competitions/model"
	helper "dojoku_backend/internals/helpers"
)

type CompetitionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewCompetitionController(db *gorm.DB) *CompetitionController {
	return &CompetitionController{DB: db, Validator: validator.New()}
}

// ListCompetitions returns the reference list, newest first.
func (ctl *CompetitionController) ListCompetitions(c *fiber.Ctx) error {
	var competitions []competitionModel.CompetitionModel
	if err := ctl.DB.WithContext(c.Context()).
		Order("competition_id DESC").
		Find(&competitions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load competitions")
	}
	return helper.JsonOK(c, "competitions", competitions)
}

// CreateCompetition adds a named competition. Names are unique.
func (ctl *CompetitionController) CreateCompetition(c *fiber.Ctx) error {
	var req dto.CreateCompetitionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "name is required")
	}

	comp := competitionModel.CompetitionModel{CompetitionName: strings.TrimSpace(req.Name)}
	if err := ctl.DB.WithContext(c.Context()).Create(&comp).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "a competition with that name already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create competition")
	}
	return helper.JsonCreated(c, "competition created", comp)
}

// UpsertEntry records the caller's entry in a competition. An existing
// (member, competition) pair is updated in place; the request body is
// authoritative for result and event date.
func (ctl *CompetitionController) UpsertEntry(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var req dto.UpsertEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "competition_id is required; event_date must be YYYY-MM-DD")
	}

	var comp competitionModel.CompetitionModel
	if err := ctl.DB.WithContext(c.Context()).First(&comp, req.CompetitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "competition not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load competition")
	}

	var entry competitionModel.MemberCompetitionModel
	err = ctl.DB.WithContext(c.Context()).
		Where("entry_member_id = ? AND entry_competition_id = ?", memberID, comp.CompetitionID).
		Order("entry_id ASC").
		First(&entry).Error
	switch {
	case err == nil:
		entry.EntryResultPlace = req.ResultPlace
		entry.EntryEventDate = req.EventDate
		if err := ctl.DB.WithContext(c.Context()).
			Model(&competitionModel.MemberCompetitionModel{}).
			Where("entry_id = ?", entry.EntryID).
			Updates(map[string]any{
				"entry_result_place": req.ResultPlace,
				"entry_event_date":   req.EventDate,
			}).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update entry")
		}
		return helper.JsonUpdated(c, "entry updated", entry)
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = competitionModel.MemberCompetitionModel{
			EntryMemberID:      memberID,
			EntryCompetitionID: comp.CompetitionID,
			EntryAddedAt:       time.Now(),
			EntryResultPlace:   req.ResultPlace,
			EntryEventDate:     req.EventDate,
		}
		if err := ctl.DB.WithContext(c.Context()).Create(&entry).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record entry")
		}
		return helper.JsonCreated(c, "entry recorded", entry)
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to look up entry")
	}
}

// DeleteEntry removes one of the caller's own competition entries.
func (ctl *CompetitionController) DeleteEntry(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	entryID, err := strconv.ParseInt(c.Params("entryId"), 10, 64)
	if err != nil || entryID <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("entry_id = ? AND entry_member_id = ?", entryID, memberID).
		Delete(&competitionModel.MemberCompetitionModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete entry")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "entry not found")
	}
	return helper.JsonDeleted(c, "entry deleted", fiber.Map{"entry_id": entryID})
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
