package handler

import (
	"errors"
	"strings"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// itemTypeFromParam maps the route segment onto the stocked item type.
func itemTypeFromParam(param string) (string, bool) {
	switch strings.ToLower(param) {
	case "frames":
		return constants.ITEM_FRAME, true
	case "lenses":
		return constants.ITEM_LENS, true
	case "lens-cleaners":
		return constants.ITEM_LENS_CLEANER, true
	case "others":
		return constants.ITEM_OTHER, true
	case "hearing":
		return constants.ITEM_HEARING, true
	}
	return "", false
}

func CreateProduct(c *fiber.Ctx) error {
	db := database.DB

	itemType, ok := itemTypeFromParam(c.Params("itemType"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown product type", errors.New("invalid itemType"))
	}

	input, ok := c.Locals("input").(model.CreateProductInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	var created interface{}
	err := db.Transaction(func(tx *gorm.DB) error {
		switch itemType {
		case constants.ITEM_FRAME:
			p := model.Frame{
				Slug:      helper.GenerateUniqueProductSlug(tx, &model.Frame{}, input.Name),
				Name:      input.Name,
				Brand:     input.Brand,
				ModelNo:   input.ModelNo,
				Color:     input.Color,
				Size:      input.Size,
				UnitPrice: input.UnitPrice,
			}
			created = &p
			return tx.Create(&p).Error
		case constants.ITEM_LENS:
			p := model.Lens{
				Slug:      helper.GenerateUniqueProductSlug(tx, &model.Lens{}, input.Name),
				Name:      input.Name,
				Brand:     input.Brand,
				LensType:  input.LensType,
				Coating:   input.Coating,
				UnitPrice: input.UnitPrice,
			}
			created = &p
			return tx.Create(&p).Error
		case constants.ITEM_LENS_CLEANER:
			p := model.LensCleaner{
				Slug:      helper.GenerateUniqueProductSlug(tx, &model.LensCleaner{}, input.Name),
				Name:      input.Name,
				Volume:    input.Volume,
				UnitPrice: input.UnitPrice,
			}
			created = &p
			return tx.Create(&p).Error
		case constants.ITEM_OTHER:
			p := model.OtherItem{
				Slug:      helper.GenerateUniqueProductSlug(tx, &model.OtherItem{}, input.Name),
				Name:      input.Name,
				UnitPrice: input.UnitPrice,
			}
			created = &p
			return tx.Create(&p).Error
		case constants.ITEM_HEARING:
			p := model.HearingItem{
				Slug:      helper.GenerateUniqueProductSlug(tx, &model.HearingItem{}, input.Name),
				Name:      input.Name,
				Brand:     input.Brand,
				ModelNo:   input.ModelNo,
				UnitPrice: input.UnitPrice,
			}
			created = &p
			return tx.Create(&p).Error
		}
		return errors.New("invalid itemType")
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, created)
}

func GetProducts(c *fiber.Ctx) error {
	db := database.DB

	itemType, ok := itemTypeFromParam(c.Params("itemType"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown product type", errors.New("invalid itemType"))
	}

	filterInput, ok := c.Locals("input").(model.FilterProduct)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	var dest interface{}
	var condition *gorm.DB
	switch itemType {
	case constants.ITEM_FRAME:
		dest = &[]model.Frame{}
		condition = db.Model(&model.Frame{})
	case constants.ITEM_LENS:
		dest = &[]model.Lens{}
		condition = db.Model(&model.Lens{})
	case constants.ITEM_LENS_CLEANER:
		dest = &[]model.LensCleaner{}
		condition = db.Model(&model.LensCleaner{})
	case constants.ITEM_OTHER:
		dest = &[]model.OtherItem{}
		condition = db.Model(&model.OtherItem{})
	case constants.ITEM_HEARING:
		dest = &[]model.HearingItem{}
		condition = db.Model(&model.HearingItem{})
	}

	if filterInput.SearchKey != "" {
		key := "%" + strings.ToLower(filterInput.SearchKey) + "%"
		condition = condition.Where("LOWER(name) LIKE ? OR slug LIKE ?", key, key)
	}
	if filterInput.Brand != "" {
		condition = condition.Where("brand = ?", filterInput.Brand)
	}

	var totalCount int64
	condition.Count(&totalCount)

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	condition.Order("id ASC").Find(dest)

	response := &model.ResponseCustom{
		Rows:       dest,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetProductById(c *fiber.Ctx) error {
	db := database.DB

	itemType, ok := itemTypeFromParam(c.Params("itemType"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown product type", errors.New("invalid itemType"))
	}
	productId := c.Locals("inputId").(int)

	var dest interface{}
	switch itemType {
	case constants.ITEM_FRAME:
		dest = &model.Frame{}
	case constants.ITEM_LENS:
		dest = &model.Lens{}
	case constants.ITEM_LENS_CLEANER:
		dest = &model.LensCleaner{}
	case constants.ITEM_OTHER:
		dest = &model.OtherItem{}
	case constants.ITEM_HEARING:
		dest = &model.HearingItem{}
	}

	if err := db.First(dest, productId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, dest)
}

// CreateExternalLens registers a customer-supplied lens; it never gets a
// stock record.
func CreateExternalLens(c *fiber.Ctx) error {
	db := database.DB

	var input struct {
		Name     string `json:"name" validate:"required"`
		LabName  string `json:"labName"`
		LensType string `json:"lensType"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
	}
	if input.Name == "" {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Name is required", nil, "name")
	}

	lens := model.ExternalLens{
		Name:     input.Name,
		LabName:  input.LabName,
		LensType: input.LensType,
	}
	if err := db.Create(&lens).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, lens)
}
