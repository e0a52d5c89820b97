package controllers

import (
	"net/http"

	"campsite-backend/middleware"
	"campsite-backend/services"
	"campsite-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CampsiteController struct {
	Campsites *services.CampsiteService
}

func NewCampsiteController(campsites *services.CampsiteService) *CampsiteController {
	return &CampsiteController{Campsites: campsites}
}

// CampsiteRequest is the body for create and update. Omitted fields are
// left unchanged on update.
type CampsiteRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	LocationName  *string          `json:"location_name"`
	Latitude      *decimal.Decimal `json:"latitude"`
	Longitude     *decimal.Decimal `json:"longitude"`
	Capacity      *int             `json:"capacity"`
	PricePerNight *decimal.Decimal `json:"price_per_night"`
	Facilities    *string          `json:"facilities"`
	ImageURL      *string          `json:"image_url"`
	IsActive      *bool            `json:"is_active"`
}

func (r CampsiteRequest) input() services.CampsiteInput {
	return services.CampsiteInput{
		Name:          r.Name,
		Description:   r.Description,
		LocationName:  r.LocationName,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Capacity:      r.Capacity,
		PricePerNight: r.PricePerNight,
		Facilities:    r.Facilities,
		ImageURL:      r.ImageURL,
		IsActive:      r.IsActive,
	}
}

// GET /api/campsites
func (ctl *CampsiteController) List(c *gin.Context) {
	list, err := ctl.Campsites.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"campsites": toCampsiteResponses(list)})
}

// GET /api/campsites/:id
func (ctl *CampsiteController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	p, authed := middleware.CurrentPrincipal(c)
	campsite, err := ctl.Campsites.Get(c.Request.Context(), id, authed && p.IsAdmin())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"campsite": toCampsiteResponse(*campsite)})
}

// GET /api/admin/campsites
func (ctl *CampsiteController) AdminList(c *gin.Context) {
	list, err := ctl.Campsites.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"campsites": toCampsiteResponses(list)})
}

// POST /api/admin/campsites
func (ctl *CampsiteController) Create(c *gin.Context) {
	var req CampsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	campsite, err := ctl.Campsites.Create(c.Request.Context(), principal(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"message":  "Campsite created successfully",
		"campsite": toCampsiteResponse(*campsite),
	})
}

// PUT /api/admin/campsites/:id
func (ctl *CampsiteController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CampsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	campsite, err := ctl.Campsites.Update(c.Request.Context(), principal(c), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message":  "Campsite updated successfully",
		"campsite": toCampsiteResponse(*campsite),
	})
}

// DELETE /api/admin/campsites/:id
func (ctl *CampsiteController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.Campsites.Deactivate(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Campsite deleted successfully"})
}

type CampsiteImageRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// PUT /api/admin/campsites/:id/image
func (ctl *CampsiteController) UploadImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CampsiteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	campsite, err := ctl.Campsites.SetImage(c.Request.Context(), principal(c), id, req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message":  "Campsite image updated",
		"campsite": toCampsiteResponse(*campsite),
	})
}
