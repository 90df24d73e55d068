package controllers

import (
	"io"
	"mime"
	"net/http"
	"sort"

	"crml-backend/models"
	"crml-backend/repository"
	"crml-backend/services"
	"crml-backend/storage"
	"crml-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateMotifInput defines the expected JSON structure for creating a motif
type CreateMotifInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    string `json:"position"`
	Deposit     int    `json:"deposit"`
	Payment     int    `json:"payment"`
	Quantity    int    `json:"quantity"`
	CustomerID  *uint  `json:"customerId"`
}

// UpdateMotifInput replaces every field of a motif except its attachments
type UpdateMotifInput struct {
	ID uint `json:"id" binding:"required"`
	CreateMotifInput
}

func (in CreateMotifInput) ToMotif() *models.Motif {
	return &models.Motif{
		Title:       in.Title,
		Description: in.Description,
		Position:    in.Position,
		Deposit:     in.Deposit,
		Payment:     in.Payment,
		Quantity:    in.Quantity,
		CustomerID:  in.CustomerID,
	}
}

func (in UpdateMotifInput) ToMotif() *models.Motif {
	motif := in.CreateMotifInput.ToMotif()
	motif.ID = in.ID
	return motif
}

type MotifController struct {
	repo        repository.Repository[models.Motif]
	attachments *services.AttachmentService
}

func NewMotifController(repo repository.Repository[models.Motif], attachments *services.AttachmentService) *MotifController {
	return &MotifController{repo: repo, attachments: attachments}
}

// GetMotifs lists motifs, optionally for one customer
func (mc *MotifController) GetMotifs(c *gin.Context) {
	var query repository.MotifQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	motifs, err := mc.repo.GetAll(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Motif not found")
		return
	}

	c.JSON(http.StatusOK, motifs)
}

func (mc *MotifController) GetMotif(c *gin.Context) {
	id, ok := parseID(c, "motif")
	if !ok {
		return
	}

	motif, err := mc.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Motif not found")
		return
	}

	c.JSON(http.StatusOK, motif)
}

func (mc *MotifController) CreateMotif(c *gin.Context) {
	var input CreateMotifInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	motif, err := mc.repo.Create(c.Request.Context(), input.ToMotif())
	if err != nil {
		respondError(c, err, "Motif not found")
		return
	}

	c.JSON(http.StatusOK, motif)
}

// UpdateMotif replaces the motif identified by the body id. The attachment
// list is kept as stored.
func (mc *MotifController) UpdateMotif(c *gin.Context) {
	var input UpdateMotifInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	motif, err := mc.repo.Update(c.Request.Context(), input.ID, input.ToMotif())
	if err != nil {
		respondError(c, err, "Motif not found")
		return
	}

	c.JSON(http.StatusOK, motif)
}

// DeleteMotif removes the motif together with its attachment directory
func (mc *MotifController) DeleteMotif(c *gin.Context) {
	id, ok := parseID(c, "motif")
	if !ok {
		return
	}

	motif, err := mc.attachments.DeleteMotif(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Motif not found")
		return
	}

	c.JSON(http.StatusOK, motif)
}

// DownloadAttachment streams one attachment with a content type taken from
// its extension.
func (mc *MotifController) DownloadAttachment(c *gin.Context) {
	id, ok := parseID(c, "motif")
	if !ok {
		return
	}
	filename := c.Param("filename")

	f, size, err := mc.attachments.Open(c.Request.Context(), id, filename)
	if err != nil {
		respondError(c, err, "Attachment not found")
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, size, storage.ContentType(filename), f, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": filename}),
	})
}

// UploadAttachments stores every file of a multipart form on the motif
func (mc *MotifController) UploadAttachments(c *gin.Context) {
	id, ok := parseID(c, "motif")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var uploads []services.Upload
	for _, field := range fields {
		for _, fh := range form.File[field] {
			uploads = append(uploads, services.Upload{
				Filename: fh.Filename,
				Open:     func() (io.ReadCloser, error) { return fh.Open() },
			})
		}
	}

	if err := mc.attachments.Upload(c.Request.Context(), id, uploads); err != nil {
		respondError(c, err, "Motif not found")
		return
	}

	c.Status(http.StatusOK)
}

// DeleteAttachment removes one listed attachment from the motif
func (mc *MotifController) DeleteAttachment(c *gin.Context) {
	id, ok := parseID(c, "motif")
	if !ok {
		return
	}

	if err := mc.attachments.Delete(c.Request.Context(), id, c.Param("filename")); err != nil {
		respondError(c, err, "Attachment not found")
		return
	}

	c.Status(http.StatusOK)
}
