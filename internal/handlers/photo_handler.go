package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	"github.com/BruksfildServices01/garage-manager/internal/storage"
	photouc "github.com/BruksfildServices01/garage-manager/internal/usecase/photo"
)

type PhotoHandler struct {
	photos *photouc.Photos
}

func NewPhotoHandler(photos *photouc.Photos) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// Upload takes multipart field "file" and an optional "caption".
func (h *PhotoHandler) Upload(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Arquivo não enviado.")
		return
	}
	if fh.Size > storage.MaxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Arquivo maior que 10 MB.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Arquivo inválido.")
		return
	}
	defer f.Close()

	p, err := h.photos.Upload(c.Request.Context(), actorFrom(c), id, f, c.PostForm("caption"))
	if err != nil {
		httperr.WriteError(c, err, "failed_to_upload_photo", "Erro ao enviar foto.")
		return
	}

	httpresp.Created(c, p)
}

func (h *PhotoHandler) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	photos, err := h.photos.List(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_list_photos", "Erro ao listar fotos.")
		return
	}

	httpresp.List(c, photos)
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	photoID, ok := pathID(c, "photoId")
	if !ok {
		return
	}

	if err := h.photos.Delete(c.Request.Context(), actorFrom(c), id, photoID); err != nil {
		httperr.WriteError(c, err, "failed_to_delete_photo", "Erro ao excluir foto.")
		return
	}

	httpresp.NoContent(c)
}
