package handlers

import (
	"net/http"
	"strconv"

	"github.com/landrytower/liprobakin/middleware"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

type NewsHandler struct {
	newsService  services.NewsService
	adminService services.AdminService
}

func NewNewsHandler(newsService services.NewsService, adminService services.AdminService) *NewsHandler {
	return &NewsHandler{newsService: newsService, adminService: adminService}
}

func (h *NewsHandler) listParams(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p >= 1 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l >= 1 && l <= 100 {
		limit = l
	}
	return page, limit
}

// ListPublished — публичная лента: только опубликованные статьи.
func (h *NewsHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page, limit := h.listParams(r)

	articles, total, err := h.newsService.List(r.Context(), true, page, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"articles": articles, "total": total}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListAll — для редакции, включая черновики.
func (h *NewsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, limit := h.listParams(r)

	articles, total, err := h.newsService.List(r.Context(), false, page, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"articles": articles, "total": total}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	articleID, err := getIDFromURL(r, "articleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	article, err := h.newsService.Get(r.Context(), articleID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"article": article}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	var input services.NewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	article, err := h.newsService.Create(r.Context(), identity.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"article": article}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	articleID, err := getIDFromURL(r, "articleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.NewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	article, err := h.newsService.Update(r.Context(), articleID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"article": article}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	articleID, err := getIDFromURL(r, "articleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Published bool `json:"published"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var actor *models.AdminUser
	if admin, err := h.adminService.GetByID(r.Context(), identity.ID); err == nil {
		actor = admin
	}

	if err := h.newsService.Publish(r.Context(), actor, articleID, input.Published); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	articleID, err := getIDFromURL(r, "articleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.newsService.Delete(r.Context(), articleID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NewsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	articleID, err := getIDFromURL(r, "articleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, ext, err := readUploadedFile(w, r, "image")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	article, err := h.newsService.UploadImage(r.Context(), articleID, contentType, ext, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"article": article}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
