package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// BooksResponse is the JSON form of the listing page.
type BooksResponse struct {
	Books     []entities.Book `json:"books"`
	Total     int             `json:"total"`
	Sort      string          `json:"sort"`
	Direction string          `json:"direction"`
	Search    string          `json:"search"`
}

// ListBooksJSON serves the listing with the same parameters as the home page.
func (cc *CatalogController) ListBooksJSON(c *gin.Context) {
	var params library.ListParams
	_ = c.ShouldBindQuery(&params)
	params = params.Normalize()

	books, err := cc.service.ListBooks(c.Request.Context(), params)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}

	c.JSON(http.StatusOK, BooksResponse{
		Books:     books,
		Total:     len(books),
		Sort:      params.Sort,
		Direction: params.Direction,
		Search:    params.Search,
	})
}
