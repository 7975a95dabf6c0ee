package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/security"
	"github.com/mrlokans/library/internal/session"
)

// CatalogService is the subset of library.Service the pages need.
type CatalogService interface {
	ListBooks(ctx context.Context, params library.ListParams) ([]entities.Book, error)
	Authors(ctx context.Context) ([]entities.Author, error)
	AddAuthor(ctx context.Context, form library.AddAuthorForm) (*entities.Author, error)
	AddBook(ctx context.Context, form library.AddBookForm) (*entities.Book, error)
	DeleteBook(ctx context.Context, id uint) (*catalog.DeleteOutcome, error)
}

// Flasher carries one-time messages across the redirect after a form post.
type Flasher interface {
	AddFlash(ctx context.Context, category, message string)
	PopFlashes(ctx context.Context) []session.Flash
}

type CatalogController struct {
	service CatalogService
	flashes Flasher
}

// NewCatalogController creates the page controller. flashes may be nil, in
// which case confirmations are not shown.
func NewCatalogController(service CatalogService, flashes Flasher) *CatalogController {
	return &CatalogController{service: service, flashes: flashes}
}

func (cc *CatalogController) HomePage(c *gin.Context) {
	var params library.ListParams
	// Unknown values fall back to defaults, so binding never fails the page
	_ = c.ShouldBindQuery(&params)
	params = params.Normalize()

	books, err := cc.service.ListBooks(c.Request.Context(), params)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	cc.render(c, http.StatusOK, "home", gin.H{
		"Books":     books,
		"Sort":      params.Sort,
		"Direction": params.Direction,
		"Search":    params.Search,
	})
}

func (cc *CatalogController) AddAuthorPage(c *gin.Context) {
	cc.render(c, http.StatusOK, "add_author", gin.H{
		"Form": library.AddAuthorForm{},
	})
}

func (cc *CatalogController) AddAuthor(c *gin.Context) {
	var form library.AddAuthorForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid form submission")
		return
	}

	_, err := cc.service.AddAuthor(c.Request.Context(), form)
	if isUserError(err) {
		cc.render(c, http.StatusBadRequest, "add_author", gin.H{
			"Form":  form,
			"Error": library.UserMessage(err),
		})
		return
	}
	if err != nil {
		respondInternalError(c, err, "add author")
		return
	}

	cc.flash(c, session.FlashSuccess, "Author added successfully!")
	c.Redirect(http.StatusSeeOther, "/")
}

func (cc *CatalogController) AddBookPage(c *gin.Context) {
	authors, err := cc.service.Authors(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	cc.render(c, http.StatusOK, "add_book", gin.H{
		"Form":    library.AddBookForm{},
		"Authors": authors,
	})
}

func (cc *CatalogController) AddBook(c *gin.Context) {
	var form library.AddBookForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid form submission")
		return
	}

	_, err := cc.service.AddBook(c.Request.Context(), form)
	if isUserError(err) {
		authors, listErr := cc.service.Authors(c.Request.Context())
		if listErr != nil {
			respondInternalError(c, listErr, "list authors")
			return
		}
		cc.render(c, http.StatusBadRequest, "add_book", gin.H{
			"Form":    form,
			"Authors": authors,
			"Error":   library.UserMessage(err),
		})
		return
	}
	if err != nil {
		respondInternalError(c, err, "add book")
		return
	}

	cc.flash(c, session.FlashSuccess, "Book added successfully!")
	c.Redirect(http.StatusSeeOther, "/")
}

func (cc *CatalogController) DeleteBook(c *gin.Context) {
	id, inRange, err := parseRecordID(c.Param("book_id"))
	if err != nil {
		respondBadRequest(c, "invalid book_id")
		return
	}
	if !inRange {
		cc.flash(c, session.FlashError, "Book not found.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	outcome, err := cc.service.DeleteBook(c.Request.Context(), id)
	if errors.Is(err, library.ErrNotFound) {
		cc.flash(c, session.FlashError, "Book not found.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	cc.flash(c, session.FlashSuccess, library.DeleteConfirmation(outcome))
	c.Redirect(http.StatusSeeOther, "/")
}

func (cc *CatalogController) flash(c *gin.Context, category, message string) {
	if cc.flashes != nil {
		cc.flashes.AddFlash(c.Request.Context(), category, message)
	}
}

// render adds the data every page template expects: pending flash messages
// and the CSRF form field.
func (cc *CatalogController) render(c *gin.Context, status int, name string, data gin.H) {
	if cc.flashes != nil {
		data["Flashes"] = cc.flashes.PopFlashes(c.Request.Context())
	}
	data["CSRFField"] = security.CSRFTokenField(c)
	c.HTML(status, name, data)
}

// isUserError reports whether err describes a problem with the submitted input.
func isUserError(err error) bool {
	var verr *library.ValidationError
	return errors.As(err, &verr)
}
