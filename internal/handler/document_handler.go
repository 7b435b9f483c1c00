package handler

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"

	"gamescope/app/internal/auth"
	"gamescope/app/internal/backend"
	"gamescope/app/internal/database"
	"gamescope/app/internal/docstore"
	"gamescope/app/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// DocumentInput is the body of a create request. ID is optional; the
// server generates one when it is empty.
type DocumentInput struct {
	ID   string         `json:"id" example:"0b7d4c9e-3f39-4c59-9a51-2d5b8f0b9c11"`
	Data map[string]any `json:"data" binding:"required"`
}

// DocumentPatch is the body of an update request. Fields not named in Data
// are kept.
type DocumentPatch struct {
	Data map[string]any `json:"data" binding:"required"`
}

// DocumentList is the response of a list request.
type DocumentList struct {
	Documents []backend.Document `json:"documents"`
}

// endregion

// ListDocuments godoc
// @Summary      List documents
// @Description  Lists a collection. where[field]=value filters by equality (repeatable, ANDed); order_desc sorts by one field descending. Results are not paginated.
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path   string  true   "Collection"
// @Param        where       query  object  false  "Equality filters"
// @Param        order_desc  query  string  false  "Field to sort by, descending"
// @Success      200  {object}  DocumentList
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Unknown collection"
// @Router       /collections/{collection}/documents [get]
func ListDocuments(c *gin.Context) {
	collection, _, ok := collectionFromPath(c)
	if !ok {
		return
	}

	docs, err := database.Documents.List(c.Request.Context(), collection, queryFromRequest(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if docs == nil {
		docs = []backend.Document{}
	}

	c.JSON(http.StatusOK, DocumentList{Documents: docs})
}

// GetDocument godoc
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection"
// @Param        id          path  string  true  "Document ID"
// @Success      200  {object}  backend.Document
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /collections/{collection}/documents/{id} [get]
func GetDocument(c *gin.Context) {
	collection, _, ok := collectionFromPath(c)
	if !ok {
		return
	}

	doc, err := database.Documents.Get(c.Request.Context(), collection, c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// CreateDocument godoc
// @Summary      Create a document
// @Description  Creates a document under the given or a generated ID. Owned collections require the owner field to be the caller.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string         true  "Collection"
// @Param        input       body  DocumentInput  true  "Document"
// @Success      201  {object}  backend.Document
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "ID already taken"
// @Failure      422  {object}  ErrorResponse
// @Router       /collections/{collection}/documents [post]
func CreateDocument(c *gin.Context) {
	collection, rule, ok := collectionFromPath(c)
	if !ok {
		return
	}
	account, _ := auth.CurrentAccount(c)

	var input DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}

	if err := rule.checkCreate(account, input.Data); err != nil {
		respondStoreError(c, err)
		return
	}

	doc, err := database.Documents.Create(c.Request.Context(), collection, id, input.Data)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	hub.GlobalHub.Broadcast(collection, hub.Event{Type: hub.EventCreated, Payload: doc})
	c.JSON(http.StatusCreated, doc)
}

// UpdateDocument godoc
// @Summary      Update a document
// @Description  Merges the given fields into the document.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string         true  "Collection"
// @Param        id          path  string         true  "Document ID"
// @Param        input       body  DocumentPatch  true  "Fields to change"
// @Success      200  {object}  backend.Document
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /collections/{collection}/documents/{id} [patch]
func UpdateDocument(c *gin.Context) {
	collection, rule, ok := collectionFromPath(c)
	if !ok {
		return
	}
	account, _ := auth.CurrentAccount(c)
	id := c.Param("id")

	var input DocumentPatch
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := database.Documents.Get(c.Request.Context(), collection, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if err := rule.checkUpdate(account, existing, input.Data); err != nil {
		respondStoreError(c, err)
		return
	}

	doc, err := database.Documents.Update(c.Request.Context(), collection, id, input.Data)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	hub.GlobalHub.Broadcast(collection, hub.Event{Type: hub.EventUpdated, Payload: doc})
	c.JSON(http.StatusOK, doc)
}

// DeleteDocument godoc
// @Summary      Delete a document
// @Tags         documents
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection"
// @Param        id          path  string  true  "Document ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /collections/{collection}/documents/{id} [delete]
func DeleteDocument(c *gin.Context) {
	collection, rule, ok := collectionFromPath(c)
	if !ok {
		return
	}
	account, _ := auth.CurrentAccount(c)
	id := c.Param("id")

	existing, err := database.Documents.Get(c.Request.Context(), collection, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if err := rule.checkModify(account, existing); err != nil {
		respondStoreError(c, err)
		return
	}

	if err := database.Documents.Delete(c.Request.Context(), collection, id); err != nil {
		respondStoreError(c, err)
		return
	}

	hub.GlobalHub.Broadcast(collection, hub.Event{Type: hub.EventDeleted, Payload: gin.H{"id": id, "collection": collection}})
	c.Status(http.StatusNoContent)
}

func collectionFromPath(c *gin.Context) (string, collectionRule, bool) {
	collection := c.Param("collection")
	rule, ok := lookupRule(collection)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown collection"})
		return "", collectionRule{}, false
	}
	return collection, rule, true
}

// queryFromRequest reads where[field]=value filters, sorted by field so the
// same URL always yields the same query.
func queryFromRequest(c *gin.Context) backend.Query {
	where := c.QueryMap("where")
	fields := make([]string, 0, len(where))
	for field := range where {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var q backend.Query
	for _, field := range fields {
		q.Filters = append(q.Filters, backend.Equal(field, where[field]))
	}
	q.OrderDesc = c.Query("order_desc")
	return q
}

func respondStoreError(c *gin.Context, err error) {
	if ae, ok := asAccessError(err); ok {
		c.JSON(ae.status, gin.H{"error": ae.message})
		return
	}
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, docstore.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Document already exists"})
	default:
		log.Printf("Document store error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document store unavailable"})
	}
}
