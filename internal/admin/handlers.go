package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pathfinder/guide-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Mount adds the console routes to g. Authentication is up to the caller.
func (c *Console) Mount(g *gin.RouterGroup) {
	// GET /admin			-> Lists the registered views
	g.GET("", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"views": c.Views()})
	})

	// GET /admin/:view		-> Paged list of rows
	g.GET("/:view", c.withView(c.list))

	// GET /admin/:view/:id		-> Single row
	g.GET("/:view/:id", c.withView(c.get))

	// POST /admin/:view		-> Creates a row
	g.POST("/:view", c.withView(c.create))

	// PUT /admin/:view/:id		-> Updates the given columns of a row
	g.PUT("/:view/:id", c.withView(c.update))

	// DELETE /admin/:view/:id	-> Deletes a row
	g.DELETE("/:view/:id", c.withView(c.delete))
}

func (c *Console) withView(h func(*gin.Context, View)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		v, ok := c.view(ctx.Param("view"))
		if !ok {
			fail(ctx, http.StatusNotFound, "Unknown view")
			return
		}

		h(ctx, v)
	}
}

func (c *Console) list(ctx *gin.Context, v View) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		fail(ctx, http.StatusBadRequest, "Page must be a positive number")
		return
	}

	perPage, err := strconv.Atoi(ctx.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 || perPage > maxPerPage {
		fail(ctx, http.StatusBadRequest, fmt.Sprintf("per_page must be between 1 and %d", maxPerPage))
		return
	}

	db := c.db.WithContext(ctx.Request.Context())

	var total int64
	if err := db.Model(v.newItem()).Count(&total).Error; err != nil {
		internalError(ctx, "Failed to count rows", err)
		return
	}

	items := v.newList()
	err = db.
		Order("id").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(items).
		Error
	if err != nil {
		internalError(ctx, "Failed to list rows", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":    items,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

func (c *Console) get(ctx *gin.Context, v View) {
	item, ok := c.load(ctx, v)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func (c *Console) create(ctx *gin.Context, v View) {
	item := v.newItem()
	if !c.decode(ctx, item) {
		return
	}

	if err := c.db.WithContext(ctx.Request.Context()).Create(item).Error; err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

func (c *Console) update(ctx *gin.Context, v View) {
	item, ok := c.load(ctx, v)
	if !ok {
		return
	}

	if !c.decode(ctx, item) {
		return
	}

	if err := c.db.WithContext(ctx.Request.Context()).Save(item).Error; err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func (c *Console) delete(ctx *gin.Context, v View) {
	id, ok := rowID(ctx)
	if !ok {
		return
	}

	r := c.db.WithContext(ctx.Request.Context()).Delete(v.newItem(), id)
	if r.Error != nil {
		writeError(ctx, r.Error)
		return
	}

	if r.RowsAffected == 0 {
		fail(ctx, http.StatusNotFound, "Row not found")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *Console) load(ctx *gin.Context, v View) (any, bool) {
	id, ok := rowID(ctx)
	if !ok {
		return nil, false
	}

	item := v.newItem()
	if err := c.db.WithContext(ctx.Request.Context()).First(item, id).Error; err != nil {
		writeError(ctx, err)
		return nil, false
	}

	return item, true
}

// decode applies the JSON object in the request body onto item. Keys must
// name columns of the table, the primary key is never taken from the body.
func (c *Console) decode(ctx *gin.Context, item any) bool {
	var fields map[string]json.RawMessage
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		fail(ctx, http.StatusBadRequest, "Malformed or invalid JSON request body")
		return false
	}

	stmt := &gorm.Statement{DB: c.db}
	if err := stmt.Parse(item); err != nil {
		internalError(ctx, "Failed to parse model schema", err)
		return false
	}

	for key := range fields {
		if _, ok := stmt.Schema.FieldsByDBName[key]; !ok {
			fail(ctx, http.StatusBadRequest, fmt.Sprintf("Unknown field %q", key))
			return false
		}
	}

	if pk := stmt.Schema.PrioritizedPrimaryField; pk != nil {
		delete(fields, pk.DBName)
	}

	cleaned, err := json.Marshal(fields)
	if err != nil {
		internalError(ctx, "Failed to encode fields", err)
		return false
	}

	if err := json.Unmarshal(cleaned, item); err != nil {
		fail(ctx, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func rowID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(ctx, http.StatusNotFound, "Row not found")
		return 0, false
	}

	return uint(id), true
}

func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fail(ctx, http.StatusNotFound, "Row not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		fail(ctx, http.StatusConflict, "Row violates a unique constraint")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		fail(ctx, http.StatusBadRequest, "Row references a missing row")
	default:
		internalError(ctx, "Admin query failed", err)
	}
}

func fail(ctx *gin.Context, code int, msg string) {
	ctx.JSON(code, gin.H{
		"error":     msg,
		"requestID": middleware.RequestID(ctx),
	})
}

func internalError(ctx *gin.Context, msg string, err error) {
	requestID := middleware.RequestID(ctx)

	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error":     "Internal server error",
		"requestID": requestID,
	})

	zap.L().Error(msg, zap.Error(err), zap.String("requestID", requestID))
}
