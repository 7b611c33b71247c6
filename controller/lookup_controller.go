package controller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetList serves one lookup list, alphabetically sorted.
func (c *ActionController) GetList(ctx *gin.Context) {
	name := ctx.Param("name")
	values, err := c.service.GetList(name)
	if err != nil {
		log.Printf("[GetList] Error fetching list %s: %v", name, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"list":   name,
		"values": values,
	})
}

// AddListValue appends a value to a lookup list.
func (c *ActionController) AddListValue(ctx *gin.Context) {
	name := ctx.Param("name")

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := c.service.AddListValue(name, req.Value); err != nil {
		log.Printf("[AddListValue] Error adding value to %s: %v", name, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Value added"})
}

// DeleteListValue removes a value from a lookup list.
func (c *ActionController) DeleteListValue(ctx *gin.Context) {
	name := ctx.Param("name")
	value := ctx.Param("value")

	if err := c.service.DeleteListValue(name, value); err != nil {
		log.Printf("[DeleteListValue] Error deleting value from %s: %v", name, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Value deleted"})
}
