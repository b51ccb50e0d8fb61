package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/galasaui/internal/featureflag"
	"github.com/xxxsen/galasaui/internal/pkg/response"
)

type FeatureFlagHandler struct {
	flags *featureflag.Set
}

func NewFeatureFlagHandler(flags *featureflag.Set) *FeatureFlagHandler {
	return &FeatureFlagHandler{flags: flags}
}

func (h *FeatureFlagHandler) List(c *gin.Context) {
	response.Success(c, gin.H{"flags": h.flags.All()})
}
