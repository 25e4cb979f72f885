package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/database/models"
	"tradedesk-system/internal/seed"
)

type AdminHTTPHandler struct {
	db      *gorm.DB
	initKey string
}

func NewAdminHTTPHandler(db *gorm.DB, initKey string) *AdminHTTPHandler {
	return &AdminHTTPHandler{db: db, initKey: initKey}
}

type initDBRequest struct {
	Key string `json:"key"`
}

// InitDB creates the schema and seeds demo data. Guarded by a shared secret;
// idempotent, so re-running it against a provisioned database is safe.
func (h *AdminHTTPHandler) InitDB(c *gin.Context) {
	key := c.GetHeader("X-Init-Key")
	if key == "" {
		var req initDBRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			key = req.Key
		}
	}

	if h.initKey == "" || key != h.initKey {
		respondError(c, apperr.Forbidden("invalid initialization key"))
		return
	}

	if err := models.Migrate(h.db); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	if err := seed.EnsureDemoData(h.db); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "database initialized"})
}
